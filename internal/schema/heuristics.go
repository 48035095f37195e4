package schema

import "strings"

type categoryRule struct {
	prefix   string
	category Category
}

// categoryRules is evaluated in order; filament temperature keys are
// listed before the generic nozzle_ prefix.
var categoryRules = []categoryRule{
	{prefix: "filament_", category: CategoryFilament},
	{prefix: "nozzle_temperature", category: CategoryFilament},
	{prefix: "bed_temperature", category: CategoryFilament},
	{prefix: "fan_", category: CategoryFilament},
	{prefix: "printer_", category: CategoryPrinter},
	{prefix: "nozzle_", category: CategoryPrinter},
	{prefix: "retraction_", category: CategoryPrinter},
	{prefix: "z_hop", category: CategoryPrinter},
}

// CategoryForKey derives the top-level category of a UI key.
func CategoryForKey(uiKey string) Category {
	for _, r := range categoryRules {
		if strings.HasPrefix(uiKey, r.prefix) {
			return r.category
		}
	}

	return CategoryProcess
}

// SectionRule assigns a section when Match holds for a UI key and the
// engine's lower-cased category label.
type SectionRule struct {
	Name    string
	Match   func(key, label string) bool
	Section string
}

func labelHas(sub string) func(key, label string) bool {
	return func(_, label string) bool { return strings.Contains(label, sub) }
}

func labelAndKey(labelSub string, keySubs ...string) func(key, label string) bool {
	return func(key, label string) bool {
		if !strings.Contains(label, labelSub) {
			return false
		}

		for _, s := range keySubs {
			if strings.Contains(key, s) {
				return true
			}
		}

		return false
	}
}

func keyHas(subs ...string) func(key, label string) bool {
	return func(key, _ string) bool {
		for _, s := range subs {
			if strings.Contains(key, s) {
				return true
			}
		}

		return false
	}
}

// SectionRules is the ordered section heuristic. The last rule always
// matches.
var SectionRules = []SectionRule{
	{Name: "printer extruder", Match: labelAndKey("printer", "extruder"), Section: "printer_extruder"},
	{Name: "printer retraction", Match: labelAndKey("printer", "retraction", "z_hop"), Section: "printer_retraction"},
	{Name: "printer machine", Match: labelAndKey("printer", "machine"), Section: "printer_machine"},
	{Name: "printer", Match: labelHas("printer"), Section: "printer_basic"},
	{Name: "filament temperature", Match: labelAndKey("filament", "temperature"), Section: "filament_temperature"},
	{Name: "filament cooling", Match: labelAndKey("filament", "cooling", "fan"), Section: "filament_cooling"},
	{Name: "filament flow", Match: labelAndKey("filament", "flow"), Section: "filament_flow"},
	{Name: "filament", Match: labelHas("filament"), Section: "filament_basic"},
	{Name: "quality label", Match: labelHas("quality"), Section: "process_quality"},
	{Name: "strength label", Match: labelHas("strength"), Section: "process_strength"},
	{Name: "speed label", Match: labelHas("speed"), Section: "process_speed"},
	{Name: "support label", Match: labelHas("support"), Section: "process_support"},
	{Name: "advanced label", Match: labelHas("advanced"), Section: AdvancedSection},
	{Name: "quality key", Match: keyHas("layer", "wall", "seam"), Section: "process_quality"},
	{Name: "strength key", Match: keyHas("infill", "bridge"), Section: "process_strength"},
	{Name: "speed key", Match: keyHas("speed", "acceleration"), Section: "process_speed"},
	{Name: "support key", Match: keyHas("support"), Section: "process_support"},
	{Name: "catch-all", Match: func(string, string) bool { return true }, Section: AdvancedSection},
}

// SectionFor returns the section for a UI key given the engine's category
// label, and whether only the catch-all rule matched.
func SectionFor(uiKey, categoryLabel string) (section string, catchAll bool) {
	label := strings.ToLower(categoryLabel)

	for i, r := range SectionRules {
		if r.Match(uiKey, label) {
			return r.Section, i == len(SectionRules)-1
		}
	}

	return AdvancedSection, true
}
