package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"slicerweb/internal/common"
	"slicerweb/internal/slicerr"
)

// Payload is the engine's described configuration.
type Payload struct {
	GeneratedAt string           `json:"generatedAt,omitempty"`
	OptionCount int              `json:"optionCount"`
	Categories  []OptionCategory `json:"categories"`
}

// OptionCategory groups options under an engine category label.
type OptionCategory struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// Option describes one engine configuration key. Options are immutable
// once decoded.
type Option struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	FullLabel  string   `json:"fullLabel,omitempty"`
	Type       string   `json:"type"`
	Mode       string   `json:"mode,omitempty"`
	Nullable   bool     `json:"nullable,omitempty"`
	IsVector   bool     `json:"isVector,omitempty"`
	Category   string   `json:"category"`
	GUIType    string   `json:"guiType,omitempty"`
	Tooltip    string   `json:"tooltip,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Min        *float64 `json:"min,omitempty"`
	Max        *float64 `json:"max,omitempty"`
	Default    any      `json:"default,omitempty"`
	EnumValues []string `json:"enumValues,omitempty"`
	EnumLabels []string `json:"enumLabels,omitempty"`
	// Ordinal is the engine's serialization ordinal; nil when not reported.
	Ordinal *int `json:"serializationOrdinal,omitempty"`
}

// IsAdvanced reports whether the engine marks the option as expert-only.
func (o *Option) IsAdvanced() bool {
	return o.Mode == "advanced" || o.Mode == "develop"
}

// Options returns all options in category order.
func (p *Payload) Options() []Option {
	n := 0
	for _, c := range p.Categories {
		n += len(c.Options)
	}

	out := make([]Option, 0, n)
	for _, c := range p.Categories {
		out = append(out, c.Options...)
	}

	return out
}

// legacyOption is one entry of the older flat payload keyed by option key.
type legacyOption struct {
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	Category   string   `json:"category"`
	GUIType    string   `json:"guiType"`
	Tooltip    string   `json:"tooltip"`
	Unit       string   `json:"unit"`
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Default    any      `json:"default_value"`
	EnumValues []string `json:"enum_values"`
}

// ParsePayload decodes the categorized payload, falling back to the legacy
// flat {key: descriptor} form. Malformed or empty payloads are
// configuration errors.
func ParsePayload(data []byte) (*Payload, error) {
	const op = "schema.ParsePayload"

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, slicerr.New(slicerr.KindConfiguration, op, "", "empty schema payload")
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, op, "", fmt.Errorf("schema payload is not an object: %w", err))
	}

	var p *Payload

	if raw, ok := root["categories"]; ok && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		p = &Payload{}
		if err := json.Unmarshal(data, p); err != nil {
			return nil, slicerr.Wrap(slicerr.KindConfiguration, op, "", err)
		}
	} else {
		var err error
		if p, err = parseLegacy(root); err != nil {
			return nil, slicerr.Wrap(slicerr.KindConfiguration, op, "", err)
		}
	}

	opts := p.Options()
	if len(opts) == 0 {
		return nil, slicerr.New(slicerr.KindConfiguration, op, "", "schema payload describes no options")
	}

	for _, o := range opts {
		if o.Key == "" {
			return nil, slicerr.New(slicerr.KindConfiguration, op, "", "option without a key")
		}
	}

	p.OptionCount = len(opts)

	return p, nil
}

func parseLegacy(root map[string]json.RawMessage) (*Payload, error) {
	cat := OptionCategory{ID: "legacy", Label: "General"}

	for _, key := range common.SortedKeys(root) {
		var lo legacyOption
		if err := json.Unmarshal(root[key], &lo); err != nil {
			return nil, fmt.Errorf("legacy option %q: %w", key, err)
		}

		o := Option{
			Key:        key,
			Label:      lo.Label,
			Type:       lo.Type,
			Category:   lo.Category,
			GUIType:    lo.GUIType,
			Tooltip:    lo.Tooltip,
			Unit:       lo.Unit,
			Min:        lo.Min,
			Max:        lo.Max,
			Default:    lo.Default,
			EnumValues: lo.EnumValues,
		}
		if o.Label == "" {
			o.Label = key
		}

		if o.Type == "" {
			o.Type = "string"
		}

		if o.Category == "" {
			o.Category = "General"
		}

		cat.Options = append(cat.Options, o)
	}

	return &Payload{Categories: []OptionCategory{cat}}, nil
}

// LoadPayloadFile reads and parses a payload from disk.
func LoadPayloadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindConfiguration, "schema.LoadPayloadFile", path, err)
	}

	return ParsePayload(data)
}
