package extract

import (
	"io/fs"
	"path"
	"strconv"
	"strings"

	"cogentcore.org/core/base/iox/jsonx"

	"slicerweb/internal/inherit"
)

// Manifest is a <vendor>.json file.
type Manifest struct {
	Name          string  `json:"name"`
	Version       string  `json:"version"`
	MachineModels []Entry `json:"machine_model_list"`
	Machines      []Entry `json:"machine_list"`
	Filaments     []Entry `json:"filament_list"`
	Processes     []Entry `json:"process_list"`
}

// Entry points at one preset file relative to the vendor directory.
type Entry struct {
	Name    string `json:"name"`
	SubPath string `json:"sub_path"`
}

// Preset directories inside a vendor directory.
const (
	dirMachine  = "machine"
	dirFilament = "filament"
	dirProcess  = "process"
)

func readJSON(fsys fs.FS, name string, v any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	return jsonx.Read(v, f)
}

func readProfile(fsys fs.FS, name string) (inherit.Profile, error) {
	var p inherit.Profile
	if err := readJSON(fsys, name, &p); err != nil {
		return nil, err
	}

	return p, nil
}

func stem(name string) string {
	return strings.TrimSuffix(path.Base(name), ".json")
}

// splitList splits a ";"-separated setting, or flattens a JSON array.
func splitList(v any) []string {
	var raw []string

	switch v := v.(type) {
	case string:
		raw = strings.Split(v, ";")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, strings.Split(s, ";")...)
			}
		}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// parseFloats parses every element of a list setting, skipping garbage.
func parseFloats(v any) []float64 {
	var out []float64

	for _, s := range splitList(v) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out = append(out, f)
		}
	}

	return out
}

// firstString returns a string setting, or the first element of a list.
func firstString(v any) string {
	if list := splitList(v); len(list) > 0 {
		return list[0]
	}

	return ""
}
