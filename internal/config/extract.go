package config

import (
	"errors"
	"fmt"
)

// ExtractConfig configures the extract-profiles command.
type ExtractConfig struct {

	// Source is the vendor profile tree: <vendor>.json manifests next to
	// <vendor>/ directories holding machine, filament and process files.
	Source string `default:"resources/profiles" posarg:"0" required:"-"`

	// Output is the storage layout root that receives index.json and the
	// tier directories.
	Output string `default:"profiles"`

	// Tier restricts extraction to the vendors of one tier list: popular,
	// extended or all.
	Tier string `default:"all"`

	// Vendors restricts extraction to the named vendors. It takes
	// precedence over Tier.
	Vendors []string

	// Popular overrides the built-in popular vendor list.
	Popular []string

	// Extended overrides the built-in extended vendor list.
	Extended []string

	// All lifts the per-vendor caps.
	All bool

	// MaxPrinters caps printer models per vendor; 0 means unlimited.
	MaxPrinters int `default:"10"`

	// MaxFilaments caps filament presets per vendor; 0 means unlimited.
	MaxFilaments int `default:"50"`

	// MaxProcesses caps process presets per vendor; 0 means unlimited.
	MaxProcesses int `default:"30"`

	// Log configures logging.
	Log LogConfig
}

// Validate reports every invalid field.
func (c *ExtractConfig) Validate() error {
	var errs []error

	if c.Source == "" {
		errs = append(errs, errors.New("source directory is empty"))
	}

	if c.Output == "" {
		errs = append(errs, errors.New("output directory is empty"))
	}

	switch c.Tier {
	case "", "all", "popular", "extended":
	default:
		errs = append(errs, fmt.Errorf("tier %q must be popular, extended or all", c.Tier))
	}

	for name, n := range map[string]int{
		"max printers":  c.MaxPrinters,
		"max filaments": c.MaxFilaments,
		"max processes": c.MaxProcesses,
	} {
		if n < 0 {
			errs = append(errs, fmt.Errorf("%s %d is negative", name, n))
		}
	}

	errs = append(errs, c.Log.validate())

	return join("config.ExtractConfig.Validate", errs)
}
