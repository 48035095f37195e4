// Package config holds the command configuration structs.
//
// The structs are consumed by cogentcore.org/core/cli: `default` tags set
// the initial values, fields become flags, and an optional TOML file named
// after the command (slicerweb.toml, extract-profiles.toml) in the working
// directory overrides the defaults before flags are applied.
package config

import (
	"errors"
	"fmt"
	"time"

	"slicerweb/internal/logging"
	"slicerweb/internal/profiles"
	"slicerweb/internal/slicerr"
)

// Config configures the slicerweb command.
type Config struct {

	// Listen is the address the HTTP service binds.
	Listen string `default:":8080"`

	// Profiles is the profile storage root: a directory holding index.json
	// and the tier directories, or an http(s) base URL under which the
	// layout is served at profiles/.
	Profiles string `default:"profiles"`

	// Schema is a prebuilt schema.json. When empty the engine describes
	// its configuration at startup.
	Schema string

	// Rules overrides the embedded key translation rules.
	Rules string

	// Sections overrides the embedded section and field metadata.
	Sections string

	// Output is the file written by extract-schema.
	Output string `default:"schema.json"`

	// Prefetch is the tier prefetched at startup; empty disables it.
	Prefetch string

	// PrefetchConcurrency bounds parallel vendor fetches.
	PrefetchConcurrency int `default:"4"`

	// RequestTimeout bounds every HTTP request except slices.
	RequestTimeout time.Duration `default:"30s"`

	// MaxUpload bounds the size of a slice upload in bytes.
	MaxUpload int64 `default:"268435456"`

	// Engine configures the slicing engine process.
	Engine EngineConfig

	// Log configures logging.
	Log LogConfig
}

// EngineConfig configures the engine binary.
type EngineConfig struct {

	// Path is the engine binary.
	Path string `default:"slicer-engine"`

	// Args are passed before the engine command.
	Args []string

	// Timeout bounds one engine call; zero means no limit.
	Timeout time.Duration `default:"10m"`
}

// LogConfig configures logging.
type LogConfig struct {

	// Level is debug, info, warn or error.
	Level string `default:"info"`

	// Format is text or json.
	Format string `default:"text"`
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}

	if c.Profiles == "" {
		errs = append(errs, errors.New("profiles root is empty"))
	}

	if c.Prefetch != "" {
		if _, err := profiles.ParseTier(c.Prefetch); err != nil {
			errs = append(errs, err)
		}
	}

	if c.PrefetchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("prefetch concurrency %d must be positive", c.PrefetchConcurrency))
	}

	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout %s is negative", c.RequestTimeout))
	}

	if c.MaxUpload <= 0 {
		errs = append(errs, fmt.Errorf("max upload %d must be positive", c.MaxUpload))
	}

	if c.Engine.Timeout < 0 {
		errs = append(errs, fmt.Errorf("engine timeout %s is negative", c.Engine.Timeout))
	}

	errs = append(errs, c.Log.validate())

	return join("config.Validate", errs)
}

func (l LogConfig) validate() error {
	if _, err := logging.ParseLevel(l.Level); err != nil {
		return err
	}

	switch l.Format {
	case logging.FormatText, logging.FormatJSON:
		return nil
	default:
		return fmt.Errorf("log format %q must be %s or %s", l.Format, logging.FormatText, logging.FormatJSON)
	}
}

func join(op string, errs []error) error {
	if err := errors.Join(errs...); err != nil {
		return slicerr.Wrap(slicerr.KindConfiguration, op, "", err)
	}

	return nil
}
