package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Codes shared by the packages that report diagnostics.
const (
	CodeInheritCycle       = "inherit_cycle"
	CodeInheritMissingBase = "inherit_missing_base"
	CodeOrphanSection      = "orphan_section"
	CodeCatchAllSection    = "catch_all_section"
	CodeDuplicateUIKey     = "duplicate_ui_key"
	CodeDuplicateEngineKey = "duplicate_engine_key"
	CodeUnknownTransform   = "unknown_transform"
	CodeEmptyKey           = "empty_key"
	CodeOutOfRange         = "out_of_range"
	CodeInvalidOption      = "invalid_option"
	CodeWrongType          = "wrong_type"
	CodeUnparsedVersion    = "unparsed_version"
	CodeUnreadableFile     = "unreadable_file"
	CodeUnknownVendor      = "unknown_vendor"
	CodeDuplicateVendor    = "duplicate_vendor"
)

// Diagnostics holds all diagnostic information collected by a best-effort pass.
type Diagnostics struct {
	Errors   []Diagnostic `json:"errors,omitempty"`
	Warnings []Diagnostic `json:"warnings,omitempty"`
	Infos    []Diagnostic `json:"infos,omitempty"`
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"severity"`
	// Code is a unique identifier for this type of diagnostic.
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Scope names the unit being processed (a vendor, a profile, a section).
	Scope string `json:"scope,omitempty"`
	// Key identifies which setting or profile key this relates to (if any).
	Key string `json:"key,omitempty"`
	// Suggestions are potential fixes or alternatives.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Level maps the severity onto a slog level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, scope, key string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Scope:    scope,
		Key:      key,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, scope, key string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Scope:    scope,
		Key:      key,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, scope, key string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Scope:    scope,
		Key:      key,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Empty reports whether nothing at all was recorded.
func (d *Diagnostics) Empty() bool {
	return len(d.Errors) == 0 && len(d.Warnings) == 0 && len(d.Infos) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors, warnings and infos in that order.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// WithCode returns every diagnostic carrying the given code.
func (d *Diagnostics) WithCode(code string) []Diagnostic {
	var out []Diagnostic

	for _, diag := range d.All() {
		if diag.Code == code {
			out = append(out, diag)
		}
	}

	return out
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// Log emits every diagnostic as a structured record on logger.
// Infos are logged at debug level.
func (d *Diagnostics) Log(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, diag := range d.All() {
		attrs := []slog.Attr{slog.String("code", diag.Code)}
		if diag.Scope != "" {
			attrs = append(attrs, slog.String("scope", diag.Scope))
		}

		if diag.Key != "" {
			attrs = append(attrs, slog.String("key", diag.Key))
		}

		logger.LogAttrs(ctx, diag.Severity.Level(), diag.Message, attrs...)
	}
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Scope != "" {
		prefix = append(prefix, "["+d.Scope+"]")
	}

	if d.Key != "" {
		prefix = append(prefix, d.Key)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
