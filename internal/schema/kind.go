package schema

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind is the value kind of a setting.
type Kind int

const (
	KindString  Kind = iota // string
	KindFloat               // float
	KindInt                 // int
	KindBool                // bool
	KindEnum                // enum
	KindPercent             // percent
)

// KindFromEngineType maps an engine type name such as "float_or_percent"
// or "ints" onto a Kind. Percent is checked first so that
// float-or-percent options keep their percent form. Points are edited as
// text.
func KindFromEngineType(engineType string) Kind {
	t := strings.ToLower(engineType)

	switch {
	case strings.Contains(t, "percent"):
		return KindPercent
	case strings.Contains(t, "float"):
		return KindFloat
	case strings.Contains(t, "point"):
		return KindString
	case strings.Contains(t, "int"):
		return KindInt
	case strings.Contains(t, "bool"):
		return KindBool
	case strings.Contains(t, "enum"):
		return KindEnum
	default:
		return KindString
	}
}

// IsNumeric reports whether values of the kind are numbers in the UI.
func (k Kind) IsNumeric() bool {
	return k == KindFloat || k == KindInt || k == KindPercent
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for c := KindString; c <= KindPercent; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}

	return fmt.Errorf("unknown kind %q", text)
}

// Category is the top-level grouping of a setting.
type Category string

const (
	CategoryPrinter  Category = "printer"
	CategoryFilament Category = "filament"
	CategoryProcess  Category = "process"
)

// Categories lists the categories in display order.
var Categories = []Category{CategoryPrinter, CategoryFilament, CategoryProcess}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPrinter, CategoryFilament, CategoryProcess:
		return true
	default:
		return false
	}
}
