package inherit

import (
	"context"
	"fmt"
	"log/slog"

	"slicerweb/internal/diagnostic"
)

// Resolve flattens p against bases. The result never carries an inherits
// field and shares no map with the inputs. Profiles without a base come
// back as an equal copy.
func Resolve(p Profile, bases Lookup) (Profile, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	out := resolve(p, bases, nil, &diags)
	delete(out, InheritsKey)

	return out, diags
}

// resolve takes the chain of base names already visited in this lineage.
// Each branch extends its own copy, so sibling lookups never see each
// other's visits.
func resolve(p Profile, bases Lookup, chain []string, diags *diagnostic.Diagnostics) Profile {
	baseName, ok := p.Inherits()
	if !ok {
		if v := p[InheritsKey]; v != nil && v != "" {
			diags.AddWarning(diagnostic.CodeInheritMissingBase,
				fmt.Sprintf("inherits is %T, not a profile name", p[InheritsKey]), p.Name(), "")
		}

		out := p.Clone()
		delete(out, InheritsKey)

		return out
	}

	for _, seen := range chain {
		if seen == baseName {
			diags.AddWarning(diagnostic.CodeInheritCycle,
				fmt.Sprintf("inheritance cycle through %q, keeping own fields", baseName), p.Name(), baseName)

			out := p.Clone()
			delete(out, InheritsKey)

			return out
		}
	}

	base, found := bases.Lookup(baseName)
	if !found {
		diags.AddWarning(diagnostic.CodeInheritMissingBase,
			fmt.Sprintf("base profile %q not found, keeping own fields", baseName), p.Name(), baseName)

		out := p.Clone()
		delete(out, InheritsKey)

		return out
	}

	next := make([]string, len(chain), len(chain)+1)
	copy(next, chain)
	next = append(next, baseName)

	out := resolve(base, bases, next, diags)
	for k, v := range p {
		out[k] = v
	}

	delete(out, InheritsKey)

	return out
}

// Resolver resolves profiles against a fixed set of bases and logs what
// it could not resolve.
type Resolver struct {
	bases  Lookup
	logger *slog.Logger
}

// NewResolver creates a Resolver. A nil logger means slog.Default().
func NewResolver(bases Lookup, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	if bases == nil {
		bases = Bases{}
	}

	return &Resolver{bases: bases, logger: logger}
}

// Resolve flattens p and logs any diagnostics.
func (r *Resolver) Resolve(ctx context.Context, p Profile) Profile {
	out, diags := Resolve(p, r.bases)
	diags.Log(ctx, r.logger)

	return out
}

// ResolveAll flattens every profile and returns the collected diagnostics.
func (r *Resolver) ResolveAll(ctx context.Context, profiles []Profile) ([]Profile, diagnostic.Diagnostics) {
	var all diagnostic.Diagnostics

	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		resolved, diags := Resolve(p, r.bases)
		out[i] = resolved

		all.Merge(diags)
	}

	all.Log(ctx, r.logger)

	return out, all
}
