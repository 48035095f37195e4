package inherit

import (
	"errors"
	"fmt"

	"slicerweb/internal/common"
	"slicerweb/internal/diagnostic"
)

// CheckGraph lints the inheritance graph formed by bases. Missing bases
// are warnings; profiles on or behind a cycle are errors. It also returns
// the names in an order where every base precedes its children; cyclic
// profiles are left out of that order.
func CheckGraph(bases Bases) ([]string, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	names := common.SortedKeys(bases)
	index := make(map[string]int, len(names))

	for i, name := range names {
		index[name] = i
	}

	order, err := topoSort(len(names), func(i int) []int {
		base, ok := bases[names[i]].Inherits()
		if !ok {
			return nil
		}

		j, found := index[base]
		if !found {
			diags.AddWarning(diagnostic.CodeInheritMissingBase,
				fmt.Sprintf("base profile %q not found", base), names[i], base)

			return nil
		}

		return []int{j}
	})

	var cyc *cycleError
	if errors.As(err, &cyc) {
		for _, i := range cyc.nodes {
			base, _ := bases[names[i]].Inherits()
			diags.AddError(diagnostic.CodeInheritCycle,
				fmt.Sprintf("inherits %q, which leads back into a cycle", base), names[i], base)
		}
	}

	sorted := make([]string, len(order))
	for k, i := range order {
		sorted[k] = names[i]
	}

	return sorted, diags
}
