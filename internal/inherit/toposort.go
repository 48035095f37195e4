package inherit

import (
	"fmt"
	"sort"
)

// cycleError reports the nodes left over once every acyclic node has
// been ordered.
type cycleError struct {
	nodes []int
}

func (e *cycleError) Error() string {
	return fmt.Sprintf("cycle detected among %d profiles", len(e.nodes))
}

// topoSort returns node indices so that every node comes after the nodes
// it depends on.
//
// depsFn(i) yields indices that must come before i. The result is
// deterministic: when multiple nodes are available, the smallest index is
// picked. If a cycle exists, a *cycleError lists the unordered nodes.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		deps := depsFn(i)
		for _, d := range deps {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		var left []int

		for i := range n {
			if indeg[i] > 0 {
				left = append(left, i)
			}
		}

		return order, &cycleError{nodes: left}
	}

	return order, nil
}
