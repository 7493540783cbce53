// Package module computes a dependency-first compile order from a set of
// files and the imports each one declares, reporting a circular-import
// error instead of an order when one exists.
package module

import (
	"fmt"
	"sort"
	"strings"
)

// Graph accumulates one edge per `use` declaration: file A imports file B.
type Graph struct {
	imports map[string][]string
}

// NewGraph returns an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{imports: map[string][]string{}}
}

// AddFile records one file's import list, registering the file itself even
// when its import list is empty so it still appears in the final order.
func (g *Graph) AddFile(name string, imports []string) {
	if _, ok := g.imports[name]; !ok {
		g.imports[name] = nil
	}
	g.imports[name] = append(g.imports[name], imports...)
	for _, imp := range imports {
		if _, ok := g.imports[imp]; !ok {
			g.imports[imp] = nil
		}
	}
}

// Order returns a dependency-first compile order: every file appears after
// everything it imports. Cycle detection uses a "loading" (currently on the
// DFS stack) versus "resolved" (fully ordered) two-map technique, and
// reports the offending import chain when one is found.
func (g *Graph) Order() ([]string, error) {
	loading := map[string]bool{}
	resolved := map[string]bool{}
	order := make([]string, 0, len(g.imports))

	names := make([]string, 0, len(g.imports))
	for n := range g.imports {
		names = append(names, n)
	}
	sort.Strings(names)

	var visit func(name string, chain []string) error
	visit = func(name string, chain []string) error {
		if resolved[name] {
			return nil
		}
		if loading[name] {
			return fmt.Errorf("circular import: %s", strings.Join(append(chain, name), " -> "))
		}
		loading[name] = true
		deps := append([]string{}, g.imports[name]...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep, append(chain, name)); err != nil {
				return err
			}
		}
		delete(loading, name)
		resolved[name] = true
		order = append(order, name)
		return nil
	}

	for _, n := range names {
		if err := visit(n, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Order is the single-shot convenience form: build a graph from one file's
// import list (no transitive edges known) and return its order: the
// imported names in sorted order (not the order the `use` declarations name
// them), followed by the synthetic root "$main".
func Order(imports []string) ([]string, error) {
	g := NewGraph()
	g.AddFile("$main", imports)
	return g.Order()
}
