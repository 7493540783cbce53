package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIsDependencyFirst(t *testing.T) {
	g := NewGraph()
	g.AddFile("main", []string{"geometry"})
	g.AddFile("geometry", []string{"math"})
	g.AddFile("math", nil)

	order, err := g.Order()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	assert.Less(t, pos["math"], pos["geometry"])
	assert.Less(t, pos["geometry"], pos["main"])
}

func TestOrderDetectsCycle(t *testing.T) {
	g := NewGraph()
	g.AddFile("a", []string{"b"})
	g.AddFile("b", []string{"c"})
	g.AddFile("c", []string{"a"})

	_, err := g.Order()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular import")
}

func TestOrderSingleShot(t *testing.T) {
	order, err := Order([]string{"ui", "actors"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"$main", "ui", "actors"}, order)
}
