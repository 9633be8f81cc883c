package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/tekalign/internal/engine/scene"
)

func TestRegisterAndGet(t *testing.T) {
	r := New()
	a := scene.NewNode("a", scene.KindGroup)
	b := scene.NewNode("b", scene.KindGroup)

	idA := r.Register(a)
	idB := r.Register(b)
	assert.NotEqual(t, idA, idB)
	assert.Equal(t, idA, r.Register(a), "re-register returns same id")
	assert.Equal(t, 2, r.Len())

	g, ok := r.Get(idB)
	require.True(t, ok)
	assert.Same(t, b, g)

	id, ok := r.IDOf(a)
	require.True(t, ok)
	assert.Equal(t, idA, id)
}

func TestAllKeepsOrder(t *testing.T) {
	r := New()
	var nodes []*scene.Node
	var ids []ID
	for _, name := range []string{"a", "b", "c", "d"} {
		n := scene.NewNode(name, scene.KindGroup)
		nodes = append(nodes, n)
		ids = append(ids, r.Register(n))
	}
	assert.Equal(t, nodes, r.All())

	require.True(t, r.Unregister(ids[1]))
	assert.Equal(t, []*scene.Node{nodes[0], nodes[2], nodes[3]}, r.All())
}

func TestUnregister(t *testing.T) {
	r := New()
	a := scene.NewNode("a", scene.KindGroup)
	id := r.Register(a)

	assert.True(t, r.Contains(id))
	assert.True(t, r.Unregister(id))
	assert.False(t, r.Contains(id))
	assert.False(t, r.Unregister(id), "second unregister is a no-op")
	assert.False(t, r.Unregister(uuid.New()))
	_, ok := r.IDOf(a)
	assert.False(t, ok)
	assert.Empty(t, r.All())
}
