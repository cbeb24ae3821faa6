package rc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matgrad/internal/rc"
)

type payload struct {
	name string
}

type chain struct {
	name  string
	child rc.Ref[chain]
}

func TestRef_DropsAtZero(t *testing.T) {
	dropped := 0
	r := rc.New(&payload{name: "a"}, func(p *payload) {
		dropped++
		assert.Equal(t, "a", p.name)
	})
	require.Equal(t, 1, r.UseCount())

	s := r.Acquire()
	assert.Equal(t, 2, r.UseCount())
	assert.True(t, r.Same(s))

	r.Release()
	assert.True(t, r.IsNil())
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 1, s.UseCount())

	s.Release()
	assert.Equal(t, 1, dropped)
	assert.True(t, s.IsNil())
}

func TestRef_NullHandle(t *testing.T) {
	var r rc.Ref[payload]
	assert.True(t, r.IsNil())
	assert.False(t, r.Alive())
	assert.Equal(t, 0, r.UseCount())
	assert.True(t, r.Acquire().IsNil())
	assert.NotPanics(t, func() { r.Release() })
	assert.False(t, r.Same(rc.Ref[payload]{}))
}

func TestRef_GetAfterDropPanics(t *testing.T) {
	r := rc.New(&payload{}, nil)
	alias := r // plain copy, not an owner
	r.Release()

	assert.False(t, alias.Alive())
	assert.Panics(t, func() { _ = alias.Get() })
	assert.Panics(t, func() { alias.Release() })
}

func TestRef_CascadingDrop(t *testing.T) {
	var order []string
	drop := func(n *chain) {
		order = append(order, n.name)
		n.child.Release()
	}

	leaf := rc.New(&chain{name: "leaf"}, drop)
	parent := rc.New(&chain{name: "parent", child: leaf.Acquire()}, drop)

	leaf.Release()
	assert.Empty(t, order, "leaf still owned by parent edge")

	parent.Release()
	assert.Equal(t, []string{"parent", "leaf"}, order)
}
