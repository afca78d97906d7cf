package nodepool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/internal/nodepool"
	"github.com/ucarion/streamdoc/signal"
)

func TestPoolAddGet(t *testing.T) {
	var pool nodepool.Pool
	i := pool.Add(nodepool.Element{Name: "p"})
	assert.Equal(t, "p", pool.Get(i).Name)
}

func TestPoolCloneCopiesAttrs(t *testing.T) {
	var pool nodepool.Pool
	i := pool.Add(nodepool.Element{Name: "b", Attrs: []signal.Attribute{{Name: signal.Name{Local: "id"}, Value: "x"}}})

	j := pool.Clone(i)
	assert.NotEqual(t, i, j)
	pool.Get(j).Attrs[0].Value = "y"
	assert.Equal(t, "x", pool.Get(i).Attrs[0].Value)
}

func TestStackPushPopTop(t *testing.T) {
	var pool nodepool.Pool
	s := nodepool.NewStack(&pool)

	i1 := pool.Add(nodepool.Element{Name: "a"})
	i2 := pool.Add(nodepool.Element{Name: "b"})
	s.Push(i1)
	s.Push(i2)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "b", s.TopElement().Name)
	assert.Equal(t, i2, s.Pop())
	assert.Equal(t, i1, s.Pop())
	assert.Equal(t, 0, s.Len())
}

func TestStackTruncate(t *testing.T) {
	var pool nodepool.Pool
	s := nodepool.NewStack(&pool)
	s.Push(pool.Add(nodepool.Element{Name: "a"}))
	s.Push(pool.Add(nodepool.Element{Name: "b"}))
	s.Push(pool.Add(nodepool.Element{Name: "c"}))

	s.Truncate(1)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "a", s.TopElement().Name)
}
