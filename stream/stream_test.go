package stream_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/stream"
)

func TestFromSliceToList(t *testing.T) {
	s := stream.FromSlice([]int{1, 2, 3})
	vals, err := stream.ToList(s)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vals)
}

func TestPushBackReverseOrder(t *testing.T) {
	s := stream.FromSlice([]int{3})
	s.PushBack(2)
	s.PushBack(1)

	vals, err := stream.ToList(s)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vals)
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := stream.FromSlice([]int{1, 2})

	var peeked int
	s.Peek(func(error) {}, func() {}, func(v int) { peeked = v })
	assert.Equal(t, 1, peeked)

	vals, err := stream.ToList(s)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2}, vals)
}

func TestMap(t *testing.T) {
	s := stream.Map(stream.FromSlice([]int{1, 2, 3}), func(v int) int { return v * 2 })
	vals, err := stream.ToList(s)
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, vals)
}

func TestFilter(t *testing.T) {
	s := stream.Filter(stream.FromSlice([]int{1, 2, 3, 4}), func(v int) bool { return v%2 == 0 })
	vals, err := stream.ToList(s)
	assert.NoError(t, err)
	assert.Equal(t, []int{2, 4}, vals)
}

func TestConcat(t *testing.T) {
	s := stream.Concat(stream.FromSlice([]int{1, 2}), stream.FromSlice([]int{3, 4}))
	vals, err := stream.ToList(s)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, vals)
}

func TestStickyEnd(t *testing.T) {
	s := stream.FromSlice([]int{1})

	var calls int
	onEnd := func() { calls++ }
	for i := 0; i < 3; i++ {
		s.Advance(func(error) {}, onEnd, func(int) {})
	}
	assert.Equal(t, 2, calls)
}

func TestErrorIsSticky(t *testing.T) {
	wantErr := errors.New("boom")
	s := stream.FromFunc(func(onErr stream.OnError, onEnd stream.OnEnd, onVal stream.OnValue[int]) {
		onErr(wantErr)
	})

	var gotErr error
	s.Advance(func(err error) { gotErr = err }, func() {}, func(int) {})
	assert.Equal(t, wantErr, gotErr)

	gotErr = nil
	s.Advance(func(err error) { gotErr = err }, func() {}, func(int) {})
	assert.Equal(t, wantErr, gotErr)
}
