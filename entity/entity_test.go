package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ucarion/streamdoc/entity"
)

func TestMatcherExactEntity(t *testing.T) {
	trie := entity.New()
	m := trie.NewMatcher()

	var last entity.StepResult
	for _, r := range "amp;" {
		res := m.Step(r)
		if !res.Consumed {
			break
		}
		last = res
	}
	assert.True(t, last.Terminal)
	assert.Equal(t, "&", last.Value)
}

func TestMatcherLegacyNoSemi(t *testing.T) {
	trie := entity.New()
	m := trie.NewMatcher()

	res := m.Step('a')
	assert.True(t, res.Consumed)
	res = m.Step('m')
	assert.True(t, res.Consumed)
	res = m.Step('p')
	assert.True(t, res.Consumed)
	assert.True(t, res.Terminal)
	assert.True(t, res.LegacyNoSemi)
	assert.Equal(t, "&", res.Value)
}

func TestMatcherUnknownNameNotConsumed(t *testing.T) {
	trie := entity.New()
	m := trie.NewMatcher()

	res := m.Step('z')
	res = m.Step('z') // "zz" is not a prefix of any entity name
	assert.False(t, res.Consumed)
	_ = res
}

func TestMatcherLongestMatchWins(t *testing.T) {
	trie := entity.New()
	m := trie.NewMatcher()

	var results []entity.StepResult
	for _, r := range "notin;" {
		res := m.Step(r)
		if !res.Consumed {
			break
		}
		results = append(results, res)
	}
	last := results[len(results)-1]
	assert.True(t, last.Terminal)
	assert.NotEmpty(t, last.Value)
}

func TestMatcherReset(t *testing.T) {
	trie := entity.New()
	m := trie.NewMatcher()
	m.Step('a')
	m.Step('m')
	m.Reset()

	res := m.Step('l')
	assert.True(t, res.Consumed)
	res = m.Step('t')
	assert.True(t, res.Consumed)
	assert.True(t, res.Terminal)
	assert.Equal(t, "<", res.Value)
}
