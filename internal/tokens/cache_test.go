package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_ReplaceAndLookup(t *testing.T) {
	c := NewCache()
	assert.False(t, c.Ready())
	assert.False(t, c.Validate("a"))

	src := map[string]Entry{"a": {RateLimit: 5}, "b": {RateLimit: 10}}
	c.Replace(src)
	src["c"] = Entry{RateLimit: 1}

	assert.True(t, c.Ready())
	assert.True(t, c.Validate("a"))
	assert.Equal(t, 5, c.RateLimit("a"))
	assert.Equal(t, 10, c.RateLimit("b"))
	assert.False(t, c.Validate("c"), "cache must not alias the caller's map")
	assert.Equal(t, 0, c.RateLimit("c"))
	assert.Equal(t, 2, c.Len())
}

func TestCache_ReplaceWithEmptyIsReady(t *testing.T) {
	c := NewCache()
	c.Replace(nil)
	assert.True(t, c.Ready())
	assert.False(t, c.Validate("anything"))
}

func TestCache_ReplaceDropsOldTokens(t *testing.T) {
	c := NewCache()
	c.Replace(map[string]Entry{"a": {RateLimit: 5}, "b": {RateLimit: 10}})
	c.Replace(map[string]Entry{"a": {RateLimit: 7}, "c": {RateLimit: 12}})

	assert.Equal(t, 7, c.RateLimit("a"))
	assert.False(t, c.Validate("b"))
	assert.Equal(t, 12, c.RateLimit("c"))
}
