package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresenceFirstAndLastConnection(t *testing.T) {
	registry := NewPresenceRegistry()

	assert.True(t, registry.Add("u1", "s1"), "first connection is the online transition")
	assert.False(t, registry.Add("u1", "s2"), "second connection is not")

	assert.True(t, registry.IsOnline("u1"))

	assert.False(t, registry.Remove("u1", "s1"), "one connection remains")
	assert.True(t, registry.IsOnline("u1"))

	assert.True(t, registry.Remove("u1", "s2"), "last connection is the offline transition")
	assert.False(t, registry.IsOnline("u1"))
}

func TestPresenceRemoveUnknown(t *testing.T) {
	registry := NewPresenceRegistry()

	assert.False(t, registry.Remove("ghost", "s1"))
	assert.False(t, registry.IsOnline("ghost"))
}

func TestPresenceConnections(t *testing.T) {
	registry := NewPresenceRegistry()

	registry.Add("u1", "s1")
	registry.Add("u1", "s2")
	registry.Add("u2", "s3")

	assert.ElementsMatch(t, []string{"s1", "s2"}, registry.Connections("u1"))
	assert.ElementsMatch(t, []string{"s3"}, registry.Connections("u2"))
	assert.Empty(t, registry.Connections("u3"))
}

func TestPresenceFilterOnline(t *testing.T) {
	registry := NewPresenceRegistry()

	registry.Add("u1", "s1")
	registry.Add("u3", "s2")

	online := registry.FilterOnline([]string{"u1", "u2", "u3", "u1"})
	assert.ElementsMatch(t, []string{"u1", "u3"}, online)

	assert.Equal(t, 2, registry.OnlineCount())
}
