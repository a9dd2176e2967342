package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchParticipants(t *testing.T) {
	match := Match{User1: "a", User2: "b"}

	assert.True(t, match.HasParticipant("a"))
	assert.True(t, match.HasParticipant("b"))
	assert.False(t, match.HasParticipant("c"))

	assert.Equal(t, "b", match.OtherParticipant("a"))
	assert.Equal(t, "a", match.OtherParticipant("b"))
	assert.Equal(t, "", match.OtherParticipant("c"))
}
