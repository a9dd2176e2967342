package realtime

import (
	"testing"

	"skillswap/app/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *SocketIoHandler {
	return NewSocketHandler(services.NewPresenceRegistry(), nil, nil, nil, nil, nil)
}

func TestBindUserTracksFirstConnection(t *testing.T) {
	h := newTestHandler()

	first, err := h.bindUser("sock-1", "alice")
	require.NoError(t, err)
	assert.True(t, first)

	first, err = h.bindUser("sock-2", "alice")
	require.NoError(t, err)
	assert.False(t, first)

	assert.True(t, h.presence.IsOnline("alice"))
}

func TestBindUserSameIdentityIsIdempotent(t *testing.T) {
	h := newTestHandler()

	_, err := h.bindUser("sock-1", "alice")
	require.NoError(t, err)

	// Re-authenticating with the same token must not register a second
	// presence entry for the connection
	first, err := h.bindUser("sock-1", "alice")
	require.NoError(t, err)
	assert.False(t, first)
	assert.Equal(t, []string{"sock-1"}, h.presence.Connections("alice"))
}

func TestBindUserRejectsIdentitySwitch(t *testing.T) {
	h := newTestHandler()

	_, err := h.bindUser("sock-1", "alice")
	require.NoError(t, err)

	// A second authenticate with a different user's token keeps the
	// original binding, so disconnect bookkeeping still clears alice
	_, err = h.bindUser("sock-1", "bob")
	assert.Error(t, err)

	userID, ok := h.userFor("sock-1")
	require.True(t, ok)
	assert.Equal(t, "alice", userID)

	assert.True(t, h.presence.IsOnline("alice"))
	assert.False(t, h.presence.IsOnline("bob"))

	assert.True(t, h.presence.Remove("alice", "sock-1"))
	assert.False(t, h.presence.IsOnline("alice"))
}
