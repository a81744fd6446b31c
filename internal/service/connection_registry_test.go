package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRegistrySendFansOutPerUser(t *testing.T) {
	reg := NewConnectionRegistry("chat", quietLogger())

	a1, err := reg.Register(1)
	require.NoError(t, err)
	a2, err := reg.Register(1)
	require.NoError(t, err)
	b, err := reg.Register(2)
	require.NoError(t, err)

	assert.Equal(t, 2, reg.Send(1, []byte("hi")))
	assert.Equal(t, []byte("hi"), <-a1.Send)
	assert.Equal(t, []byte("hi"), <-a2.Send)
	assert.Len(t, b.Send, 0)

	assert.Equal(t, 0, reg.Send(99, []byte("nobody")))
	assert.Equal(t, 3, reg.ConnectionCount())
	assert.ElementsMatch(t, []int{1, 2}, reg.OnlineUsers())
}

func TestConnectionRegistryPrunesStalledConnection(t *testing.T) {
	reg := NewConnectionRegistry("notifications", quietLogger())
	reg.bufferSize = 1

	conn, err := reg.Register(5)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Send(5, []byte("first")))
	// buffer full: the second push fails and the connection is dropped
	assert.Equal(t, 0, reg.Send(5, []byte("second")))
	assert.False(t, reg.IsOnline(5))

	msg, ok := <-conn.Send
	assert.True(t, ok)
	assert.Equal(t, []byte("first"), msg)
	_, ok = <-conn.Send
	assert.False(t, ok, "send channel is closed after pruning")
}

func TestConnectionRegistryUnregisterIsIdempotent(t *testing.T) {
	reg := NewConnectionRegistry("chat", quietLogger())
	conn, err := reg.Register(3)
	require.NoError(t, err)

	reg.Unregister(conn)
	reg.Unregister(conn)
	assert.False(t, reg.IsOnline(3))
}

func TestConnectionRegistryClose(t *testing.T) {
	reg := NewConnectionRegistry("chat", quietLogger())
	conn, err := reg.Register(4)
	require.NoError(t, err)

	reg.Close()
	_, ok := <-conn.Send
	assert.False(t, ok)

	_, err = reg.Register(4)
	assert.ErrorIs(t, err, ErrRegistryClosed)
}

func TestConnectionRegistrySendJSON(t *testing.T) {
	reg := NewConnectionRegistry("chat", quietLogger())
	conn, err := reg.Register(8)
	require.NoError(t, err)

	n, err := reg.SendJSON(8, map[string]string{"type": "pong"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.JSONEq(t, `{"type":"pong"}`, string(<-conn.Send))
}

func TestConnectionRegistrySendToSingleConnection(t *testing.T) {
	reg := NewConnectionRegistry("chat", quietLogger())
	a, err := reg.Register(1)
	require.NoError(t, err)
	b, err := reg.Register(1)
	require.NoError(t, err)

	assert.True(t, reg.SendTo(a, []byte("pong")))
	assert.Equal(t, []byte("pong"), <-a.Send)
	assert.Len(t, b.Send, 0)

	reg.Unregister(a)
	assert.False(t, reg.SendTo(a, []byte("late")), "removed connection is not written")
}
