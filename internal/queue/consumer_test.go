package queue

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBrokerConn struct {
	channelErr error
	closed     bool
}

func (f *fakeBrokerConn) Channel() (*amqp.Channel, error) {
	return nil, f.channelErr
}

func (f *fakeBrokerConn) Close() error {
	f.closed = true
	return nil
}

// A connection whose channel setup fails must still be closed before the
// reconnect loop dials a new one, or each retry leaks a connection.
func TestConsumeOnceClosesConnectionOnError(t *testing.T) {
	conn := &fakeBrokerConn{channelErr: errors.New("channel refused")}

	err := consumeOnce(conn)
	require.Error(t, err)
	assert.True(t, conn.closed, "the failed connection must be released")
}

func TestHandleMessageAppendsLogLine(t *testing.T) {
	t.Chdir(t.TempDir())

	ev := []byte(`{"media_id":7,"owner_id":3,"kind":"song","title":"t","uploaded_at":"2026-08-30T12:00:00Z"}`)
	require.NoError(t, handleMessage(ev))
	require.NoError(t, handleMessage(ev))

	b, err := os.ReadFile(filepath.Join("logs", "media.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "media_id=7")
	assert.Contains(t, string(b), `title="t"`)

	assert.Error(t, handleMessage([]byte("not json")), "bad payloads must be reported, not logged")
}
