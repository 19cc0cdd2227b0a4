package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFromZapEntry(t *testing.T) {
	w := &Writer{hostname: "box", service: "oxiadmin"}
	msg := w.Message([]byte(`{"level":"warn","ts":1700000000.5,"msg":"form save failed","form":"f1","id":"r-1"}`))

	assert.Equal(t, "form save failed", msg["short_message"])
	assert.Equal(t, 4, msg["level"])
	assert.Equal(t, 1700000000.5, msg["timestamp"])
	assert.Equal(t, "f1", msg["_form"])
	assert.Equal(t, "r-1", msg["_field_id"])
	assert.Equal(t, "oxiadmin", msg["_service"])
	assert.NotContains(t, msg, "_msg")
}

func TestMessagePlainText(t *testing.T) {
	w := &Writer{hostname: "box", service: "oxiadmin"}
	msg := w.Message([]byte("not json"))
	assert.Equal(t, "not json", msg["short_message"])
	assert.Equal(t, 6, msg["level"])
}

func TestWriteSendsUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "oxiadmin")
	require.NoError(t, err)
	defer w.Close()

	line := []byte(`{"level":"error","msg":"boom"}`)
	n, err := w.Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 4096)
	n, _, err = pc.ReadFrom(buf)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &got))
	assert.Equal(t, "boom", got["short_message"])
	assert.Equal(t, float64(3), got["level"])
	assert.Equal(t, "1.1", got["version"])
}
