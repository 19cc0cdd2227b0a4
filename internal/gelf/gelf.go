// Package gelf ships zap JSON log entries to a Graylog input over UDP.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"time"
)

// Writer sends one GELF message per Write call. It expects each call to
// carry a single JSON-encoded zap entry, which is what a zapcore.ioCore
// produces. Non-JSON payloads are forwarded verbatim as short_message.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New dials addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}
	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// syslog severities
var levels = map[string]int{
	"debug":  7,
	"info":   6,
	"warn":   4,
	"error":  3,
	"dpanic": 2,
	"panic":  2,
	"fatal":  2,
}

// Message builds the GELF payload for one log line.
func (w *Writer) Message(p []byte) map[string]any {
	msg := map[string]any{
		"version":  "1.1",
		"host":     w.hostname,
		"level":    6,
		"_service": w.service,
	}

	var entry map[string]any
	if err := json.Unmarshal(p, &entry); err != nil {
		msg["short_message"] = string(p)
		msg["timestamp"] = float64(time.Now().UnixNano()) / 1e9
		return msg
	}

	msg["short_message"], _ = entry["msg"].(string)
	if lvl, ok := entry["level"].(string); ok {
		if n, ok := levels[lvl]; ok {
			msg["level"] = n
		}
	}
	if ts, ok := entry["ts"].(float64); ok {
		msg["timestamp"] = ts
	} else {
		msg["timestamp"] = float64(time.Now().UnixNano()) / 1e9
	}
	for k, v := range entry {
		switch k {
		case "msg", "level", "ts":
			continue
		case "id":
			// "_id" is reserved by GELF
			k = "field_id"
		}
		msg["_"+k] = v
	}
	return msg
}

// Write implements io.Writer. Send errors are swallowed so logging never
// fails the caller.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.Message(p))
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer; UDP has nothing to flush.
func (w *Writer) Sync() error { return nil }

func (w *Writer) Close() error { return w.conn.Close() }
