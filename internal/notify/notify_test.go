package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueDrain(t *testing.T) {
	q := NewQueue(0)
	Success(q, "saved")
	Error(q, "boom")

	assert.Equal(t, 2, q.Len())
	got := q.Drain()
	assert.Equal(t, []Notification{
		{Level: LevelSuccess, Message: "saved"},
		{Level: LevelError, Message: "boom"},
	}, got)
	assert.Empty(t, q.Drain())
	assert.NotNil(t, q.Drain())
}

func TestQueueDropsOldest(t *testing.T) {
	q := NewQueue(2)
	Info(q, "a")
	Info(q, "b")
	Warning(q, "c")

	got := q.Drain()
	if assert.Len(t, got, 2) {
		assert.Equal(t, "b", got[0].Message)
		assert.Equal(t, LevelWarning, got[1].Level)
	}
}
