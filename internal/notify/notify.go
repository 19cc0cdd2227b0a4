// Package notify carries user-facing notifications (toasts) from the API
// client and the editors to whatever surface shows them.
package notify

import "sync"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one transient message for the operator.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(Notification)
}

// Func adapts a function to Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

func Info(n Notifier, msg string)    { n.Notify(Notification{Level: LevelInfo, Message: msg}) }
func Success(n Notifier, msg string) { n.Notify(Notification{Level: LevelSuccess, Message: msg}) }
func Warning(n Notifier, msg string) { n.Notify(Notification{Level: LevelWarning, Message: msg}) }
func Error(n Notifier, msg string)   { n.Notify(Notification{Level: LevelError, Message: msg}) }

// Queue buffers notifications until the next response drains them.
// When full, the oldest entry is dropped.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	limit int
}

// NewQueue returns a queue holding at most limit entries (0 means 32).
func NewQueue(limit int) *Queue {
	if limit <= 0 {
		limit = 32
	}
	return &Queue{limit: limit}
}

func (q *Queue) Notify(n Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == q.limit {
		q.items = q.items[1:]
	}
	q.items = append(q.items, n)
}

// Drain returns the buffered notifications and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		return []Notification{}
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
