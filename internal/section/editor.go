// Package section edits named slices of site content. Each section is
// fetched whole, edited locally and saved back whole; the last writer wins.
package section

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/validate"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
	StateEditing State = "editing"
	StateSaving  State = "saving"
)

// Store reads and replaces sections on the backend.
type Store interface {
	Get(ctx context.Context, name string, out any) error
	Put(ctx context.Context, name string, v any) error
}

// Spec describes one section type.
type Spec[T any] struct {
	Name  string
	Title string
	// Defaults returns the shape server data is merged over, so fields the
	// backend omits come back as empty values rather than missing ones.
	Defaults func() T
	Schema   validate.Schema
	// RefetchOnSave reloads the section after a successful save.
	RefetchOnSave bool
	// Sanitize cleans the value right before it is sent.
	Sanitize func(T) T
}

type ResultStatus int

const (
	Saved ResultStatus = iota + 1
	Invalid
	Failed
)

func (s ResultStatus) String() string {
	switch s {
	case Saved:
		return "saved"
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of a save.
type Result struct {
	Status ResultStatus
	Errors []validate.FieldError
	Err    error
}

func (r Result) OK() bool { return r.Status == Saved }

type options struct {
	notifier notify.Notifier
	logger   *zap.Logger
}

type Option func(*options)

func WithNotifier(n notify.Notifier) Option { return func(o *options) { o.notifier = n } }
func WithLogger(l *zap.Logger) Option       { return func(o *options) { o.logger = l } }

func buildOptions(opts []Option) options {
	o := options{notifier: notify.Discard, logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Editor binds one section to local editable state.
//
// The section as last fetched is kept alongside the typed value, and a save
// lays the value over it, so members T does not model reach the backend
// unchanged.
type Editor[T any] struct {
	spec  Spec[T]
	store Store
	opts  options

	mu    sync.RWMutex
	state State
	value T
	// rev counts local value changes.
	rev  uint64
	base json.RawMessage
	err  error
}

func NewEditor[T any](spec Spec[T], store Store, opts ...Option) *Editor[T] {
	return &Editor[T]{
		spec:  spec,
		store: store,
		opts:  buildOptions(opts),
		state: StateIdle,
		value: spec.Defaults(),
	}
}

func (e *Editor[T]) Name() string  { return e.spec.Name }
func (e *Editor[T]) Title() string { return e.spec.Title }

func (e *Editor[T]) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Err is the error behind the last transition to StateError.
func (e *Editor[T]) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.err
}

func (e *Editor[T]) Value() T {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.value
}

func (e *Editor[T]) setState(s State, err error) {
	e.mu.Lock()
	e.state, e.err = s, err
	e.mu.Unlock()
}

// Load fetches the section and merges it over the defaults. On failure the
// previous local value is kept.
func (e *Editor[T]) Load(ctx context.Context) error {
	e.setState(StateLoading, nil)
	var raw json.RawMessage
	err := e.store.Get(ctx, e.spec.Name, &raw)
	if isNull(raw) {
		raw = nil
	}
	v := e.spec.Defaults()
	if err == nil && raw != nil {
		err = json.Unmarshal(raw, &v)
	}
	if err != nil {
		err = fmt.Errorf("load section %s: %w", e.spec.Name, err)
		e.setState(StateError, err)
		return err
	}
	e.mu.Lock()
	e.value, e.base, e.state, e.err = v, raw, StateLoaded, nil
	e.rev++
	e.mu.Unlock()
	return nil
}

func isNull(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

func (e *Editor[T]) Set(v T) {
	e.mu.Lock()
	e.value, e.state = v, StateEditing
	e.rev++
	e.mu.Unlock()
}

// Update applies fn to the current value.
func (e *Editor[T]) Update(fn func(T) T) {
	e.mu.Lock()
	e.value, e.state = fn(e.value), StateEditing
	e.rev++
	e.mu.Unlock()
}

func (e *Editor[T]) Validate() []validate.FieldError {
	return e.spec.Schema.Check(e.Value())
}

// Save validates and sends the local value as a full replacement. Local
// edits survive a failed save so the operator can retry.
func (e *Editor[T]) Save(ctx context.Context) Result {
	e.mu.RLock()
	v, rev, base := e.value, e.rev, e.base
	e.mu.RUnlock()
	if errs := e.spec.Schema.Check(v); len(errs) > 0 {
		notify.Error(e.opts.notifier, "Please fill in all required fields.")
		return Result{Status: Invalid, Errors: errs}
	}
	if e.spec.Sanitize != nil {
		v = e.spec.Sanitize(v)
	}

	payload, err := models.MergeOver(base, v)
	if err != nil {
		err = fmt.Errorf("encode section %s: %w", e.spec.Name, err)
		e.setState(StateError, err)
		return Result{Status: Failed, Err: err}
	}

	e.setState(StateSaving, nil)
	if err := e.store.Put(ctx, e.spec.Name, payload); err != nil {
		err = fmt.Errorf("save section %s: %w", e.spec.Name, err)
		e.opts.logger.Warn("section save failed", zap.String("section", e.spec.Name), zap.Error(err))
		e.setState(StateError, err)
		return Result{Status: Failed, Err: err}
	}
	notify.Success(e.opts.notifier, e.spec.Title+" saved")

	if e.spec.RefetchOnSave {
		if err := e.Load(ctx); err != nil {
			e.opts.logger.Warn("section refetch failed", zap.String("section", e.spec.Name), zap.Error(err))
		}
		return Result{Status: Saved}
	}
	e.mu.Lock()
	e.base = payload
	if e.rev == rev {
		e.value, e.state, e.err = v, StateLoaded, nil
	} else {
		// Edited while the save was in flight; keep the newer value.
		e.state, e.err = StateEditing, nil
	}
	e.mu.Unlock()
	return Result{Status: Saved}
}

// Handle is an Editor with its type erased, for generic HTTP plumbing.
type Handle interface {
	Name() string
	Title() string
	State() State
	Err() error
	Load(ctx context.Context) error
	Snapshot() any
	Replace(raw json.RawMessage) error
	Validate() []validate.FieldError
	Save(ctx context.Context) Result
}

func (e *Editor[T]) Snapshot() any { return e.Value() }

// Replace decodes raw over the defaults and makes it the local value.
func (e *Editor[T]) Replace(raw json.RawMessage) error {
	v := e.spec.Defaults()
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode section %s: %w", e.spec.Name, err)
	}
	e.Set(v)
	return nil
}
