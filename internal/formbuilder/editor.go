package formbuilder

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
)

// Store is the remote side of the form collection.
type Store interface {
	List(ctx context.Context) ([]models.FormDocument, error)
	Replace(ctx context.Context, doc models.FormDocument) error
}

// RefetchPolicy decides what happens to other documents' local edits when
// the collection is refetched after a save.
type RefetchPolicy int

const (
	// RefetchAll replaces every editable copy with the server state.
	RefetchAll RefetchPolicy = iota
	// RefetchKeepDirty keeps unsaved copies of the documents not just saved.
	RefetchKeepDirty
)

// ParseRefetchPolicy maps a config value to a policy. Unknown values fall
// back to RefetchAll.
func ParseRefetchPolicy(s string) RefetchPolicy {
	if s == "keep-dirty" {
		return RefetchKeepDirty
	}
	return RefetchAll
}

type SaveStatus int

const (
	SaveFailed SaveStatus = iota
	SaveSucceeded
)

// SaveResult reports the outcome of Editor.Save.
type SaveResult struct {
	Status SaveStatus
	// Payload is the document sent to the store.
	Payload models.FormDocument
	Err     error
	// RefetchErr is set when the save went through but the refetch failed.
	RefetchErr error
}

func (r SaveResult) OK() bool { return r.Status == SaveSucceeded }

// Editor holds one editable copy per fetched form document and tracks which
// copies have unsaved changes.
type Editor struct {
	store    Store
	notifier notify.Notifier
	logger   *zap.Logger
	policy   RefetchPolicy

	mu      sync.RWMutex
	loaded  bool
	fetched []models.FormDocument
	order   []string
	copies  map[string]models.FormDocument
}

type Option func(*Editor)

func WithNotifier(n notify.Notifier) Option { return func(e *Editor) { e.notifier = n } }
func WithLogger(l *zap.Logger) Option       { return func(e *Editor) { e.logger = l } }
func WithRefetchPolicy(p RefetchPolicy) Option {
	return func(e *Editor) { e.policy = p }
}

func NewEditor(store Store, opts ...Option) *Editor {
	e := &Editor{
		store:    store,
		notifier: notify.Discard,
		logger:   zap.NewNop(),
		copies:   map[string]models.FormDocument{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load fetches the collection and reseeds every editable copy.
func (e *Editor) Load(ctx context.Context) error {
	return e.load(ctx, "")
}

// load refetches; under RefetchKeepDirty, dirty copies other than saved survive.
func (e *Editor) load(ctx context.Context, saved string) error {
	docs, err := e.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load forms: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.copies
	e.loaded = true
	e.fetched = docs
	e.order = make([]string, 0, len(docs))
	e.copies = make(map[string]models.FormDocument, len(docs))
	for _, d := range docs {
		if old, ok := prev[d.ID]; ok && e.policy == RefetchKeepDirty && old.IsChanged && d.ID != saved {
			e.copies[d.ID] = old
		} else {
			d.IsChanged = false
			e.copies[d.ID] = d
		}
		e.order = append(e.order, d.ID)
	}
	e.logger.Debug("forms loaded", zap.Int("count", len(docs)))
	return nil
}

// Loaded reports whether the collection has been fetched at least once.
func (e *Editor) Loaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// Documents returns the editable copies in fetch order.
func (e *Editor) Documents() []models.FormDocument {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.FormDocument, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.copies[id])
	}
	return out
}

// Fetched returns the collection exactly as the store last returned it.
func (e *Editor) Fetched() []models.FormDocument {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fetched
}

func (e *Editor) Document(id string) (models.FormDocument, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.copies[id]
	return d, ok
}

// Apply runs edits against the copy of id. Either every edit applies and
// the copy is marked changed, or the copy is left as it was. No edits leave
// the copy untouched.
func (e *Editor) Apply(id string, edits ...Edit) (models.FormDocument, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	doc, ok := e.copies[id]
	if !ok {
		return models.FormDocument{}, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	if len(edits) == 0 {
		return doc, nil
	}
	next, err := Chain(edits...)(doc)
	if err != nil {
		return doc, err
	}
	next.IsChanged = true
	e.copies[id] = next
	return next, nil
}

func (e *Editor) AddStep(id string) (models.FormDocument, error) {
	return e.Apply(id, AddStep())
}

// CanSave reports whether the save control for id should be enabled.
func (e *Editor) CanSave(id string) bool {
	d, ok := e.Document(id)
	return ok && d.IsChanged
}

// Save sends the copy of id as a full replacement and refetches the
// collection. Save does not check CanSave; callers gate the control.
func (e *Editor) Save(ctx context.Context, id string) SaveResult {
	doc, ok := e.Document(id)
	if !ok {
		return SaveResult{Status: SaveFailed, Err: fmt.Errorf("%w: %s", ErrUnknownDocument, id)}
	}
	doc.IsChanged = false

	if err := e.store.Replace(ctx, doc); err != nil {
		e.logger.Warn("form save failed", zap.String("form", id), zap.Error(err))
		return SaveResult{Status: SaveFailed, Payload: doc, Err: err}
	}
	notify.Success(e.notifier, fmt.Sprintf("Form %q saved", doc.FormName))

	res := SaveResult{Status: SaveSucceeded, Payload: doc}
	if err := e.load(ctx, id); err != nil {
		e.logger.Warn("form refetch after save failed", zap.String("form", id), zap.Error(err))
		res.RefetchErr = err
		e.markClean(id)
	}
	return res
}

func (e *Editor) markClean(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d, ok := e.copies[id]; ok {
		d.IsChanged = false
		e.copies[id] = d
	}
}
