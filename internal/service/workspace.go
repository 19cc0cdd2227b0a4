package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/apiclient"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/formbuilder"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/repository"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/section"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/session"
)

// Workspace is everything one signed-in operator edits through: their
// backend session, the notifications waiting to be shown, and the editors.
type Workspace struct {
	ID        string
	Session   *session.Session
	Client    *apiclient.Client
	Notices   *notify.Queue
	Forms     *FormService
	Sections  *section.Registry
	Employees *DirectoryService[models.Employee]
	Companies *DirectoryService[models.Company]
	Uploads   *UploadService

	expired  atomic.Bool
	lastSeen atomic.Int64
}

// Expired reports whether the backend declared the session expired since
// the workspace was created.
func (w *Workspace) Expired() bool { return w.expired.Load() }

func (w *Workspace) touch(now time.Time) { w.lastSeen.Store(now.UnixNano()) }

func (w *Workspace) idleSince() time.Time { return time.Unix(0, w.lastSeen.Load()) }

// User returns the operator the backend authenticated.
func (w *Workspace) User() (models.User, bool) { return w.Session.User() }

// WorkspaceConfig is what every workspace is built from.
type WorkspaceConfig struct {
	BaseURL        string
	Store          session.Store
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	RefetchPolicy  formbuilder.RefetchPolicy
	UploadMaxBytes int64
	Logger         *zap.Logger
}

// Workspaces maps admin session ids to workspaces and drops the ones left
// idle longer than the TTL.
type Workspaces struct {
	cfg    WorkspaceConfig
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	items map[string]*Workspace

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewWorkspaces starts the janitor, which checks for idle workspaces every
// sweep interval. Close stops it.
func NewWorkspaces(cfg WorkspaceConfig, ttl, sweep time.Duration) *Workspaces {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	m := &Workspaces{
		cfg:    cfg,
		ttl:    ttl,
		logger: cfg.Logger,
		now:    time.Now,
		items:  map[string]*Workspace{},
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go m.janitor(sweep)
	return m
}

func sessionKey(id string) string { return "admin:" + id }

func (m *Workspaces) build(id string) *Workspace {
	cfg := m.cfg
	logger := cfg.Logger.With(zap.String("workspace", id))
	ws := &Workspace{
		ID:      id,
		Session: session.New(cfg.Store, sessionKey(id)),
		Notices: notify.NewQueue(0),
	}
	opts := []apiclient.Option{
		apiclient.WithNotifier(ws.Notices),
		apiclient.WithLogger(logger),
		apiclient.WithNavigator(apiclient.NavigatorFunc(func(string) { ws.expired.Store(true) })),
	}
	if cfg.HTTPClient != nil {
		hc := *cfg.HTTPClient
		opts = append(opts, apiclient.WithHTTPClient(&hc))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, apiclient.WithTimeout(cfg.RequestTimeout))
	}
	ws.Client = apiclient.New(cfg.BaseURL, ws.Session, opts...)

	forms := repository.NewFormRepo(ws.Client)
	ws.Forms = NewFormService(forms, formbuilder.NewEditor(forms,
		formbuilder.WithNotifier(ws.Notices),
		formbuilder.WithLogger(logger),
		formbuilder.WithRefetchPolicy(cfg.RefetchPolicy),
	))
	ws.Sections = section.NewRegistry(repository.NewSectionRepo(ws.Client),
		section.WithNotifier(ws.Notices),
		section.WithLogger(logger),
	)
	ws.Employees = NewEmployeeService(repository.NewEmployeeRepo(ws.Client), ws.Notices)
	ws.Companies = NewCompanyService(repository.NewCompanyRepo(ws.Client), ws.Notices)
	ws.Uploads = NewUploadService(ws.Client, cfg.UploadMaxBytes)
	ws.touch(m.now())
	return ws
}

// Create registers a fresh, not yet authenticated workspace.
func (m *Workspaces) Create() *Workspace {
	ws := m.build(uuid.NewString())
	m.mu.Lock()
	m.items[ws.ID] = ws
	m.mu.Unlock()
	return ws
}

// Get returns the workspace for id, restoring it from the session store
// when the process restarted since it was created. Only authenticated
// workspaces are returned.
func (m *Workspaces) Get(ctx context.Context, id string) (*Workspace, bool) {
	m.mu.Lock()
	ws, ok := m.items[id]
	m.mu.Unlock()
	if !ok {
		restored, err := m.restore(ctx, id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				m.logger.Warn("workspace restore failed", zap.String("workspace", id), zap.Error(err))
			}
			return nil, false
		}
		ws = restored
	}
	if !ws.Session.Authenticated() {
		return nil, false
	}
	ws.touch(m.now())
	return ws, true
}

func (m *Workspaces) restore(ctx context.Context, id string) (*Workspace, error) {
	if _, err := m.cfg.Store.Load(ctx, sessionKey(id)); err != nil {
		return nil, err
	}
	ws := m.build(id)
	if err := ws.Session.Init(ctx); err != nil {
		return nil, fmt.Errorf("restore workspace: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.items[id]; ok {
		return existing, nil
	}
	m.items[id] = ws
	m.logger.Info("workspace restored", zap.String("workspace", id))
	return ws, nil
}

// Remove forgets the workspace in memory. Persisted session state is left
// to the caller.
func (m *Workspaces) Remove(id string) {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
}

func (m *Workspaces) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Sweep drops workspaces idle for longer than the TTL and returns how many
// went.
func (m *Workspaces) Sweep() int {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, ws := range m.items {
		if ws.idleSince().Before(cutoff) {
			delete(m.items, id)
			n++
		}
	}
	return n
}

func (m *Workspaces) janitor(every time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("idle workspaces dropped", zap.Int("count", n))
			}
		}
	}
}

// Close stops the janitor and waits for it to exit.
func (m *Workspaces) Close() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}
