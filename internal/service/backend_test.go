package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/models"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/session"
)

const listingForm = `{"_id":"f1","formName":"Listing","description":"Property listing","theme":"dark",
"steps":[{"stepTitle":"Basics","stepOrder":1,"visible":true,"fields":[
{"label":"Title","name":"title","placeholder":"","type":"text","options":[],"required":true,"visible":true}]}]}`

// fakeBackend is an in-memory stand-in for the content API.
type fakeBackend struct {
	srv *httptest.Server

	mu        sync.Mutex
	forms     map[string]json.RawMessage
	puts      []string
	employees []models.Employee
	expired   bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{forms: map[string]json.RawMessage{"f1": json.RawMessage(listingForm)}}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	mux.HandleFunc("GET /forms", b.listForms)
	mux.HandleFunc("PUT /forms/{id}", b.putForm)
	mux.HandleFunc("GET /employees", b.listEmployees)
	mux.HandleFunc("POST /employees", b.createEmployee)
	mux.HandleFunc("GET /companies", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []models.Company{{ID: "c1", Name: "Acme"}})
	})
	b.srv = httptest.NewServer(b.guard(mux))
	t.Cleanup(b.srv.Close)
	return b
}

func reply(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= 400 {
		_ = json.NewEncoder(w).Encode(data)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "message": "ok"})
}

func (b *fakeBackend) expire() {
	b.mu.Lock()
	b.expired = true
	b.mu.Unlock()
}

func (b *fakeBackend) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		expired := b.expired
		b.mu.Unlock()
		if expired && r.URL.Path != "/auth/login" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Session expired", "code": "SESSION_EXPIRED"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Password != "secret" {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials", "code": "INVALID_CREDENTIALS"})
		return
	}
	reply(w, http.StatusOK, models.AuthResult{Token: "tok-" + req.Email, User: models.User{ID: "u1", Email: req.Email, Role: "admin"}})
}

func (b *fakeBackend) listForms(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]json.RawMessage, 0, len(b.forms))
	for _, f := range b.forms {
		out = append(out, f)
	}
	reply(w, http.StatusOK, out)
}

func (b *fakeBackend) putForm(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	b.mu.Lock()
	b.forms[r.PathValue("id")] = body
	b.puts = append(b.puts, string(body))
	b.mu.Unlock()
	reply(w, http.StatusOK, nil)
}

func (b *fakeBackend) listEmployees(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	reply(w, http.StatusOK, b.employees)
}

func (b *fakeBackend) createEmployee(w http.ResponseWriter, r *http.Request) {
	var e models.Employee
	_ = json.NewDecoder(r.Body).Decode(&e)
	b.mu.Lock()
	e.ID = "e1"
	b.employees = append(b.employees, e)
	b.mu.Unlock()
	reply(w, http.StatusCreated, e)
}

func (b *fakeBackend) putCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.puts)
}

func (b *fakeBackend) firstPut() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.puts[0]
}

func newManager(t *testing.T, b *fakeBackend, store session.Store) *Workspaces {
	t.Helper()
	m := NewWorkspaces(WorkspaceConfig{
		BaseURL:    b.srv.URL,
		Store:      store,
		HTTPClient: b.srv.Client(),
	}, time.Hour, time.Hour)
	t.Cleanup(m.Close)
	return m
}
