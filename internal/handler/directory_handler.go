package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

// DirectoryHandler serves CRUD and CSV export for one directory
// collection of the caller's workspace.
type DirectoryHandler[T any] struct {
	*Base
	pick     func(*service.Workspace) *service.DirectoryService[T]
	filename string
}

func NewDirectoryHandler[T any](base *Base, filename string, pick func(*service.Workspace) *service.DirectoryService[T]) *DirectoryHandler[T] {
	return &DirectoryHandler[T]{Base: base, pick: pick, filename: filename}
}

func (h *DirectoryHandler[T]) svc(r *http.Request) *service.DirectoryService[T] {
	return h.pick(workspace(r))
}

func (h *DirectoryHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc(r).List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, items)
}

func (h *DirectoryHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc(r).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, item)
}

func (h *DirectoryHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := readJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc(r).Create(r.Context(), item)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, created)
}

func (h *DirectoryHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := readJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	updated, err := h.svc(r).Update(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, updated)
}

func (h *DirectoryHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc(r).Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, map[string]string{"deleted": id})
}

func (h *DirectoryHandler[T]) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc(r).ExportCSV(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCSV(w, h.filename, data)
}
