package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/section"
)

var errUnknownSection = errors.New("unknown section")

type SectionHandler struct {
	*Base
}

func NewSectionHandler(base *Base) *SectionHandler {
	return &SectionHandler{Base: base}
}

type sectionView struct {
	Name  string        `json:"name"`
	Title string        `json:"title"`
	State section.State `json:"state"`
	Error string        `json:"error,omitempty"`
	Value any           `json:"value,omitempty"`
}

func viewOf(s section.Handle, withValue bool) sectionView {
	v := sectionView{Name: s.Name(), Title: s.Title(), State: s.State()}
	if err := s.Err(); err != nil {
		v.Error = err.Error()
	}
	if withValue {
		v.Value = s.Snapshot()
	}
	return v
}

func (h *SectionHandler) lookup(w http.ResponseWriter, r *http.Request) (section.Handle, bool) {
	name := chi.URLParam(r, "name")
	s, ok := workspace(r).Sections.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, errUnknownSection.Error()+": "+name)
	}
	return s, ok
}

func (h *SectionHandler) List(w http.ResponseWriter, r *http.Request) {
	all := workspace(r).Sections.All()
	out := make([]sectionView, 0, len(all))
	for _, s := range all {
		out = append(out, viewOf(s, false))
	}
	h.ok(w, r, http.StatusOK, out)
}

// Get fetches the section on first access.
func (h *SectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if s.State() == section.StateIdle {
		if err := s.Load(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	h.ok(w, r, http.StatusOK, viewOf(s, true))
}

// Put replaces the local value without sending it.
func (h *SectionHandler) Put(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := readJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.Replace(raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.ok(w, r, http.StatusOK, viewOf(s, true))
}

func (h *SectionHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	res := s.Save(r.Context())
	switch res.Status {
	case section.Saved:
		h.ok(w, r, http.StatusOK, viewOf(s, true))
	case section.Invalid:
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:         "validation failed",
			Fields:        res.Errors,
			Notifications: drain(r),
		})
	default:
		h.fail(w, r, res.Err)
	}
}

func (h *SectionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := s.Load(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, viewOf(s, true))
}
