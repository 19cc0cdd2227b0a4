package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/formbuilder"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

type FormHandler struct {
	*Base
}

func NewFormHandler(base *Base) *FormHandler {
	return &FormHandler{Base: base}
}

func forms(r *http.Request) *service.FormService { return workspace(r).Forms }

func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := forms(r).List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, views)
}

// Reload drops every unsaved edit and refetches the collection.
func (h *FormHandler) Reload(w http.ResponseWriter, r *http.Request) {
	views, err := forms(r).Reload(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, views)
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := forms(r).Get(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, v)
}

// Edits applies {"commands": [...]} to the form as one atomic change.
func (h *FormHandler) Edits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Commands []formbuilder.Command `json:"commands"`
	}
	if err := readJSON(r, &req); err != nil || len(req.Commands) == 0 {
		writeError(w, http.StatusBadRequest, "commands are required")
		return
	}
	v, err := forms(r).Apply(r.Context(), chi.URLParam(r, "formId"), req.Commands)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, v)
}

func (h *FormHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	v, err := forms(r).AddStep(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, v)
}

// Save answers 409 when the form has nothing to save.
func (h *FormHandler) Save(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	res, err := forms(r).Save(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !res.OK() {
		h.fail(w, r, res.Err)
		return
	}
	v, err := forms(r).Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body := map[string]any{"form": v.Form, "canSave": v.CanSave}
	if res.RefetchErr != nil {
		body["refetchError"] = res.RefetchErr.Error()
	}
	h.ok(w, r, http.StatusOK, body)
}

func (h *FormHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := forms(r).ExportCSV(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeCSV(w, "forms.csv", data)
}
