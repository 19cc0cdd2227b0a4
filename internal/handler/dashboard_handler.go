package handler

import (
	"net/http"
)

type DashboardHandler struct {
	*Base
}

func NewDashboardHandler(base *Base) *DashboardHandler {
	return &DashboardHandler{Base: base}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ov, err := workspace(r).Overview(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, ov)
}
