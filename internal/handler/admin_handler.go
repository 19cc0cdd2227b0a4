package handler

import (
	"net/http"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

// AdminHandler exposes workspace housekeeping to operators with the admin
// role.
type AdminHandler struct {
	*Base
	workspaces *service.Workspaces
}

func NewAdminHandler(base *Base, workspaces *service.Workspaces) *AdminHandler {
	return &AdminHandler{Base: base, workspaces: workspaces}
}

// RequireAdmin rejects operators whose backend role is not "admin".
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := workspace(r).User(); !ok || u.Role != "admin" {
			writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) Workspaces(w http.ResponseWriter, r *http.Request) {
	h.ok(w, r, http.StatusOK, map[string]int{"count": h.workspaces.Len()})
}

func (h *AdminHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	n := h.workspaces.Sweep()
	h.ok(w, r, http.StatusOK, map[string]int{"dropped": n, "count": h.workspaces.Len()})
}
