package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/auth"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

type AuthHandler struct {
	*Base
	svc *service.AuthService
}

func NewAuthHandler(base *Base, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Base: base, svc: svc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ws, user, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if ws != nil {
		r = r.WithContext(auth.WithWorkspace(r.Context(), ws))
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.cookies.Set(w, ws.ID); err != nil {
		h.logger.Error("issuing admin cookie failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.ok(w, r, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Logout(r.Context(), workspace(r)); err != nil {
		h.logger.Warn("logout cleanup failed", zap.Error(err))
	}
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := workspace(r).User()
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.ok(w, r, http.StatusOK, map[string]any{"user": user})
}
