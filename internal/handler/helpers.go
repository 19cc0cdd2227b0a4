package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/apiclient"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/auth"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/formbuilder"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/middleware"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/notify"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
	"github.com/parisxmas/OxiDB/OxiAdmin/internal/validate"
)

const maxJSONBody = 4 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v)
}

type dataBody struct {
	Data          any                   `json:"data"`
	Notifications []notify.Notification `json:"notifications"`
}

type errorBody struct {
	Error         string                `json:"error"`
	Fields        []validate.FieldError `json:"fields,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
}

// Base is shared by every handler: it drains the workspace's pending
// notifications into each response and ends expired sessions.
type Base struct {
	auth    *service.AuthService
	cookies auth.Cookies
	logger  *zap.Logger
}

func NewBase(authSvc *service.AuthService, cookies auth.Cookies, logger *zap.Logger) *Base {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Base{auth: authSvc, cookies: cookies, logger: logger}
}

func drain(r *http.Request) []notify.Notification {
	if ws := auth.GetWorkspace(r.Context()); ws != nil {
		return ws.Notices.Drain()
	}
	return []notify.Notification{}
}

func (b *Base) ok(w http.ResponseWriter, r *http.Request, status int, data any) {
	if ws := auth.GetWorkspace(r.Context()); ws != nil && ws.Expired() {
		b.fail(w, r, apiclient.ErrSessionExpired)
		return
	}
	writeJSON(w, status, dataBody{Data: data, Notifications: drain(r)})
}

// fail answers err. A backend session expiry clears the admin cookie and
// sends the operator to the login screen.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	ws := auth.GetWorkspace(r.Context())
	if errors.Is(err, apiclient.ErrSessionExpired) || (ws != nil && ws.Expired()) {
		if ws != nil {
			b.auth.Expire(r.Context(), ws)
		}
		b.cookies.Clear(w)
		http.Redirect(w, r, apiclient.LoginPath, http.StatusSeeOther)
		return
	}

	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		b.logger.Error("request failed",
			zap.String("request_id", middleware.RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	body := errorBody{Error: msg, Notifications: drain(r)}
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	writeJSON(w, status, body)
}

func classify(err error) (int, string) {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apiclient.KindAuth:
			return apiErr.Status, apiErr.Message
		case apiclient.KindValidation:
			return http.StatusUnprocessableEntity, apiErr.Message
		case apiclient.KindNetwork:
			return http.StatusBadGateway, "backend unreachable"
		}
		switch apiErr.Status {
		case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
			return apiErr.Status, apiErr.Message
		}
		return http.StatusBadGateway, apiErr.Message
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, "validation failed"
	case errors.Is(err, formbuilder.ErrUnknownDocument):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNothingToSave), errors.Is(err, formbuilder.ErrStepHidden):
		return http.StatusConflict, err.Error()
	case errors.Is(err, formbuilder.ErrStepRange), errors.Is(err, formbuilder.ErrFieldRange),
		errors.Is(err, formbuilder.ErrFieldType), errors.Is(err, formbuilder.ErrUnknownOp),
		errors.Is(err, formbuilder.ErrBadValue),
		errors.Is(err, service.ErrMissingID), errors.Is(err, service.ErrCredentialsRequired),
		errors.Is(err, service.ErrEmptyUpload), errors.Is(err, service.ErrNotAnImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrUploadTooBig):
		return http.StatusRequestEntityTooLarge, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

func workspace(r *http.Request) *service.Workspace {
	return auth.GetWorkspace(r.Context())
}
