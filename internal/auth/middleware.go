package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

// CookieName is the admin session cookie.
const CookieName = "oxiadmin_session"

type contextKey string

const workspaceContextKey contextKey = "workspace"

// WorkspaceSource resolves authenticated workspaces by id.
type WorkspaceSource interface {
	Get(ctx context.Context, id string) (*service.Workspace, bool)
}

// Cookies issues and clears the admin session cookie.
type Cookies struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

func (c Cookies) Set(w http.ResponseWriter, workspaceID string) error {
	tok, err := GenerateToken(c.Secret, workspaceID, c.TTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(c.TTL / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Middleware admits requests whose cookie names a live, authenticated
// workspace and puts that workspace in the request context.
func Middleware(secret string, source WorkspaceSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "unauthorized")
				return
			}
			claims, err := ValidateToken(secret, cookie.Value)
			if err != nil {
				unauthorized(w, "invalid session")
				return
			}
			ws, ok := source.Get(r.Context(), claims.WorkspaceID)
			if !ok {
				unauthorized(w, "session ended")
				return
			}
			ctx := context.WithValue(r.Context(), workspaceContextKey, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithWorkspace returns ctx carrying ws, as Middleware does.
func WithWorkspace(ctx context.Context, ws *service.Workspace) context.Context {
	return context.WithValue(ctx, workspaceContextKey, ws)
}

func GetWorkspace(ctx context.Context) *service.Workspace {
	ws, _ := ctx.Value(workspaceContextKey).(*service.Workspace)
	return ws
}
