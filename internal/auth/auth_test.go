package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(secret, "ws-1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", claims.WorkspaceID)

	_, err = ValidateToken("other", tok)
	assert.Error(t, err)

	expired, err := GenerateToken(secret, "ws-1", -time.Minute)
	require.NoError(t, err)
	_, err = ValidateToken(secret, expired)
	assert.Error(t, err)

	empty, err := GenerateToken(secret, "", time.Hour)
	require.NoError(t, err)
	_, err = ValidateToken(secret, empty)
	assert.Error(t, err)
}

type sourceFunc func(id string) (*service.Workspace, bool)

func (f sourceFunc) Get(_ context.Context, id string) (*service.Workspace, bool) { return f(id) }

func TestMiddleware(t *testing.T) {
	ws := &service.Workspace{ID: "ws-1"}
	source := sourceFunc(func(id string) (*service.Workspace, bool) {
		return ws, id == "ws-1"
	})
	var seen *service.Workspace
	h := Middleware(secret, source)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetWorkspace(r.Context())
	}))

	cookies := Cookies{Secret: secret, TTL: time.Hour}
	issue := func(id string) *http.Cookie {
		rec := httptest.NewRecorder()
		require.NoError(t, cookies.Set(rec, id))
		return rec.Result().Cookies()[0]
	}

	tests := []struct {
		name   string
		cookie *http.Cookie
		status int
	}{
		{"no cookie", nil, http.StatusUnauthorized},
		{"garbage", &http.Cookie{Name: CookieName, Value: "nope"}, http.StatusUnauthorized},
		{"unknown workspace", issue("ws-2"), http.StatusUnauthorized},
		{"ok", issue("ws-1"), http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Same(t, ws, seen)
			} else {
				assert.Nil(t, seen)
				assert.JSONEq(t, `{"error":"`+map[string]string{
					"no cookie":         "unauthorized",
					"garbage":           "invalid session",
					"unknown workspace": "session ended",
				}[tc.name]+`"}`, rec.Body.String())
			}
		})
	}
}

func TestCookieAttributes(t *testing.T) {
	c := Cookies{Secret: secret, TTL: 2 * time.Hour, Secure: true}
	rec := httptest.NewRecorder()
	require.NoError(t, c.Set(rec, "ws-1"))
	set := rec.Result().Cookies()[0]
	assert.Equal(t, CookieName, set.Name)
	assert.True(t, set.HttpOnly)
	assert.True(t, set.Secure)
	assert.Equal(t, 7200, set.MaxAge)

	rec = httptest.NewRecorder()
	c.Clear(rec)
	cleared := rec.Result().Cookies()[0]
	assert.Equal(t, -1, cleared.MaxAge)
}
