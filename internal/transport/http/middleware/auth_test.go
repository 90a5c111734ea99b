package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviewhub/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", OrgID: "org-1", RoleName: auth.RoleHR}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	called := false
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		user, ok := GetUser(r.Context())
		if !ok {
			t.Fatal("expected user in context")
		}
		if user.UserID != "u1" || user.OrgID != "org-1" || user.RoleName != auth.RoleHR {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("handler not called")
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("did not expect user in context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	handler := Auth("secret")(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
