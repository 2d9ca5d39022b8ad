package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"review360/internal/domain/auth"
)

func TestAuthMiddlewareSetsUser(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: "u1", OrganizationID: "acme", RoleName: auth.RoleAdmin}, time.Hour)
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
		if user.UserID != "u1" || user.OrganizationID != "acme" || user.RoleName != auth.RoleAdmin {
			t.Fatalf("unexpected user: %+v", user)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := Auth("secret")(RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("did not expect anonymous request to reach handler")
	})))

	for _, header := range []string{"", "Basic abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}

type failingPerms struct{}

func (failingPerms) HasPermission(context.Context, string, string) (bool, error) {
	return false, errors.New("db down")
}

func TestRequirePermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	cases := []struct {
		name   string
		role   string
		perms  PermissionStore
		status int
	}{
		{"admin", auth.RoleAdmin, auth.DefaultPolicy(), http.StatusNoContent},
		{"member", auth.RoleMember, auth.DefaultPolicy(), http.StatusForbidden},
		{"store error", auth.RoleAdmin, failingPerms{}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", OrganizationID: "acme", RoleName: tc.role}))
		rec := httptest.NewRecorder()
		RequirePermission(auth.PermCompensationRead, tc.perms)(ok).ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected generated id echoed, got %q / %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Fatalf("expected caller id kept, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", maxRequestIDLen+1))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) > maxRequestIDLen {
		t.Fatalf("expected oversized id replaced, got %d chars", len(seen))
	}
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 2048)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
}

type recorded struct {
	route  string
	status int
}

type fakeRecorder struct{ got []recorded }

func (f *fakeRecorder) Record(route, _ string, status int, _ time.Duration) {
	f.got = append(f.got, recorded{route, status})
}

func TestLoggerRecordsStatus(t *testing.T) {
	rec := &fakeRecorder{}
	handler := Logger(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	if len(rec.got) != 1 || rec.got[0].status != http.StatusTeapot {
		t.Fatalf("expected one 418 observation, got %+v", rec.got)
	}
}

func TestRequirePermissionNamesMissingPermission(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u1", OrganizationID: "acme", RoleName: auth.RoleMember}))
	rec := httptest.NewRecorder()
	RequirePermission(auth.PermCompensationRead, auth.DefaultPolicy())(ok).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), auth.PermCompensationRead) {
		t.Fatalf("expected permission in body, got %s", rec.Body.String())
	}
}

func TestSecureHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	for _, prod := range []bool{false, true} {
		rec := httptest.NewRecorder()
		SecureHeaders(prod)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("Cache-Control") != "no-store" {
			t.Fatalf("missing headers: %v", rec.Header())
		}
		if got := rec.Header().Get("Strict-Transport-Security") != ""; got != prod {
			t.Fatalf("prod=%v: unexpected HSTS presence %v", prod, got)
		}
	}
}

func TestUsableRequestID(t *testing.T) {
	cases := map[string]bool{
		"abc-123":                            true,
		"":                                   false,
		"has space":                          false,
		"line\nbreak":                        false,
		strings.Repeat("x", maxRequestIDLen): true,
	}
	for id, want := range cases {
		if got := usableRequestID(id); got != want {
			t.Fatalf("%q: expected %v, got %v", id, want, got)
		}
	}
}
