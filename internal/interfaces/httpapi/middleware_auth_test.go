package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draft-league/draftroom/internal/domain/user"
	"github.com/draft-league/draftroom/internal/usecase"
)

type stubVerifier struct {
	token     string
	principal user.Principal
}

func (v stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != v.token {
		return user.Principal{}, fmt.Errorf("%w: token rejected", usecase.ErrUnauthorized)
	}
	return v.principal, nil
}

func TestRequireAuth_AttachesPrincipal(t *testing.T) {
	verifier := stubVerifier{token: "valid-token", principal: user.Principal{UserID: "user-1"}}

	var got user.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/roster/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got.UserID != "user-1" {
		t.Fatalf("expected principal user-1, got %+v", got)
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	verifier := stubVerifier{token: "valid-token"}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run without credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/roster/me", nil)
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	verifier := stubVerifier{token: "valid-token"}
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run without credentials")
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/roster/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	RequireAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestOptionalAuth_ValidToken(t *testing.T) {
	verifier := stubVerifier{token: "valid-token", principal: user.Principal{UserID: "user-1"}}

	var got user.Principal
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	OptionalAuth(verifier, next).ServeHTTP(rec, req)

	if !ok || got.UserID != "user-1" {
		t.Fatalf("expected principal user-1, got ok=%v %+v", ok, got)
	}
}

func TestOptionalAuth_AnonymousOnBadToken(t *testing.T) {
	verifier := stubVerifier{token: "valid-token"}

	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rec := httptest.NewRecorder()

	OptionalAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ok {
		t.Fatalf("expected anonymous request, principal was attached")
	}
}

func TestOptionalAuth_NoHeader(t *testing.T) {
	verifier := stubVerifier{token: "valid-token"}

	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = principalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/feed", nil)
	rec := httptest.NewRecorder()

	OptionalAuth(verifier, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ok {
		t.Fatalf("expected anonymous request, principal was attached")
	}
}
