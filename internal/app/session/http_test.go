package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/auth"
	"github.com/Navin-04/Katomaran-To-Do-App/internal/platform/kvstore"
)

func newHandlerForTests() *Handler {
	tokens := auth.NewManager("test-secret", time.Hour)
	tokens.Now = func() time.Time { return testNow }
	svc := NewService(kvstore.NewMemory(), tokens)
	svc.Now = func() time.Time { return testNow }
	return NewHandler(svc, tokens)
}

func doRequest(t *testing.T, h *Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestSignInEndpoint(t *testing.T) {
	h := newHandlerForTests()

	rec := doRequest(t, h, http.MethodPost, "/signin", "", `{"email":"alice@example.com","password":"hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	if resp.User.Email != "alice@example.com" {
		t.Fatalf("email = %q", resp.User.Email)
	}
}

func TestSignInEndpointRejectsEmptyPassword(t *testing.T) {
	h := newHandlerForTests()

	rec := doRequest(t, h, http.MethodPost, "/signin", "", `{"email":"alice@example.com","password":""}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	h := newHandlerForTests()

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/signout"},
		{http.MethodGet, "/me"},
		{http.MethodPatch, "/profile"},
		{http.MethodPut, "/password"},
	} {
		rec := doRequest(t, h, tc.method, tc.path, "", "{}")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status = %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestMeAndSignOutEndpoints(t *testing.T) {
	h := newHandlerForTests()

	rec := doRequest(t, h, http.MethodPost, "/signup", "", `{"email":"bob@example.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d", rec.Code)
	}
	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doRequest(t, h, http.MethodGet, "/me", resp.Token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPost, "/signout", resp.Token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("signout status = %d", rec.Code)
	}

	// The token is still valid but the session is gone.
	rec = doRequest(t, h, http.MethodGet, "/me", resp.Token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after signout status = %d, want 401", rec.Code)
	}
}

func TestUpdatePasswordEndpoint(t *testing.T) {
	h := newHandlerForTests()

	rec := doRequest(t, h, http.MethodPost, "/signin", "", `{"email":"alice@example.com","password":"hunter2"}`)
	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = doRequest(t, h, http.MethodPut, "/password", resp.Token, `{"current_password":"","new_password":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty current status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/password", resp.Token, `{"current_password":"wrong","new_password":"x"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong current status = %d, want 401", rec.Code)
	}

	rec = doRequest(t, h, http.MethodPut, "/password", resp.Token, `{"current_password":"hunter2","new_password":"rotated"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("rotate status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
