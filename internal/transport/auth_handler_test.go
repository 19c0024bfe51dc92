package transport

import (
	"net/http"
	"testing"
)

func TestRegisterAndLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/api/auth/register", "", RegisterRequest{
		Email:    "builder@example.com",
		Password: "correct horse battery",
		Name:     "Builder",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var registered UserResponse
	decodeBody(t, w, &registered)
	if registered.Email != "builder@example.com" || registered.Role != "user" {
		t.Errorf("unexpected registered user %+v", registered)
	}

	// Same email, different case
	w = s.do("POST", "/api/auth/register", "", RegisterRequest{
		Email:    "Builder@Example.com",
		Password: "another password",
		Name:     "Impostor",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", w.Code)
	}

	w = s.do("POST", "/api/auth/login", "", LoginRequest{
		Email:    "BUILDER@example.com",
		Password: "correct horse battery",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	decodeBody(t, w, &login)
	if login.AccessToken == "" || login.RefreshToken == "" {
		t.Error("expected both tokens in login response")
	}
	if login.User.Email != "builder@example.com" {
		t.Errorf("unexpected user in login response %+v", login.User)
	}

	w = s.do("POST", "/api/auth/refresh", "", RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on refresh, got %d: %s", w.Code, w.Body.String())
	}
	var refreshed RefreshResponse
	decodeBody(t, w, &refreshed)
	if refreshed.AccessToken == "" {
		t.Error("expected a fresh access token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	s.do("POST", "/api/auth/register", "", RegisterRequest{
		Email:    "builder@example.com",
		Password: "correct horse battery",
		Name:     "Builder",
	})

	w := s.do("POST", "/api/auth/login", "", LoginRequest{
		Email:    "builder@example.com",
		Password: "wrong password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for wrong password, got %d", w.Code)
	}

	w = s.do("POST", "/api/auth/login", "", LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse battery",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown email, got %d", w.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "long enough pass", Name: "B"}},
		{"bad email", RegisterRequest{Email: "not-an-email", Password: "long enough pass", Name: "B"}},
		{"short password", RegisterRequest{Email: "b@example.com", Password: "short", Name: "B"}},
		{"missing name", RegisterRequest{Email: "b@example.com", Password: "long enough pass"}},
	}
	for _, tc := range cases {
		if w := s.do("POST", "/api/auth/register", "", tc.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, w.Code)
		}
	}
}

func TestLogoutRequiresAuthAndRevokesRefreshToken(t *testing.T) {
	s := newTestServer(t)

	s.do("POST", "/api/auth/register", "", RegisterRequest{
		Email:    "builder@example.com",
		Password: "correct horse battery",
		Name:     "Builder",
	})
	w := s.do("POST", "/api/auth/login", "", LoginRequest{
		Email:    "builder@example.com",
		Password: "correct horse battery",
	})
	var login LoginResponse
	decodeBody(t, w, &login)

	if w := s.do("POST", "/api/auth/logout", "", RefreshRequest{RefreshToken: login.RefreshToken}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	w = s.do("POST", "/api/auth/logout", login.AccessToken, RefreshRequest{RefreshToken: login.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d: %s", w.Code, w.Body.String())
	}

	// The refresh token no longer works
	if w := s.do("POST", "/api/auth/refresh", "", RefreshRequest{RefreshToken: login.RefreshToken}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 refreshing a revoked token, got %d", w.Code)
	}
}
