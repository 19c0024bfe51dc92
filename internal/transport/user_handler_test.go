package transport

import (
	"net/http"
	"testing"
)

func TestUserRoutesAreAdminOnly(t *testing.T) {
	s := newTestServer(t)
	userTok := s.userToken(t)

	if w := s.do("GET", "/api/users", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
	if w := s.do("GET", "/api/users", userTok, nil); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestListAndGetUsers(t *testing.T) {
	s := newTestServer(t)
	s.userToken(t)
	admin := s.adminToken(t)

	w := s.do("GET", "/api/users", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	// Admin accounts are not part of the customer listing
	var users []UserResponse
	decodeBody(t, w, &users)
	if len(users) != 1 || users[0].Email != "user@example.com" {
		t.Fatalf("expected only the customer account, got %+v", users)
	}

	w = s.do("GET", "/api/users/"+users[0].ID, admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var user UserResponse
	decodeBody(t, w, &user)
	if user.ID != users[0].ID || user.Email == "" {
		t.Errorf("unexpected user %+v", user)
	}

	if w := s.do("GET", "/api/users/not-hex", admin, nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}
	if w := s.do("GET", "/api/users/aaaaaaaaaaaaaaaaaaaaaaaa", admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}
