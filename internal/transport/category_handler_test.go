package transport

import (
	"net/http"
	"testing"
)

func TestCategoryRoutesAreGated(t *testing.T) {
	s := newTestServer(t)

	// Public read
	if w := s.do("GET", "/api/categories", "", nil); w.Code != http.StatusOK {
		t.Errorf("expected public listing to return 200, got %d", w.Code)
	}

	// Mutations require a token
	if w := s.do("POST", "/api/categories", "", CategoryRequest{Name: "Processor"}); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	// ... and the admin role
	userToken := s.userToken(t)
	if w := s.do("POST", "/api/categories", userToken, CategoryRequest{Name: "Processor"}); w.Code != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d", w.Code)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do("POST", "/api/categories", admin, CategoryRequest{Name: "Processor"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created CategoryResponse
	decodeBody(t, w, &created)
	if created.Name != "Processor" || created.ID == "" {
		t.Errorf("unexpected response %+v", created)
	}

	// Case-insensitive duplicate
	if w := s.do("POST", "/api/categories", admin, CategoryRequest{Name: "PROCESSOR"}); w.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d", w.Code)
	}

	// Rename
	w = s.do("PUT", "/api/categories/"+created.ID, admin, CategoryRequest{Name: "CPU"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var renamed CategoryResponse
	decodeBody(t, w, &renamed)
	if renamed.Name != "CPU" {
		t.Errorf("expected renamed category, got %+v", renamed)
	}

	// Unknown id and malformed id
	if w := s.do("PUT", "/api/categories/aaaaaaaaaaaaaaaaaaaaaaaa", admin, CategoryRequest{Name: "GPU"}); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
	if w := s.do("DELETE", "/api/categories/not-hex", admin, nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", w.Code)
	}

	// Delete
	if w := s.do("DELETE", "/api/categories/"+created.ID, admin, nil); w.Code != http.StatusOK {
		t.Errorf("expected 200 on delete, got %d", w.Code)
	}
	if w := s.do("DELETE", "/api/categories/"+created.ID, admin, nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", w.Code)
	}
}

func TestDeleteCategoryInUseConflicts(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	w := s.do("POST", "/api/categories", admin, CategoryRequest{Name: "Processor"})
	var category CategoryResponse
	decodeBody(t, w, &category)

	w = s.doMultipart(t, "POST", "/api/components", admin, map[string]string{
		"name":     "Ryzen 5 7600",
		"category": category.ID,
		"brand":    "AMD",
	}, "", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating component, got %d: %s", w.Code, w.Body.String())
	}

	if w := s.do("DELETE", "/api/categories/"+category.ID, admin, nil); w.Code != http.StatusConflict {
		t.Errorf("expected 409 while referenced, got %d", w.Code)
	}
}
