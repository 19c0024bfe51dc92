package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"partforge/internal/config"
	"partforge/internal/domain"
	"partforge/internal/middleware"
	"partforge/internal/pdf"
	"partforge/internal/repository"
	"partforge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testJWTSecret = "handler-test-secret"

// testServer wires every handler over in-memory repositories, mirroring the
// route setup of the real server.
type testServer struct {
	router chi.Router

	userRepo          *mockUserRepository
	refreshTokenRepo  *mockRefreshTokenRepository
	categoryRepo      *mockCategoryRepository
	componentRepo     *mockComponentRepository
	partnerRepo       *mockPartnerRepository
	priceRepo         *mockPriceRepository
	configurationRepo *mockConfigurationRepository

	userService          service.UserService
	catalogService       service.CatalogService
	pricingService       service.PricingService
	configurationService service.ConfigurationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()

	s := &testServer{
		userRepo:          newMockUserRepository(),
		refreshTokenRepo:  newMockRefreshTokenRepository(),
		categoryRepo:      newMockCategoryRepository(),
		componentRepo:     newMockComponentRepository(),
		partnerRepo:       newMockPartnerRepository(),
		priceRepo:         newMockPriceRepository(),
		configurationRepo: newMockConfigurationRepository(),
	}

	jwtCfg := config.JWTConfig{Secret: testJWTSecret, AccessExpiry: 60, RefreshExpiry: 7}
	s.userService = service.NewUserService(s.userRepo, s.refreshTokenRepo, jwtCfg)
	s.catalogService = service.NewCatalogService(s.categoryRepo, s.componentRepo, s.priceRepo, s.partnerRepo)
	s.pricingService = service.NewPricingService(s.partnerRepo, s.priceRepo, s.componentRepo, s.categoryRepo)
	s.configurationService = service.NewConfigurationService(s.configurationRepo, s.userRepo, s.componentRepo, pdf.NewRenderer())

	auth := middleware.AuthMiddleware(testJWTSecret, logger)
	admin := middleware.RequireAdmin(logger)
	// The rate limiter has its own tests; handler tests bypass it
	passthrough := func(next http.Handler) http.Handler { return next }

	router := chi.NewRouter()
	NewAuthHandler(s.userService, logger).RegisterRoutes(router, auth, passthrough)
	NewCategoryHandler(s.catalogService, logger).RegisterRoutes(router, auth, admin)
	NewComponentHandler(s.catalogService, logger).RegisterRoutes(router, auth, admin)
	NewPartnerHandler(s.pricingService, logger).RegisterRoutes(router, auth, admin)
	NewPriceHandler(s.pricingService, logger).RegisterRoutes(router, auth, admin)
	NewConfigurationHandler(s.configurationService, logger).RegisterRoutes(router, auth, admin)
	NewUserHandler(s.userService, logger).RegisterRoutes(router, auth, admin)

	s.router = router
	return s
}

// token registers a throwaway account with the given role and returns a
// valid access token for it.
func (s *testServer) token(t *testing.T, email, role string) string {
	t.Helper()
	ctx := context.Background()

	user, err := s.userService.Register(ctx, email, "handler-test-password", "Test User")
	if errors.Is(err, repository.ErrUserAlreadyExists) {
		user, err = s.userRepo.FindByEmail(ctx, domain.NormalizeKey(email))
	}
	if err != nil {
		t.Fatalf("failed to register %s: %v", email, err)
	}
	user.Role = role

	accessToken, _, _, err := s.userService.Login(ctx, email, "handler-test-password")
	if err != nil {
		t.Fatalf("failed to log in %s: %v", email, err)
	}
	return accessToken
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.token(t, "admin@example.com", domain.RoleAdmin)
}

func (s *testServer) userToken(t *testing.T) string {
	return s.token(t, "user@example.com", domain.RoleUser)
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// doMultipart sends a multipart form with string fields and an optional file
// part named "image".
func (s *testServer) doMultipart(t *testing.T, method, path, token string, fields map[string]string, imageName, imageType string, imageData []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write form field %s: %v", key, err)
		}
	}
	if imageName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+imageName+`"`)
		header.Set("Content-Type", imageType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create image part: %v", err)
		}
		if _, err := part.Write(imageData); err != nil {
			t.Fatalf("failed to write image data: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("response body is not valid JSON: %v\n%s", err, w.Body.String())
	}
}
