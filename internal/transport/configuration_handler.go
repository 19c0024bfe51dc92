package transport

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"partforge/internal/middleware"
	"partforge/internal/repository"
	"partforge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateConfigurationRequest is the request body for saving a build.
// An empty component list is allowed; an absent one is not.
type CreateConfigurationRequest struct {
	Email        string   `json:"email" validate:"required,email"`
	Name         string   `json:"name" validate:"required"`
	ComponentIDs []string `json:"component_ids" validate:"required"`
}

// UpdateConfigurationRequest carries partial fields for updating a build
type UpdateConfigurationRequest struct {
	Name         *string   `json:"name,omitempty"`
	ComponentIDs *[]string `json:"component_ids,omitempty"`
}

// ConfigurationHandler handles HTTP requests for saved build configurations
type ConfigurationHandler struct {
	configurationService service.ConfigurationService
	logger               *zap.Logger
}

// NewConfigurationHandler creates a new ConfigurationHandler
func NewConfigurationHandler(configurationService service.ConfigurationService, logger *zap.Logger) *ConfigurationHandler {
	return &ConfigurationHandler{
		configurationService: configurationService,
		logger:               logger,
	}
}

// RegisterRoutes registers the configuration routes. Everything requires
// authentication; the full listing with user details is admin-only.
func (h *ConfigurationHandler) RegisterRoutes(r chi.Router, auth, admin func(http.Handler) http.Handler) {
	r.Route("/api/configurations", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.Create)
		r.Get("/user/{email}", h.ListByUser)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/export-pdf", h.ExportPDF)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Get("/", h.ListAll)
		})
	})
}

// Create saves a new build configuration for the given user
func (h *ConfigurationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConfigurationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	componentIDs, err := parseObjectIDs(req.ComponentIDs)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "component_ids must be valid component ids")
		return
	}

	configuration, err := h.configurationService.Create(r.Context(), req.Email, req.Name, componentIDs)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to create configuration", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create configuration")
		return
	}

	h.logger.Info("Configuration created",
		zap.String("configuration_id", configuration.ID.Hex()),
		zap.String("email", req.Email))
	middleware.RespondWithJSON(w, http.StatusCreated, configurationResponse(configuration))
}

// ListByUser returns a user's configurations with components expanded
func (h *ConfigurationHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	details, err := h.configurationService.ListByUserEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("Failed to list configurations", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list configurations")
		return
	}

	responses := make([]ConfigurationResponse, 0, len(details))
	for _, detail := range details {
		responses = append(responses, configurationDetailResponse(detail))
	}
	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// Get returns a configuration with its components expanded
func (h *ConfigurationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid configuration id")
		return
	}

	detail, err := h.configurationService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "configuration not found")
			return
		}
		h.logger.Error("Failed to get configuration", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get configuration")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, configurationDetailResponse(detail))
}

// Update merges the supplied fields into a configuration
func (h *ConfigurationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid configuration id")
		return
	}

	var req UpdateConfigurationRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	update := service.ConfigurationUpdate{Name: req.Name}
	if req.ComponentIDs != nil {
		componentIDs, err := parseObjectIDs(*req.ComponentIDs)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "component_ids must be valid component ids")
			return
		}
		update.ComponentIDs = &componentIDs
	}

	detail, err := h.configurationService.Update(r.Context(), id, update)
	if err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "configuration not found")
			return
		}
		h.logger.Error("Failed to update configuration", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update configuration")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, configurationDetailResponse(detail))
}

// Delete removes a configuration
func (h *ConfigurationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid configuration id")
		return
	}

	if err := h.configurationService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "configuration not found")
			return
		}
		h.logger.Error("Failed to delete configuration", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete configuration")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "configuration deleted successfully"})
}

// ExportPDF streams a configuration as a PDF attachment. The document is
// rendered into memory first so a render failure can still produce a JSON
// error response.
func (h *ConfigurationHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid configuration id")
		return
	}

	var buf bytes.Buffer
	filename, err := h.configurationService.ExportPDF(r.Context(), id, &buf)
	if err != nil {
		if errors.Is(err, repository.ErrConfigurationNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "configuration not found")
			return
		}
		h.logger.Error("Failed to export configuration", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to export configuration")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("Failed to stream PDF", zap.Error(err))
	}
}

// ListAll returns every configuration joined with its owner's email
func (h *ConfigurationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	rows, err := h.configurationService.ListAllWithUserDetails(r.Context())
	if err != nil {
		h.logger.Error("Failed to list configurations", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list configurations")
		return
	}

	responses := make([]ConfigurationResponse, 0, len(rows))
	for _, row := range rows {
		resp := configurationResponse(row.Configuration)
		resp.UserEmail = row.UserEmail
		resp.ComponentIDs = hexIDs(row.Configuration.ComponentIDs)
		responses = append(responses, resp)
	}
	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
