package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"partforge/internal/middleware"
	"partforge/internal/repository"
	"partforge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ComponentHandler handles HTTP requests for components
type ComponentHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewComponentHandler creates a new ComponentHandler
func NewComponentHandler(catalogService service.CatalogService, logger *zap.Logger) *ComponentHandler {
	return &ComponentHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the component routes. Reads are public;
// mutations are admin-only and accept multipart forms with an optional
// image field.
func (h *ComponentHandler) RegisterRoutes(r chi.Router, auth, admin func(http.Handler) http.Handler) {
	r.Route("/api/components", func(r chi.Router) {
		// {category} resolves by id first, then case-insensitive name
		r.Get("/category/{category}", h.ListByCategory)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", h.Add)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// ListByCategory returns a category's components with their price lists
func (h *ComponentHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	details, err := h.catalogService.ListComponentsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to list components", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list components")
		return
	}

	responses := make([]ComponentResponse, 0, len(details))
	for _, detail := range details {
		responses = append(responses, componentDetailResponse(detail))
	}
	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// Get returns a component with its category name and price list
func (h *ComponentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	detail, err := h.catalogService.GetComponent(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrComponentNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "component not found")
			return
		}
		h.logger.Error("Failed to get component", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get component")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, componentDetailResponse(detail))
}

// Add creates a component from a multipart form: name, category (id),
// brand, specs (JSON object) and an optional image file.
func (h *ComponentHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	categoryHex := r.FormValue("category")
	if name == "" || categoryHex == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "name and category are required")
		return
	}

	categoryID, err := primitive.ObjectIDFromHex(categoryHex)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "the specified category does not exist")
		return
	}

	specs, err := parseSpecs(r.FormValue("specs"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "specs must be a JSON object of strings")
		return
	}

	image, err := imageFromForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image upload")
		return
	}

	component, err := h.catalogService.AddComponent(r.Context(), service.ComponentInput{
		Name:       name,
		CategoryID: categoryID,
		Brand:      r.FormValue("brand"),
		Specs:      specs,
		Image:      image,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "the specified category does not exist")
		case errors.Is(err, repository.ErrComponentAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "component already exists in this category")
		case errors.Is(err, service.ErrUnsupportedImageType):
			middleware.RespondWithError(w, http.StatusBadRequest, "unsupported image format: only JPEG and PNG are allowed")
		default:
			h.logger.Error("Failed to add component", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add component")
		}
		return
	}

	h.logger.Info("Component created", zap.String("component_id", component.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusCreated, componentResponse(component))
}

// Update merges the supplied multipart fields into a component. Absent
// fields keep their stored values.
func (h *ComponentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	update := service.ComponentUpdate{
		Name:  formValue(r, "name"),
		Brand: formValue(r, "brand"),
	}

	if categoryHex := formValue(r, "category"); categoryHex != nil {
		categoryID, err := primitive.ObjectIDFromHex(*categoryHex)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "the specified category does not exist")
			return
		}
		update.CategoryID = &categoryID
	}

	if specsJSON := formValue(r, "specs"); specsJSON != nil {
		specs, err := parseSpecs(*specsJSON)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "specs must be a JSON object of strings")
			return
		}
		update.Specs = specs
	}

	image, err := imageFromForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image upload")
		return
	}
	update.Image = image

	component, err := h.catalogService.UpdateComponent(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrComponentNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "component not found")
		case errors.Is(err, repository.ErrCategoryNotFound):
			middleware.RespondWithError(w, http.StatusBadRequest, "the specified category does not exist")
		case errors.Is(err, repository.ErrComponentAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "component already exists in this category")
		case errors.Is(err, service.ErrUnsupportedImageType):
			middleware.RespondWithError(w, http.StatusBadRequest, "unsupported image format: only JPEG and PNG are allowed")
		default:
			h.logger.Error("Failed to update component", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update component")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, componentResponse(component))
}

// Delete removes a component
func (h *ComponentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	if err := h.catalogService.DeleteComponent(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrComponentNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "component not found")
			return
		}
		h.logger.Error("Failed to delete component", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete component")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "component deleted successfully"})
}

// parseSpecs decodes the specs form field; an empty field yields an empty map
func parseSpecs(raw string) (map[string]string, error) {
	specs := map[string]string{}
	if raw == "" {
		return specs, nil
	}
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, err
	}
	return specs, nil
}
