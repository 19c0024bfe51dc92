package transport

import (
	"errors"
	"net/http"

	"partforge/internal/middleware"
	"partforge/internal/repository"
	"partforge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PartnerHandler handles HTTP requests for merchant partners
type PartnerHandler struct {
	pricingService service.PricingService
	logger         *zap.Logger
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(pricingService service.PricingService, logger *zap.Logger) *PartnerHandler {
	return &PartnerHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the partner routes
func (h *PartnerHandler) RegisterRoutes(r chi.Router, auth, admin func(http.Handler) http.Handler) {
	r.Route("/api/partners", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", h.Add)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns all partners
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	partners, err := h.pricingService.ListPartners(r.Context())
	if err != nil {
		h.logger.Error("Failed to list partners", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list partners")
		return
	}

	responses := make([]PartnerResponse, 0, len(partners))
	for _, partner := range partners {
		responses = append(responses, partnerResponse(partner))
	}
	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// Get returns a single partner
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid partner id")
		return
	}

	partner, err := h.pricingService.GetPartner(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPartnerNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "partner not found")
			return
		}
		h.logger.Error("Failed to get partner", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get partner")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, partnerResponse(partner))
}

// Add creates a partner from a multipart form with an optional logo image
func (h *PartnerHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}

	image, err := imageFromForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image upload")
		return
	}

	// Partners are active unless the form says otherwise
	isActive := true
	if active := formValue(r, "is_active"); active != nil {
		isActive = *active == "true"
	}

	partner, err := h.pricingService.AddPartner(r.Context(), service.PartnerInput{
		Name:        name,
		Website:     r.FormValue("website"),
		Description: r.FormValue("description"),
		IsActive:    isActive,
		Image:       image,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPartnerAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "partner already exists")
		case errors.Is(err, service.ErrUnsupportedImageType):
			middleware.RespondWithError(w, http.StatusBadRequest, "unsupported image format: only JPEG and PNG are allowed")
		default:
			h.logger.Error("Failed to add partner", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add partner")
		}
		return
	}

	h.logger.Info("Partner created", zap.String("partner_id", partner.ID.Hex()))
	middleware.RespondWithJSON(w, http.StatusCreated, partnerResponse(partner))
}

// Update merges the supplied multipart fields into a partner
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid partner id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	update := service.PartnerUpdate{
		Name:        formValue(r, "name"),
		Website:     formValue(r, "website"),
		Description: formValue(r, "description"),
	}

	if active := formValue(r, "is_active"); active != nil {
		isActive := *active == "true"
		update.IsActive = &isActive
	}

	image, err := imageFromForm(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image upload")
		return
	}
	update.Image = image

	partner, err := h.pricingService.UpdatePartner(r.Context(), id, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPartnerNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "partner not found")
		case errors.Is(err, repository.ErrPartnerAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "partner already exists")
		case errors.Is(err, service.ErrUnsupportedImageType):
			middleware.RespondWithError(w, http.StatusBadRequest, "unsupported image format: only JPEG and PNG are allowed")
		default:
			h.logger.Error("Failed to update partner", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update partner")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, partnerResponse(partner))
}

// Delete removes a partner
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid partner id")
		return
	}

	if err := h.pricingService.DeletePartner(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrPartnerNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "partner not found")
			return
		}
		h.logger.Error("Failed to delete partner", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete partner")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "partner deleted successfully"})
}
