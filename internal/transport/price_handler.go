package transport

import (
	"errors"
	"fmt"
	"net/http"

	"partforge/internal/middleware"
	"partforge/internal/repository"
	"partforge/internal/service"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PriceRequest is the request body for creating or updating a price
type PriceRequest struct {
	PartnerID   string  `json:"partner_id" validate:"required"`
	ComponentID string  `json:"component_id" validate:"required"`
	Amount      float64 `json:"amount" validate:"min=0"`
}

// DeletePriceRequest is the request body for removing a price
type DeletePriceRequest struct {
	PartnerID   string `json:"partner_id" validate:"required"`
	ComponentID string `json:"component_id" validate:"required"`
}

// CalculateCostRequest is the request body for a total cost calculation
type CalculateCostRequest struct {
	ComponentIDs []string `json:"component_ids" validate:"required,min=1"`
}

// CalculateCostResponse carries the summed minimum prices of a build
type CalculateCostResponse struct {
	TotalCost float64 `json:"total_cost"`
}

// PriceResponse is a single partner price for a component
type PriceResponse struct {
	PartnerID   string  `json:"partner_id"`
	ComponentID string  `json:"component_id"`
	Amount      float64 `json:"amount"`
}

// PriceHandler handles HTTP requests for prices
type PriceHandler struct {
	pricingService service.PricingService
	logger         *zap.Logger
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(pricingService service.PricingService, logger *zap.Logger) *PriceHandler {
	return &PriceHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the price routes
func (h *PriceHandler) RegisterRoutes(r chi.Router, auth, admin func(http.Handler) http.Handler) {
	r.Route("/api/prices", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Get("/component/{id}", h.ListForComponent)
		r.Post("/calculate-cost", h.CalculateCost)

		r.Group(func(r chi.Router) {
			r.Use(auth, admin)
			r.Post("/", h.Add)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// ListAll returns every component together with its price list and minimum price
func (h *PriceHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	pricings, err := h.pricingService.ListAllComponentPrices(r.Context())
	if err != nil {
		h.logger.Error("Failed to list prices", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list prices")
		return
	}

	responses := make([]ComponentResponse, 0, len(pricings))
	for _, pricing := range pricings {
		responses = append(responses, componentPricingResponse(pricing))
	}
	middleware.RespondWithJSON(w, http.StatusOK, responses)
}

// ListForComponent returns the partner prices of one component
func (h *PriceHandler) ListForComponent(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	prices, err := h.pricingService.ListPricesForComponent(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrComponentNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "component not found")
			return
		}
		h.logger.Error("Failed to list component prices", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list component prices")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, prices)
}

// CalculateCost sums the minimum partner price of each requested component
func (h *PriceHandler) CalculateCost(w http.ResponseWriter, r *http.Request) {
	var req CalculateCostRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	componentIDs, err := parseObjectIDs(req.ComponentIDs)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "component_ids must be valid component ids")
		return
	}

	total, err := h.pricingService.CalculateTotalCost(r.Context(), componentIDs)
	if err != nil {
		var noPrice *service.NoPriceError
		switch {
		case errors.Is(err, repository.ErrComponentNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "component not found")
		case errors.As(err, &noPrice):
			middleware.RespondWithError(w, http.StatusNotFound,
				fmt.Sprintf("no price found for component %q", noPrice.ComponentName))
		default:
			h.logger.Error("Failed to calculate total cost", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to calculate total cost")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CalculateCostResponse{TotalCost: total})
}

// Add records a partner's price for a component
func (h *PriceHandler) Add(w http.ResponseWriter, r *http.Request) {
	partnerID, componentID, req, ok := h.decodePriceRequest(w, r)
	if !ok {
		return
	}

	price, err := h.pricingService.AddPrice(r.Context(), partnerID, componentID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNegativePrice):
			middleware.RespondWithError(w, http.StatusBadRequest, "price amount must not be negative")
		case errors.Is(err, repository.ErrPartnerNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "partner not found")
		case errors.Is(err, repository.ErrComponentNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "component not found")
		case errors.Is(err, repository.ErrPriceAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "price already exists for this partner and component")
		default:
			h.logger.Error("Failed to add price", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add price")
		}
		return
	}

	h.logger.Info("Price created",
		zap.String("partner_id", partnerID.Hex()),
		zap.String("component_id", componentID.Hex()))
	middleware.RespondWithJSON(w, http.StatusCreated, priceResponse(price))
}

// Update replaces a partner's price for a component
func (h *PriceHandler) Update(w http.ResponseWriter, r *http.Request) {
	partnerID, componentID, req, ok := h.decodePriceRequest(w, r)
	if !ok {
		return
	}

	price, err := h.pricingService.UpdatePrice(r.Context(), partnerID, componentID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNegativePrice):
			middleware.RespondWithError(w, http.StatusBadRequest, "price amount must not be negative")
		case errors.Is(err, repository.ErrPriceNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "price not found")
		default:
			h.logger.Error("Failed to update price", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update price")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, priceResponse(price))
}

// Delete removes a partner's price for a component
func (h *PriceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req DeletePriceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	partnerID, err := primitive.ObjectIDFromHex(req.PartnerID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid partner id")
		return
	}
	componentID, err := primitive.ObjectIDFromHex(req.ComponentID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid component id")
		return
	}

	if err := h.pricingService.DeletePrice(r.Context(), partnerID, componentID); err != nil {
		if errors.Is(err, repository.ErrPriceNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "price not found")
			return
		}
		h.logger.Error("Failed to delete price", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete price")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "price deleted successfully"})
}

func (h *PriceHandler) decodePriceRequest(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, primitive.ObjectID, PriceRequest, bool) {
	var req PriceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return primitive.NilObjectID, primitive.NilObjectID, req, false
	}

	partnerID, err := primitive.ObjectIDFromHex(req.PartnerID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid partner id")
		return primitive.NilObjectID, primitive.NilObjectID, req, false
	}
	componentID, err := primitive.ObjectIDFromHex(req.ComponentID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid component id")
		return primitive.NilObjectID, primitive.NilObjectID, req, false
	}
	return partnerID, componentID, req, true
}
