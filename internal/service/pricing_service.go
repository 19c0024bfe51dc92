package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partforge/internal/domain"
	"partforge/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNegativePrice rejects price amounts below zero
var ErrNegativePrice = errors.New("price must not be negative")

// NoPriceError reports a component no partner offers a price for.
// It carries the component name so callers can surface it.
type NoPriceError struct {
	ComponentName string
}

func (e *NoPriceError) Error() string {
	return fmt.Sprintf("no price found for component %q", e.ComponentName)
}

// PartnerPrice is one partner's offer for a component
type PartnerPrice struct {
	PartnerName string  `json:"partner_name"`
	Amount      float64 `json:"amount"`
}

// PartnerInput carries the fields for creating a partner
type PartnerInput struct {
	Name        string
	Website     string
	Description string
	IsActive    bool
	Image       *domain.Image
}

// PartnerUpdate carries partial fields for updating a partner
type PartnerUpdate struct {
	Name        *string
	Website     *string
	Description *string
	IsActive    *bool
	Image       *domain.Image
}

// ComponentPricing is a component joined with its category name and every
// partner price, used by the full price listing.
type ComponentPricing struct {
	Component    *domain.Component
	CategoryName string
	Prices       []PartnerPrice
	MinAmount    *float64
}

// PricingService defines the interface for partner and price business logic
type PricingService interface {
	ListPartners(ctx context.Context) ([]*domain.Partner, error)
	GetPartner(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error)
	AddPartner(ctx context.Context, input PartnerInput) (*domain.Partner, error)
	UpdatePartner(ctx context.Context, id primitive.ObjectID, update PartnerUpdate) (*domain.Partner, error)
	DeletePartner(ctx context.Context, id primitive.ObjectID) error
	AddPrice(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) (*domain.Price, error)
	UpdatePrice(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) (*domain.Price, error)
	DeletePrice(ctx context.Context, partnerID, componentID primitive.ObjectID) error
	ListPricesForComponent(ctx context.Context, componentID primitive.ObjectID) ([]PartnerPrice, error)
	ListAllComponentPrices(ctx context.Context) ([]*ComponentPricing, error)
	CalculateTotalCost(ctx context.Context, componentIDs []primitive.ObjectID) (float64, error)
}

type pricingService struct {
	partnerRepo   repository.PartnerRepository
	priceRepo     repository.PriceRepository
	componentRepo repository.ComponentRepository
	categoryRepo  repository.CategoryRepository
}

// NewPricingService creates a new instance of PricingService
func NewPricingService(
	partnerRepo repository.PartnerRepository,
	priceRepo repository.PriceRepository,
	componentRepo repository.ComponentRepository,
	categoryRepo repository.CategoryRepository,
) PricingService {
	return &pricingService{
		partnerRepo:   partnerRepo,
		priceRepo:     priceRepo,
		componentRepo: componentRepo,
		categoryRepo:  categoryRepo,
	}
}

// ListPartners retrieves all partners
func (s *pricingService) ListPartners(ctx context.Context) ([]*domain.Partner, error) {
	return s.partnerRepo.List(ctx)
}

// GetPartner retrieves a partner by id
func (s *pricingService) GetPartner(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error) {
	return s.partnerRepo.FindByID(ctx, id)
}

// AddPartner creates a partner after validating the optional image
func (s *pricingService) AddPartner(ctx context.Context, input PartnerInput) (*domain.Partner, error) {
	if input.Image != nil && !domain.IsAllowedImageType(input.Image.ContentType) {
		return nil, ErrUnsupportedImageType
	}

	now := time.Now()
	partner := &domain.Partner{
		Name:           input.Name,
		NameNormalized: domain.NormalizeKey(input.Name),
		Website:        input.Website,
		Description:    input.Description,
		IsActive:       input.IsActive,
		Image:          input.Image,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// UpdatePartner merges partial fields; a rename that collides with another
// partner is rejected by the unique name index.
func (s *pricingService) UpdatePartner(ctx context.Context, id primitive.ObjectID, update PartnerUpdate) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		partner.Name = *update.Name
		partner.NameNormalized = domain.NormalizeKey(*update.Name)
	}
	if update.Website != nil {
		partner.Website = *update.Website
	}
	if update.Description != nil {
		partner.Description = *update.Description
	}
	if update.IsActive != nil {
		partner.IsActive = *update.IsActive
	}
	if update.Image != nil {
		if !domain.IsAllowedImageType(update.Image.ContentType) {
			return nil, ErrUnsupportedImageType
		}
		partner.Image = update.Image
	}
	partner.UpdatedAt = time.Now()

	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// DeletePartner removes a partner by id
func (s *pricingService) DeletePartner(ctx context.Context, id primitive.ObjectID) error {
	return s.partnerRepo.Delete(ctx, id)
}

// AddPrice creates a price row after checking that both ends of the
// (partner, component) pair exist.
func (s *pricingService) AddPrice(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) (*domain.Price, error) {
	if amount < 0 {
		return nil, ErrNegativePrice
	}
	if _, err := s.partnerRepo.FindByID(ctx, partnerID); err != nil {
		return nil, err
	}
	if _, err := s.componentRepo.FindByID(ctx, componentID); err != nil {
		return nil, err
	}

	now := time.Now()
	price := &domain.Price{
		PartnerID:   partnerID,
		ComponentID: componentID,
		Amount:      amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.priceRepo.Create(ctx, price); err != nil {
		return nil, err
	}
	return price, nil
}

// UpdatePrice overwrites the amount of an existing (partner, component) pair
func (s *pricingService) UpdatePrice(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) (*domain.Price, error) {
	if amount < 0 {
		return nil, ErrNegativePrice
	}
	if err := s.priceRepo.UpdateAmount(ctx, partnerID, componentID, amount); err != nil {
		return nil, err
	}
	return s.priceRepo.FindByPair(ctx, partnerID, componentID)
}

// DeletePrice removes the price row for a (partner, component) pair
func (s *pricingService) DeletePrice(ctx context.Context, partnerID, componentID primitive.ObjectID) error {
	return s.priceRepo.DeleteByPair(ctx, partnerID, componentID)
}

// ListPricesForComponent retrieves the partner-joined price list for a
// component. The component must exist; dangling partner refs are skipped.
func (s *pricingService) ListPricesForComponent(ctx context.Context, componentID primitive.ObjectID) ([]PartnerPrice, error) {
	if _, err := s.componentRepo.FindByID(ctx, componentID); err != nil {
		return nil, err
	}

	prices, _, err := joinPartnerPrices(ctx, s.priceRepo, s.partnerRepo, componentID)
	return prices, err
}

// ListAllComponentPrices joins every component with its category name and
// all partner prices. Quadratic in catalog size, which is acceptable here.
func (s *pricingService) ListAllComponentPrices(ctx context.Context) ([]*ComponentPricing, error) {
	components, err := s.componentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categoryNames := make(map[primitive.ObjectID]string, len(categories))
	for _, category := range categories {
		categoryNames[category.ID] = category.Name
	}

	result := make([]*ComponentPricing, 0, len(components))
	for _, component := range components {
		prices, minAmount, err := joinPartnerPrices(ctx, s.priceRepo, s.partnerRepo, component.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &ComponentPricing{
			Component:    component,
			CategoryName: categoryNames[component.CategoryID],
			Prices:       prices,
			MinAmount:    minAmount,
		})
	}
	return result, nil
}

// CalculateTotalCost sums the minimum partner price of each requested
// component: total = Σ over components c of min over prices p of c of
// p.amount. It short-circuits on the first component that is missing or has
// no price at all.
func (s *pricingService) CalculateTotalCost(ctx context.Context, componentIDs []primitive.ObjectID) (float64, error) {
	var total float64

	for _, componentID := range componentIDs {
		component, err := s.componentRepo.FindByID(ctx, componentID)
		if err != nil {
			return 0, err
		}

		prices, err := s.priceRepo.ListByComponent(ctx, componentID)
		if err != nil {
			return 0, err
		}
		if len(prices) == 0 {
			return 0, &NoPriceError{ComponentName: component.Name}
		}

		// Ties are broken by store order; only the amount feeds the sum.
		min := prices[0].Amount
		for _, price := range prices[1:] {
			if price.Amount < min {
				min = price.Amount
			}
		}
		total += min
	}

	return total, nil
}

// joinPartnerPrices resolves the partner name for every price row of a
// component, skipping rows whose partner no longer exists, and reports the
// minimum amount across the surviving rows.
func joinPartnerPrices(
	ctx context.Context,
	priceRepo repository.PriceRepository,
	partnerRepo repository.PartnerRepository,
	componentID primitive.ObjectID,
) ([]PartnerPrice, *float64, error) {
	prices, err := priceRepo.ListByComponent(ctx, componentID)
	if err != nil {
		return nil, nil, err
	}

	partnerIDs := make([]primitive.ObjectID, 0, len(prices))
	for _, price := range prices {
		partnerIDs = append(partnerIDs, price.PartnerID)
	}
	partners, err := partnerRepo.FindByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, nil, err
	}
	partnerNames := make(map[primitive.ObjectID]string, len(partners))
	for _, partner := range partners {
		partnerNames[partner.ID] = partner.Name
	}

	result := make([]PartnerPrice, 0, len(prices))
	var minAmount *float64
	for _, price := range prices {
		name, ok := partnerNames[price.PartnerID]
		if !ok {
			// Dangling partner reference; skip the row.
			continue
		}
		result = append(result, PartnerPrice{PartnerName: name, Amount: price.Amount})
		if minAmount == nil || price.Amount < *minAmount {
			amount := price.Amount
			minAmount = &amount
		}
	}
	return result, minAmount, nil
}
