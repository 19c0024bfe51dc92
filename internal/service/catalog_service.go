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

var (
	ErrCategoryInUse        = errors.New("category is referenced by existing components")
	ErrUnsupportedImageType = errors.New("unsupported image type: only JPEG and PNG are allowed")
)

// ComponentInput carries the fields for creating a component
type ComponentInput struct {
	Name       string
	CategoryID primitive.ObjectID
	Brand      string
	Specs      map[string]string
	Image      *domain.Image
}

// ComponentUpdate carries partial fields for updating a component;
// nil pointers leave the stored value untouched.
type ComponentUpdate struct {
	Name       *string
	CategoryID *primitive.ObjectID
	Brand      *string
	Specs      map[string]string
	Image      *domain.Image
}

// ComponentDetail is a component joined with its category name and the
// partner prices offered for it.
type ComponentDetail struct {
	Component    *domain.Component
	CategoryName string
	Prices       []PartnerPrice
	MinAmount    *float64
}

// CatalogService defines the interface for category and component business logic
type CatalogService interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	AddCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
	ResolveCategory(ctx context.Context, idOrName string) (*domain.Category, error)
	ListComponentsByCategory(ctx context.Context, idOrName string) ([]*ComponentDetail, error)
	GetComponent(ctx context.Context, id primitive.ObjectID) (*ComponentDetail, error)
	AddComponent(ctx context.Context, input ComponentInput) (*domain.Component, error)
	UpdateComponent(ctx context.Context, id primitive.ObjectID, update ComponentUpdate) (*domain.Component, error)
	DeleteComponent(ctx context.Context, id primitive.ObjectID) error
}

type catalogService struct {
	categoryRepo  repository.CategoryRepository
	componentRepo repository.ComponentRepository
	priceRepo     repository.PriceRepository
	partnerRepo   repository.PartnerRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	componentRepo repository.ComponentRepository,
	priceRepo repository.PriceRepository,
	partnerRepo repository.PartnerRepository,
) CatalogService {
	return &catalogService{
		categoryRepo:  categoryRepo,
		componentRepo: componentRepo,
		priceRepo:     priceRepo,
		partnerRepo:   partnerRepo,
	}
}

// ListCategories retrieves all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// AddCategory creates a category; the name is unique case-insensitively
func (s *catalogService) AddCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{
		Name:           name,
		NameNormalized: domain.NormalizeKey(name),
		CreatedAt:      time.Now(),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category, keeping case-insensitive uniqueness
func (s *catalogService) UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*domain.Category, error) {
	if err := s.categoryRepo.Rename(ctx, id, name, domain.NormalizeKey(name)); err != nil {
		return nil, err
	}
	return s.categoryRepo.FindByID(ctx, id)
}

// DeleteCategory removes a category unless components still reference it
func (s *catalogService) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.componentRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category references: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.categoryRepo.Delete(ctx, id)
}

// ResolveCategory resolves a path segment to a category: a valid ObjectID hex
// resolves by id, anything else by case-insensitive name.
func (s *catalogService) ResolveCategory(ctx context.Context, idOrName string) (*domain.Category, error) {
	if id, err := primitive.ObjectIDFromHex(idOrName); err == nil {
		if category, err := s.categoryRepo.FindByID(ctx, id); err == nil {
			return category, nil
		} else if !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, err
		}
	}
	return s.categoryRepo.FindByNormalizedName(ctx, domain.NormalizeKey(idOrName))
}

// ListComponentsByCategory retrieves a category's components, each joined
// with its partner prices.
func (s *catalogService) ListComponentsByCategory(ctx context.Context, idOrName string) ([]*ComponentDetail, error) {
	category, err := s.ResolveCategory(ctx, idOrName)
	if err != nil {
		return nil, err
	}

	components, err := s.componentRepo.ListByCategory(ctx, category.ID)
	if err != nil {
		return nil, err
	}

	details := make([]*ComponentDetail, 0, len(components))
	for _, component := range components {
		detail, err := s.buildDetail(ctx, component, category.Name)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// GetComponent retrieves a component with its category name and price list
func (s *catalogService) GetComponent(ctx context.Context, id primitive.ObjectID) (*ComponentDetail, error) {
	component, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryName := ""
	if category, err := s.categoryRepo.FindByID(ctx, component.CategoryID); err == nil {
		categoryName = category.Name
	} else if !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, err
	}

	return s.buildDetail(ctx, component, categoryName)
}

// AddComponent validates the category reference and the optional image, then
// creates the component. The (name, category) pair is unique.
func (s *catalogService) AddComponent(ctx context.Context, input ComponentInput) (*domain.Component, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if input.Image != nil && !domain.IsAllowedImageType(input.Image.ContentType) {
		return nil, ErrUnsupportedImageType
	}

	now := time.Now()
	component := &domain.Component{
		Name:           input.Name,
		NameNormalized: domain.NormalizeKey(input.Name),
		CategoryID:     input.CategoryID,
		Brand:          input.Brand,
		Specs:          input.Specs,
		Image:          input.Image,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.componentRepo.Create(ctx, component); err != nil {
		return nil, err
	}
	return component, nil
}

// UpdateComponent merges partial fields into the stored component,
// re-validating the category reference, the (name, category) uniqueness pair
// and any newly supplied image.
func (s *catalogService) UpdateComponent(ctx context.Context, id primitive.ObjectID, update ComponentUpdate) (*domain.Component, error) {
	component, err := s.componentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		component.Name = *update.Name
		component.NameNormalized = domain.NormalizeKey(*update.Name)
	}
	if update.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *update.CategoryID); err != nil {
			return nil, err
		}
		component.CategoryID = *update.CategoryID
	}
	if update.Brand != nil {
		component.Brand = *update.Brand
	}
	if update.Specs != nil {
		component.Specs = update.Specs
	}
	if update.Image != nil {
		if !domain.IsAllowedImageType(update.Image.ContentType) {
			return nil, ErrUnsupportedImageType
		}
		component.Image = update.Image
	}
	component.UpdatedAt = time.Now()

	// The unique (name, category) index rejects a merge that collides with
	// another component.
	if err := s.componentRepo.Update(ctx, component); err != nil {
		return nil, err
	}
	return component, nil
}

// DeleteComponent hard-deletes a component; price and configuration
// references are left dangling and skipped at read time.
func (s *catalogService) DeleteComponent(ctx context.Context, id primitive.ObjectID) error {
	return s.componentRepo.Delete(ctx, id)
}

// buildDetail joins a component with its partner prices
func (s *catalogService) buildDetail(ctx context.Context, component *domain.Component, categoryName string) (*ComponentDetail, error) {
	prices, minAmount, err := joinPartnerPrices(ctx, s.priceRepo, s.partnerRepo, component.ID)
	if err != nil {
		return nil, err
	}
	return &ComponentDetail{
		Component:    component,
		CategoryName: categoryName,
		Prices:       prices,
		MinAmount:    minAmount,
	}, nil
}
