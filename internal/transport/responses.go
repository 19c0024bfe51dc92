package transport

import (
	"time"

	"partforge/internal/domain"
	"partforge/internal/service"
)

// CategoryResponse is the wire shape of a category
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ComponentResponse is the wire shape of a component. Image is a base64
// data URI or null; prices are present on joined reads.
type ComponentResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	CategoryID   string                 `json:"category_id"`
	CategoryName string                 `json:"category_name,omitempty"`
	Brand        string                 `json:"brand"`
	Specs        map[string]string      `json:"specs"`
	Image        *string                `json:"image"`
	Prices       []service.PartnerPrice `json:"prices,omitempty"`
	MinPrice     *float64               `json:"min_price,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// PartnerResponse is the wire shape of a partner
type PartnerResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ConfigurationResponse is the wire shape of a configuration; Components is
// populated on joined reads and UserEmail on the admin listing.
type ConfigurationResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	UserEmail    string              `json:"user_email,omitempty"`
	Name         string              `json:"name"`
	ComponentIDs []string            `json:"component_ids,omitempty"`
	Components   []ComponentResponse `json:"components,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// UserResponse is the wire shape of a user; the password hash never leaves
// the service.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func categoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.Hex(),
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
}

func imageDataURI(image *domain.Image) *string {
	if uri := image.DataURI(); uri != "" {
		return &uri
	}
	return nil
}

func componentResponse(component *domain.Component) ComponentResponse {
	return ComponentResponse{
		ID:         component.ID.Hex(),
		Name:       component.Name,
		CategoryID: component.CategoryID.Hex(),
		Brand:      component.Brand,
		Specs:      component.Specs,
		Image:      imageDataURI(component.Image),
		CreatedAt:  component.CreatedAt,
		UpdatedAt:  component.UpdatedAt,
	}
}

func componentDetailResponse(detail *service.ComponentDetail) ComponentResponse {
	resp := componentResponse(detail.Component)
	resp.CategoryName = detail.CategoryName
	resp.Prices = detail.Prices
	resp.MinPrice = detail.MinAmount
	return resp
}

func componentPricingResponse(pricing *service.ComponentPricing) ComponentResponse {
	resp := componentResponse(pricing.Component)
	resp.CategoryName = pricing.CategoryName
	resp.Prices = pricing.Prices
	resp.MinPrice = pricing.MinAmount
	return resp
}

func priceResponse(price *domain.Price) PriceResponse {
	return PriceResponse{
		PartnerID:   price.PartnerID.Hex(),
		ComponentID: price.ComponentID.Hex(),
		Amount:      price.Amount,
	}
}

func partnerResponse(partner *domain.Partner) PartnerResponse {
	return PartnerResponse{
		ID:          partner.ID.Hex(),
		Name:        partner.Name,
		Website:     partner.Website,
		Description: partner.Description,
		IsActive:    partner.IsActive,
		Image:       imageDataURI(partner.Image),
		CreatedAt:   partner.CreatedAt,
		UpdatedAt:   partner.UpdatedAt,
	}
}

func configurationResponse(configuration *domain.Configuration) ConfigurationResponse {
	return ConfigurationResponse{
		ID:        configuration.ID.Hex(),
		UserID:    configuration.UserID.Hex(),
		Name:      configuration.Name,
		CreatedAt: configuration.CreatedAt,
		UpdatedAt: configuration.UpdatedAt,
	}
}

func configurationDetailResponse(detail *service.ConfigurationDetail) ConfigurationResponse {
	resp := configurationResponse(detail.Configuration)
	components := make([]ComponentResponse, 0, len(detail.Components))
	for _, component := range detail.Components {
		components = append(components, componentResponse(component))
	}
	resp.Components = components
	return resp
}

func userResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
