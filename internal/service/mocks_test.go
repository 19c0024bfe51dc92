package service

import (
	"context"

	"partforge/internal/domain"
	"partforge/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory mock repositories shared by the service tests. They mirror the
// Mongo-backed implementations: duplicate keys surface the same sentinel
// errors, and listings keep insertion order.

type mockUserRepository struct {
	users []*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.EmailNormalized == user.EmailNormalized {
			return repository.ErrUserAlreadyExists
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := domain.NormalizeKey(email)
	for _, user := range m.users {
		if user.EmailNormalized == normalized {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	var result []*domain.User
	for _, user := range m.users {
		for _, id := range ids {
			if user.ID == id {
				result = append(result, user)
				break
			}
		}
	}
	return result, nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role string) ([]*domain.User, error) {
	var result []*domain.User
	for _, user := range m.users {
		if user.Role == role {
			result = append(result, user)
		}
	}
	return result, nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

type mockCategoryRepository struct {
	categories []*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	for _, existing := range m.categories {
		if existing.NameNormalized == category.NameNormalized {
			return repository.ErrCategoryAlreadyExists
		}
	}
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return append([]*domain.Category{}, m.categories...), nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	for _, category := range m.categories {
		if category.ID == id {
			return category, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) FindByNormalizedName(ctx context.Context, normalized string) (*domain.Category, error) {
	for _, category := range m.categories {
		if category.NameNormalized == normalized {
			return category, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Rename(ctx context.Context, id primitive.ObjectID, name, normalized string) error {
	for _, existing := range m.categories {
		if existing.ID != id && existing.NameNormalized == normalized {
			return repository.ErrCategoryAlreadyExists
		}
	}
	for _, category := range m.categories {
		if category.ID == id {
			category.Name = name
			category.NameNormalized = normalized
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, category := range m.categories {
		if category.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

type mockComponentRepository struct {
	components []*domain.Component
}

func newMockComponentRepository() *mockComponentRepository {
	return &mockComponentRepository{}
}

func (m *mockComponentRepository) Create(ctx context.Context, component *domain.Component) error {
	for _, existing := range m.components {
		if existing.NameNormalized == component.NameNormalized && existing.CategoryID == component.CategoryID {
			return repository.ErrComponentAlreadyExists
		}
	}
	if component.ID.IsZero() {
		component.ID = primitive.NewObjectID()
	}
	m.components = append(m.components, component)
	return nil
}

func (m *mockComponentRepository) List(ctx context.Context) ([]*domain.Component, error) {
	return append([]*domain.Component{}, m.components...), nil
}

func (m *mockComponentRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]*domain.Component, error) {
	var result []*domain.Component
	for _, component := range m.components {
		if component.CategoryID == categoryID {
			result = append(result, component)
		}
	}
	return result, nil
}

func (m *mockComponentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Component, error) {
	for _, component := range m.components {
		if component.ID == id {
			return component, nil
		}
	}
	return nil, repository.ErrComponentNotFound
}

func (m *mockComponentRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Component, error) {
	var result []*domain.Component
	for _, component := range m.components {
		for _, id := range ids {
			if component.ID == id {
				result = append(result, component)
				break
			}
		}
	}
	return result, nil
}

func (m *mockComponentRepository) Update(ctx context.Context, component *domain.Component) error {
	for _, existing := range m.components {
		if existing.ID != component.ID &&
			existing.NameNormalized == component.NameNormalized &&
			existing.CategoryID == component.CategoryID {
			return repository.ErrComponentAlreadyExists
		}
	}
	for i, existing := range m.components {
		if existing.ID == component.ID {
			m.components[i] = component
			return nil
		}
	}
	return repository.ErrComponentNotFound
}

func (m *mockComponentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, component := range m.components {
		if component.ID == id {
			m.components = append(m.components[:i], m.components[i+1:]...)
			return nil
		}
	}
	return repository.ErrComponentNotFound
}

func (m *mockComponentRepository) CountByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	var count int64
	for _, component := range m.components {
		if component.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

type mockPartnerRepository struct {
	partners []*domain.Partner
}

func newMockPartnerRepository() *mockPartnerRepository {
	return &mockPartnerRepository{}
}

func (m *mockPartnerRepository) Create(ctx context.Context, partner *domain.Partner) error {
	for _, existing := range m.partners {
		if existing.NameNormalized == partner.NameNormalized {
			return repository.ErrPartnerAlreadyExists
		}
	}
	if partner.ID.IsZero() {
		partner.ID = primitive.NewObjectID()
	}
	m.partners = append(m.partners, partner)
	return nil
}

func (m *mockPartnerRepository) List(ctx context.Context) ([]*domain.Partner, error) {
	return append([]*domain.Partner{}, m.partners...), nil
}

func (m *mockPartnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Partner, error) {
	for _, partner := range m.partners {
		if partner.ID == id {
			return partner, nil
		}
	}
	return nil, repository.ErrPartnerNotFound
}

func (m *mockPartnerRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Partner, error) {
	var result []*domain.Partner
	for _, partner := range m.partners {
		for _, id := range ids {
			if partner.ID == id {
				result = append(result, partner)
				break
			}
		}
	}
	return result, nil
}

func (m *mockPartnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	for _, existing := range m.partners {
		if existing.ID != partner.ID && existing.NameNormalized == partner.NameNormalized {
			return repository.ErrPartnerAlreadyExists
		}
	}
	for i, existing := range m.partners {
		if existing.ID == partner.ID {
			m.partners[i] = partner
			return nil
		}
	}
	return repository.ErrPartnerNotFound
}

func (m *mockPartnerRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, partner := range m.partners {
		if partner.ID == id {
			m.partners = append(m.partners[:i], m.partners[i+1:]...)
			return nil
		}
	}
	return repository.ErrPartnerNotFound
}

type mockPriceRepository struct {
	prices []*domain.Price
}

func newMockPriceRepository() *mockPriceRepository {
	return &mockPriceRepository{}
}

func (m *mockPriceRepository) Create(ctx context.Context, price *domain.Price) error {
	for _, existing := range m.prices {
		if existing.PartnerID == price.PartnerID && existing.ComponentID == price.ComponentID {
			return repository.ErrPriceAlreadyExists
		}
	}
	if price.ID.IsZero() {
		price.ID = primitive.NewObjectID()
	}
	m.prices = append(m.prices, price)
	return nil
}

func (m *mockPriceRepository) FindByPair(ctx context.Context, partnerID, componentID primitive.ObjectID) (*domain.Price, error) {
	for _, price := range m.prices {
		if price.PartnerID == partnerID && price.ComponentID == componentID {
			return price, nil
		}
	}
	return nil, repository.ErrPriceNotFound
}

func (m *mockPriceRepository) UpdateAmount(ctx context.Context, partnerID, componentID primitive.ObjectID, amount float64) error {
	for _, price := range m.prices {
		if price.PartnerID == partnerID && price.ComponentID == componentID {
			price.Amount = amount
			return nil
		}
	}
	return repository.ErrPriceNotFound
}

func (m *mockPriceRepository) DeleteByPair(ctx context.Context, partnerID, componentID primitive.ObjectID) error {
	for i, price := range m.prices {
		if price.PartnerID == partnerID && price.ComponentID == componentID {
			m.prices = append(m.prices[:i], m.prices[i+1:]...)
			return nil
		}
	}
	return repository.ErrPriceNotFound
}

func (m *mockPriceRepository) ListByComponent(ctx context.Context, componentID primitive.ObjectID) ([]*domain.Price, error) {
	var result []*domain.Price
	for _, price := range m.prices {
		if price.ComponentID == componentID {
			result = append(result, price)
		}
	}
	return result, nil
}

func (m *mockPriceRepository) List(ctx context.Context) ([]*domain.Price, error) {
	return append([]*domain.Price{}, m.prices...), nil
}

type mockConfigurationRepository struct {
	configurations []*domain.Configuration
}

func newMockConfigurationRepository() *mockConfigurationRepository {
	return &mockConfigurationRepository{}
}

func (m *mockConfigurationRepository) Create(ctx context.Context, configuration *domain.Configuration) error {
	if configuration.ID.IsZero() {
		configuration.ID = primitive.NewObjectID()
	}
	m.configurations = append(m.configurations, configuration)
	return nil
}

func (m *mockConfigurationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Configuration, error) {
	for _, configuration := range m.configurations {
		if configuration.ID == id {
			return configuration, nil
		}
	}
	return nil, repository.ErrConfigurationNotFound
}

func (m *mockConfigurationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Configuration, error) {
	var result []*domain.Configuration
	for _, configuration := range m.configurations {
		if configuration.UserID == userID {
			result = append(result, configuration)
		}
	}
	return result, nil
}

func (m *mockConfigurationRepository) List(ctx context.Context) ([]*domain.Configuration, error) {
	return append([]*domain.Configuration{}, m.configurations...), nil
}

func (m *mockConfigurationRepository) Update(ctx context.Context, configuration *domain.Configuration) error {
	for i, existing := range m.configurations {
		if existing.ID == configuration.ID {
			m.configurations[i] = configuration
			return nil
		}
	}
	return repository.ErrConfigurationNotFound
}

func (m *mockConfigurationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, configuration := range m.configurations {
		if configuration.ID == id {
			m.configurations = append(m.configurations[:i], m.configurations[i+1:]...)
			return nil
		}
	}
	return repository.ErrConfigurationNotFound
}
