// Package fixtures loads demo catalog data from a JSON file into the
// database through the repositories, resolving fixture names to ids as it
// inserts. Records that already exist are skipped so the loader can run
// against a seeded database.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"partforge/internal/domain"
	"partforge/internal/repository"
	"partforge/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// File is the on-disk fixture shape. Components reference categories by
// name; prices reference partners and components by name.
type File struct {
	Users      []UserFixture      `json:"users"`
	Categories []string           `json:"categories"`
	Partners   []PartnerFixture   `json:"partners"`
	Components []ComponentFixture `json:"components"`
	Prices     []PriceFixture     `json:"prices"`
}

type UserFixture struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type PartnerFixture struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

type ComponentFixture struct {
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Brand    string            `json:"brand"`
	Specs    map[string]string `json:"specs"`
}

type PriceFixture struct {
	Partner   string  `json:"partner"`
	Component string  `json:"component"`
	Amount    float64 `json:"amount"`
}

// Loader inserts fixture data through the repositories
type Loader struct {
	userRepo      repository.UserRepository
	categoryRepo  repository.CategoryRepository
	componentRepo repository.ComponentRepository
	partnerRepo   repository.PartnerRepository
	priceRepo     repository.PriceRepository
	logger        *zap.Logger
}

// NewLoader creates a fixture Loader
func NewLoader(
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	componentRepo repository.ComponentRepository,
	partnerRepo repository.PartnerRepository,
	priceRepo repository.PriceRepository,
	logger *zap.Logger,
) *Loader {
	return &Loader{
		userRepo:      userRepo,
		categoryRepo:  categoryRepo,
		componentRepo: componentRepo,
		partnerRepo:   partnerRepo,
		priceRepo:     priceRepo,
		logger:        logger,
	}
}

// LoadFile reads and applies a fixture file
func (l *Loader) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse fixture file: %w", err)
	}

	return l.Load(ctx, &file)
}

// Load applies fixture data in dependency order: users and categories
// first, then partners, components and finally prices.
func (l *Loader) Load(ctx context.Context, file *File) error {
	if err := l.loadUsers(ctx, file.Users); err != nil {
		return err
	}

	categoryIDs, err := l.loadCategories(ctx, file.Categories)
	if err != nil {
		return err
	}

	partnerIDs, err := l.loadPartners(ctx, file.Partners)
	if err != nil {
		return err
	}

	componentIDs, err := l.loadComponents(ctx, file.Components, categoryIDs)
	if err != nil {
		return err
	}

	return l.loadPrices(ctx, file.Prices, partnerIDs, componentIDs)
}

func (l *Loader) loadUsers(ctx context.Context, users []UserFixture) error {
	for _, fixture := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(fixture.Password), service.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", fixture.Email, err)
		}

		role := fixture.Role
		if role == "" {
			role = domain.RoleUser
		}

		now := time.Now()
		err = l.userRepo.Create(ctx, &domain.User{
			Email:           fixture.Email,
			EmailNormalized: domain.NormalizeKey(fixture.Email),
			PasswordHash:    string(hash),
			Name:            fixture.Name,
			Role:            role,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			l.logger.Info("User already exists, skipping", zap.String("email", fixture.Email))
			continue
		}
		if err != nil {
			return err
		}
		l.logger.Info("User created", zap.String("email", fixture.Email), zap.String("role", role))
	}
	return nil
}

func (l *Loader) loadCategories(ctx context.Context, names []string) (map[string]primitive.ObjectID, error) {
	ids := make(map[string]primitive.ObjectID, len(names))
	for _, name := range names {
		key := domain.NormalizeKey(name)

		category := &domain.Category{
			Name:           name,
			NameNormalized: key,
			CreatedAt:      time.Now(),
		}
		err := l.categoryRepo.Create(ctx, category)
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			existing, err := l.categoryRepo.FindByNormalizedName(ctx, key)
			if err != nil {
				return nil, err
			}
			ids[key] = existing.ID
			l.logger.Info("Category already exists, skipping", zap.String("name", name))
			continue
		}
		if err != nil {
			return nil, err
		}
		ids[key] = category.ID
		l.logger.Info("Category created", zap.String("name", name))
	}
	return ids, nil
}

func (l *Loader) loadPartners(ctx context.Context, partners []PartnerFixture) (map[string]primitive.ObjectID, error) {
	ids := make(map[string]primitive.ObjectID, len(partners))
	for _, fixture := range partners {
		key := domain.NormalizeKey(fixture.Name)

		now := time.Now()
		partner := &domain.Partner{
			Name:           fixture.Name,
			NameNormalized: key,
			Website:        fixture.Website,
			Description:    fixture.Description,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err := l.partnerRepo.Create(ctx, partner)
		if errors.Is(err, repository.ErrPartnerAlreadyExists) {
			l.logger.Info("Partner already exists, skipping", zap.String("name", fixture.Name))
			existing, err := l.findPartnerByName(ctx, key)
			if err != nil {
				return nil, err
			}
			ids[key] = existing
			continue
		}
		if err != nil {
			return nil, err
		}
		ids[key] = partner.ID
		l.logger.Info("Partner created", zap.String("name", fixture.Name))
	}
	return ids, nil
}

func (l *Loader) findPartnerByName(ctx context.Context, key string) (primitive.ObjectID, error) {
	partners, err := l.partnerRepo.List(ctx)
	if err != nil {
		return primitive.NilObjectID, err
	}
	for _, partner := range partners {
		if partner.NameNormalized == key {
			return partner.ID, nil
		}
	}
	return primitive.NilObjectID, repository.ErrPartnerNotFound
}

func (l *Loader) loadComponents(ctx context.Context, components []ComponentFixture, categoryIDs map[string]primitive.ObjectID) (map[string]primitive.ObjectID, error) {
	ids := make(map[string]primitive.ObjectID, len(components))
	for _, fixture := range components {
		categoryID, ok := categoryIDs[domain.NormalizeKey(fixture.Category)]
		if !ok {
			return nil, fmt.Errorf("component %q references unknown category %q", fixture.Name, fixture.Category)
		}

		key := domain.NormalizeKey(fixture.Name)
		now := time.Now()
		component := &domain.Component{
			Name:           fixture.Name,
			NameNormalized: key,
			CategoryID:     categoryID,
			Brand:          fixture.Brand,
			Specs:          fixture.Specs,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err := l.componentRepo.Create(ctx, component)
		if errors.Is(err, repository.ErrComponentAlreadyExists) {
			l.logger.Info("Component already exists, skipping", zap.String("name", fixture.Name))
			existing, err := l.findComponentByName(ctx, categoryID, key)
			if err != nil {
				return nil, err
			}
			ids[key] = existing
			continue
		}
		if err != nil {
			return nil, err
		}
		ids[key] = component.ID
		l.logger.Info("Component created", zap.String("name", fixture.Name), zap.String("category", fixture.Category))
	}
	return ids, nil
}

func (l *Loader) findComponentByName(ctx context.Context, categoryID primitive.ObjectID, key string) (primitive.ObjectID, error) {
	components, err := l.componentRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	for _, component := range components {
		if component.NameNormalized == key {
			return component.ID, nil
		}
	}
	return primitive.NilObjectID, repository.ErrComponentNotFound
}

func (l *Loader) loadPrices(ctx context.Context, prices []PriceFixture, partnerIDs, componentIDs map[string]primitive.ObjectID) error {
	for _, fixture := range prices {
		partnerID, ok := partnerIDs[domain.NormalizeKey(fixture.Partner)]
		if !ok {
			return fmt.Errorf("price references unknown partner %q", fixture.Partner)
		}
		componentID, ok := componentIDs[domain.NormalizeKey(fixture.Component)]
		if !ok {
			return fmt.Errorf("price references unknown component %q", fixture.Component)
		}

		now := time.Now()
		err := l.priceRepo.Create(ctx, &domain.Price{
			PartnerID:   partnerID,
			ComponentID: componentID,
			Amount:      fixture.Amount,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if errors.Is(err, repository.ErrPriceAlreadyExists) {
			l.logger.Info("Price already exists, skipping",
				zap.String("partner", fixture.Partner),
				zap.String("component", fixture.Component))
			continue
		}
		if err != nil {
			return err
		}
		l.logger.Info("Price created",
			zap.String("partner", fixture.Partner),
			zap.String("component", fixture.Component),
			zap.Float64("amount", fixture.Amount))
	}
	return nil
}
