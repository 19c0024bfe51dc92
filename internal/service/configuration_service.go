package service

import (
	"context"
	"errors"
	"io"
	"time"

	"partforge/internal/domain"
	"partforge/internal/pdf"
	"partforge/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfigurationDetail is a configuration with its component references
// expanded. Dangling references are omitted from Components.
type ConfigurationDetail struct {
	Configuration *domain.Configuration
	Components    []*domain.Component
}

// ConfigurationWithUser is a configuration joined with its owner's email.
// A deleted owner leaves the email empty.
type ConfigurationWithUser struct {
	Configuration *domain.Configuration
	UserEmail     string
}

// ConfigurationUpdate carries partial fields for updating a configuration
type ConfigurationUpdate struct {
	Name         *string
	ComponentIDs *[]primitive.ObjectID
}

// ConfigurationService defines the interface for saved build business logic
type ConfigurationService interface {
	Create(ctx context.Context, email, name string, componentIDs []primitive.ObjectID) (*domain.Configuration, error)
	ListByUserEmail(ctx context.Context, email string) ([]*ConfigurationDetail, error)
	Get(ctx context.Context, id primitive.ObjectID) (*ConfigurationDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, update ConfigurationUpdate) (*ConfigurationDetail, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ExportPDF(ctx context.Context, id primitive.ObjectID, w io.Writer) (filename string, err error)
	ListAllWithUserDetails(ctx context.Context) ([]*ConfigurationWithUser, error)
}

type configurationService struct {
	configurationRepo repository.ConfigurationRepository
	userRepo          repository.UserRepository
	componentRepo     repository.ComponentRepository
	renderer          pdf.Renderer
}

// NewConfigurationService creates a new instance of ConfigurationService
func NewConfigurationService(
	configurationRepo repository.ConfigurationRepository,
	userRepo repository.UserRepository,
	componentRepo repository.ComponentRepository,
	renderer pdf.Renderer,
) ConfigurationService {
	return &configurationService{
		configurationRepo: configurationRepo,
		userRepo:          userRepo,
		componentRepo:     componentRepo,
		renderer:          renderer,
	}
}

// Create stores a configuration for the user resolved by case-insensitive
// email. An empty component list is allowed.
func (s *configurationService) Create(ctx context.Context, email, name string, componentIDs []primitive.ObjectID) (*domain.Configuration, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if componentIDs == nil {
		componentIDs = []primitive.ObjectID{}
	}

	now := time.Now()
	configuration := &domain.Configuration{
		UserID:       user.ID,
		Name:         name,
		ComponentIDs: componentIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.configurationRepo.Create(ctx, configuration); err != nil {
		return nil, err
	}
	return configuration, nil
}

// ListByUserEmail retrieves the user's configurations with components expanded
func (s *configurationService) ListByUserEmail(ctx context.Context, email string) ([]*ConfigurationDetail, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	configurations, err := s.configurationRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	details := make([]*ConfigurationDetail, 0, len(configurations))
	for _, configuration := range configurations {
		detail, err := s.expand(ctx, configuration)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// Get retrieves a configuration with components expanded
func (s *configurationService) Get(ctx context.Context, id primitive.ObjectID) (*ConfigurationDetail, error) {
	configuration, err := s.configurationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, configuration)
}

// Update merges partial fields into the stored configuration
func (s *configurationService) Update(ctx context.Context, id primitive.ObjectID, update ConfigurationUpdate) (*ConfigurationDetail, error) {
	configuration, err := s.configurationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		configuration.Name = *update.Name
	}
	if update.ComponentIDs != nil {
		configuration.ComponentIDs = *update.ComponentIDs
	}
	configuration.UpdatedAt = time.Now()

	if err := s.configurationRepo.Update(ctx, configuration); err != nil {
		return nil, err
	}
	return s.expand(ctx, configuration)
}

// Delete removes a configuration by id
func (s *configurationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.configurationRepo.Delete(ctx, id)
}

// ExportPDF streams the configuration as a PDF document and returns the
// attachment filename.
func (s *configurationService) ExportPDF(ctx context.Context, id primitive.ObjectID, w io.Writer) (string, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	filename := "configuration-" + detail.Configuration.Name + ".pdf"
	if err := s.renderer.RenderConfiguration(w, detail.Configuration.Name, detail.Components, time.Now()); err != nil {
		return "", err
	}
	return filename, nil
}

// ListAllWithUserDetails joins the owner's email onto every configuration
func (s *configurationService) ListAllWithUserDetails(ctx context.Context) ([]*ConfigurationWithUser, error) {
	configurations, err := s.configurationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	userIDs := make([]primitive.ObjectID, 0, len(configurations))
	for _, configuration := range configurations {
		userIDs = append(userIDs, configuration.UserID)
	}
	users, err := s.userRepo.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	emails := make(map[primitive.ObjectID]string, len(users))
	for _, user := range users {
		emails[user.ID] = user.Email
	}

	result := make([]*ConfigurationWithUser, 0, len(configurations))
	for _, configuration := range configurations {
		result = append(result, &ConfigurationWithUser{
			Configuration: configuration,
			UserEmail:     emails[configuration.UserID],
		})
	}
	return result, nil
}

// expand resolves the configuration's component references, dropping any
// that no longer exist.
func (s *configurationService) expand(ctx context.Context, configuration *domain.Configuration) (*ConfigurationDetail, error) {
	components, err := s.componentRepo.FindByIDs(ctx, configuration.ComponentIDs)
	if err != nil && !errors.Is(err, repository.ErrComponentNotFound) {
		return nil, err
	}
	if components == nil {
		components = []*domain.Component{}
	}
	return &ConfigurationDetail{
		Configuration: configuration,
		Components:    components,
	}, nil
}
