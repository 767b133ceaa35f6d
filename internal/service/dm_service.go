package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/identity"
)

type deliveryManagerRepository interface {
	List(ctx context.Context, filter models.DeliveryManagerFilter) ([]models.DeliveryManagerDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.DeliveryManagerDetail, error)
	Create(ctx context.Context, manager *models.DeliveryManager) error
	Update(ctx context.Context, manager *models.DeliveryManager) error
	Delete(ctx context.Context, id string) error
}

// DeliveryManagerRequest is the create/update payload for a delivery manager.
type DeliveryManagerRequest struct {
	Username string     `json:"username" validate:"required,min=3"`
	Password string     `json:"password" validate:"omitempty,min=8"`
	Name     string     `json:"name" validate:"required"`
	Surname  string     `json:"surname" validate:"required"`
	Email    *string    `json:"email" validate:"omitempty,email"`
	Phone    *string    `json:"phone"`
	Address  string     `json:"address"`
	Img      *string    `json:"img"`
	Sex      models.Sex `json:"sex" validate:"required,oneof=MALE FEMALE"`
	Birthday time.Time  `json:"birthday" validate:"required"`
}

// DeliveryManagerService orchestrates delivery manager workflows across
// the identity provider and local storage.
type DeliveryManagerService struct {
	repo        deliveryManagerRepository
	provider    identityProvider
	invalidator refCacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewDeliveryManagerService constructs a DeliveryManagerService.
func NewDeliveryManagerService(repo deliveryManagerRepository, provider identityProvider, invalidator refCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *DeliveryManagerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliveryManagerService{repo: repo, provider: provider, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns delivery managers with pagination metadata.
func (s *DeliveryManagerService) List(ctx context.Context, filter models.DeliveryManagerFilter) ([]models.DeliveryManagerDetail, *models.Pagination, error) {
	managers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list delivery managers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return managers, pagination, nil
}

// Get returns one delivery manager.
func (s *DeliveryManagerService) Get(ctx context.Context, id string) (*models.DeliveryManagerDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delivery manager not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery manager")
	}
	return detail, nil
}

// Create provisions the identity record first, then the local row, with
// the same compensation contract as teachers and students.
func (s *DeliveryManagerService) Create(ctx context.Context, req DeliveryManagerRequest) (*models.DeliveryManagerDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delivery manager payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	userID, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      string(models.RoleDeliveryManager),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user creation")
	}

	manager := &models.DeliveryManager{
		ID:       userID,
		Username: req.Username,
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		Img:      req.Img,
		Sex:      req.Sex,
		Birthday: req.Birthday,
	}
	if err := s.repo.Create(ctx, manager); err != nil {
		if compErr := s.provider.DeleteUser(ctx, userID); compErr != nil {
			s.logger.Error("failed to compensate identity record after local write failure",
				zap.String("user_id", userID), zap.Error(compErr))
			return nil, appErrors.Clone(appErrors.ErrInconsistent, "identity and local records are out of sync")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create delivery manager")
	}

	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, manager.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created delivery manager")
	}
	return detail, nil
}

// Update pushes the change to the identity provider first, then rewrites
// the local row.
func (s *DeliveryManagerService) Update(ctx context.Context, id string, req DeliveryManagerRequest) (*models.DeliveryManagerDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delivery manager payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delivery manager not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery manager")
	}

	params := identity.UpdateUserParams{
		Username:  req.Username,
		FirstName: req.Name,
		LastName:  req.Surname,
	}
	if req.Password != "" {
		params.Password = req.Password
	}
	if err := s.provider.UpdateUser(ctx, id, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user update")
	}

	manager := &models.DeliveryManager{
		ID:        id,
		Username:  req.Username,
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Img:       req.Img,
		Sex:       req.Sex,
		Birthday:  req.Birthday,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, manager); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delivery manager not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update delivery manager")
	}

	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated delivery manager")
	}
	return detail, nil
}

// Delete removes the identity record first, then the local row.
func (s *DeliveryManagerService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "delivery manager not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delivery manager")
	}
	if err := s.provider.DeleteUser(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user deletion")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("identity record deleted but local delivery manager row remains",
			zap.String("dm_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete delivery manager")
	}
	s.invalidateRefs(ctx)
	return nil
}

func (s *DeliveryManagerService) invalidateRefs(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate reference data cache", zap.Error(err))
	}
}
