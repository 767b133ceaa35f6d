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

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.TeacherDetail, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

// TeacherRequest is the create/update payload for a teacher.
type TeacherRequest struct {
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

// TeacherService orchestrates teacher workflows across the identity
// provider and local storage.
type TeacherService struct {
	repo        teacherRepository
	provider    identityProvider
	invalidator refCacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, provider identityProvider, invalidator refCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, provider: provider, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns teachers with pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.TeacherDetail, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return teachers, pagination, nil
}

// Get returns one teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.TeacherDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return detail, nil
}

// Create provisions the identity record first, then the local row. A
// local failure deletes the identity record again; a failed compensation
// surfaces as an inconsistent-state error.
func (s *TeacherService) Create(ctx context.Context, req TeacherRequest) (*models.TeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	userID, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      string(models.RoleTeacher),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user creation")
	}

	teacher := &models.Teacher{
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
	if err := s.repo.Create(ctx, teacher); err != nil {
		if compErr := s.provider.DeleteUser(ctx, userID); compErr != nil {
			s.logger.Error("failed to compensate identity record after local write failure",
				zap.String("user_id", userID), zap.Error(compErr))
			return nil, appErrors.Clone(appErrors.ErrInconsistent, "identity and local records are out of sync")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created teacher")
	}
	return detail, nil
}

// Update pushes the change to the identity provider first, then rewrites
// the local row.
func (s *TeacherService) Update(ctx context.Context, id string, req TeacherRequest) (*models.TeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
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

	teacher := &models.Teacher{
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
	if err := s.repo.Update(ctx, teacher); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}

	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated teacher")
	}
	return detail, nil
}

// Delete removes the identity record first, then the local row.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.provider.DeleteUser(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user deletion")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("identity record deleted but local teacher row remains",
			zap.String("teacher_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	s.invalidateRefs(ctx)
	return nil
}

func (s *TeacherService) invalidateRefs(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate reference data cache", zap.Error(err))
	}
}
