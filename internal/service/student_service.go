package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/internal/repository"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/identity"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	CountInBatch(ctx context.Context, batchID string) (int, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

type batchReader interface {
	FindByID(ctx context.Context, id string) (*models.BatchDetail, error)
}

type identityProvider interface {
	CreateUser(ctx context.Context, params identity.CreateUserParams) (string, error)
	UpdateUser(ctx context.Context, id string, params identity.UpdateUserParams) error
	DeleteUser(ctx context.Context, id string) error
}

// StudentRequest is the create/update payload for a student.
type StudentRequest struct {
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
	GradeID  *string    `json:"grade_id"`
	BatchID  string     `json:"batch_id" validate:"required"`
}

// StudentService orchestrates student workflows across the identity
// provider and local storage.
type StudentService struct {
	repo        studentRepository
	batches     batchReader
	provider    identityProvider
	invalidator refCacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, batches batchReader, provider identityProvider, invalidator refCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, batches: batches, provider: provider, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return students, pagination, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return detail, nil
}

// Create provisions the identity record first, then the local row inside
// the capacity-guarded transaction. A local failure deletes the identity
// record again; a failed compensation surfaces as an inconsistent-state
// error. The capacity pre-check keeps obviously full batches from ever
// reaching the provider.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required")
	}

	batch, err := s.batches.FindByID(ctx, req.BatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	if batch.EnrolledCount >= batch.Capacity {
		return nil, appErrors.Clone(appErrors.ErrCapacityFull, "batch capacity reached")
	}

	userID, err := s.provider.CreateUser(ctx, identity.CreateUserParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.Name,
		LastName:  req.Surname,
		Role:      string(models.RoleStudent),
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user creation")
	}

	student := &models.Student{
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
		GradeID:  req.GradeID,
		BatchID:  req.BatchID,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if compErr := s.provider.DeleteUser(ctx, userID); compErr != nil {
			s.logger.Error("failed to compensate identity record after local write failure",
				zap.String("user_id", userID), zap.Error(compErr))
			return nil, appErrors.Clone(appErrors.ErrInconsistent, "identity and local records are out of sync")
		}
		if errors.Is(err, repository.ErrBatchFull) {
			return nil, appErrors.Clone(appErrors.ErrCapacityFull, "batch capacity reached")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created student")
	}
	return detail, nil
}

// Update pushes the change to the identity provider first, then rewrites
// the local row.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
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

	student := &models.Student{
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
		GradeID:   req.GradeID,
		BatchID:   req.BatchID,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated student")
	}
	return detail, nil
}

// Delete removes the identity record first, then the local row. A local
// row left behind after a provider delete is a known gap; it is logged
// and surfaced as an internal error.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.provider.DeleteUser(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIdentity.Code, appErrors.ErrIdentity.Status, "identity provider rejected user deletion")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("identity record deleted but local student row remains",
			zap.String("student_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateRefs(ctx)
	return nil
}

func (s *StudentService) invalidateRefs(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate reference data cache", zap.Error(err))
	}
}
