package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type subjectRepository interface {
	List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.SubjectDetail, error)
	TeacherIDs(ctx context.Context, subjectID string) ([]string, error)
	Create(ctx context.Context, subject *models.Subject, teacherIDs []string) error
	Update(ctx context.Context, subject *models.Subject, teacherIDs *[]string) error
	Delete(ctx context.Context, id string) error
	ListRefs(ctx context.Context) ([]dto.SubjectRef, error)
}

// SubjectRequest is the create/update payload for a subject. TeacherIDs
// replaces the link set wholesale when present; absent leaves it alone.
type SubjectRequest struct {
	Name       string    `json:"name" validate:"required"`
	TeacherIDs *[]string `json:"teacher_ids"`
}

// SubjectService orchestrates subject workflows.
type SubjectService struct {
	repo        subjectRepository
	invalidator refCacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, invalidator refCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns subjects with pagination metadata.
func (s *SubjectService) List(ctx context.Context, filter models.SubjectFilter) ([]models.SubjectDetail, *models.Pagination, error) {
	subjects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return subjects, pagination, nil
}

// Get returns one subject with its linked teacher ids.
func (s *SubjectService) Get(ctx context.Context, id string) (*models.SubjectDetail, []string, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	teacherIDs, err := s.repo.TeacherIDs(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject teachers")
	}
	return detail, teacherIDs, nil
}

// Create persists a subject and its teacher links in one transaction.
func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{Name: req.Name}
	var teacherIDs []string
	if req.TeacherIDs != nil {
		teacherIDs = *req.TeacherIDs
	}
	if err := s.repo.Create(ctx, subject, teacherIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, subject.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created subject")
	}
	return detail, nil
}

// Update rewrites a subject and optionally replaces its teacher set.
func (s *SubjectService) Update(ctx context.Context, id string, req SubjectRequest) (*models.SubjectDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject := &models.Subject{ID: id, Name: req.Name}
	if err := s.repo.Update(ctx, subject, req.TeacherIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated subject")
	}
	return detail, nil
}

// Delete removes a subject and its teacher links.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.invalidateRefs(ctx)
	return nil
}

func (s *SubjectService) invalidateRefs(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate reference data cache", zap.Error(err))
	}
}
