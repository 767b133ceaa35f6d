package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type batchRepository interface {
	List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.BatchDetail, error)
	AssistantLecturerIDs(ctx context.Context, batchID string) ([]string, error)
	Create(ctx context.Context, w *models.BatchWrite) error
	Update(ctx context.Context, w *models.BatchWrite) error
	Delete(ctx context.Context, id string) error
	ListRefs(ctx context.Context) ([]dto.BatchRef, error)
}

// BatchRequest is the create/update payload for a batch. The relational
// fields are three-state: absent leaves the link untouched on update,
// null clears it, a value sets it.
type BatchRequest struct {
	Name                 string                  `json:"name" validate:"required"`
	Capacity             int                     `json:"capacity" validate:"required,gte=1"`
	Grade                models.Optional[string] `json:"grade_id"`
	Supervisor           models.Optional[string] `json:"supervisor_id"`
	DeliveryManager      models.Optional[string] `json:"dm_id"`
	ZoomURL              models.Optional[string] `json:"zoom_url"`
	AssistantLecturerIDs *[]string               `json:"assistant_lecturer_ids"`
}

// BatchService orchestrates batch workflows.
type BatchService struct {
	repo        batchRepository
	invalidator refCacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBatchService constructs a BatchService.
func NewBatchService(repo batchRepository, invalidator refCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{repo: repo, invalidator: invalidator, validator: validate, logger: logger}
}

func (s *BatchService) validateRequest(req BatchRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch payload")
	}
	if req.ZoomURL.Set && req.ZoomURL.Valid {
		parsed, err := url.ParseRequestURI(req.ZoomURL.Value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return appErrors.Clone(appErrors.ErrValidation, "zoom link must be a well-formed URL")
		}
	}
	return nil
}

// List returns batches with pagination metadata.
func (s *BatchService) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, *models.Pagination, error) {
	batches, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list batches")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return batches, pagination, nil
}

// Get returns one batch with its assistant lecturer ids.
func (s *BatchService) Get(ctx context.Context, id string) (*models.BatchDetail, []string, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch")
	}
	assistants, err := s.repo.AssistantLecturerIDs(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch assistants")
	}
	return detail, assistants, nil
}

// Create persists a new batch together with its zoom link and assistant
// set in one transaction.
func (s *BatchService) Create(ctx context.Context, req BatchRequest) (*models.BatchDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	write := &models.BatchWrite{
		Name:                 req.Name,
		Capacity:             req.Capacity,
		Grade:                req.Grade,
		Supervisor:           req.Supervisor,
		DeliveryManager:      req.DeliveryManager,
		ZoomURL:              req.ZoomURL,
		AssistantLecturerIDs: req.AssistantLecturerIDs,
	}
	if err := s.repo.Create(ctx, write); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create batch")
	}
	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, write.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created batch")
	}
	return detail, nil
}

// Update rewrites a batch in one transaction, preserving unmentioned
// relational links.
func (s *BatchService) Update(ctx context.Context, id string, req BatchRequest) (*models.BatchDetail, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	write := &models.BatchWrite{
		ID:                   id,
		Name:                 req.Name,
		Capacity:             req.Capacity,
		Grade:                req.Grade,
		Supervisor:           req.Supervisor,
		DeliveryManager:      req.DeliveryManager,
		ZoomURL:              req.ZoomURL,
		AssistantLecturerIDs: req.AssistantLecturerIDs,
	}
	if err := s.repo.Update(ctx, write); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update batch")
	}
	s.invalidateRefs(ctx)
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated batch")
	}
	return detail, nil
}

// Delete removes a batch.
func (s *BatchService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "batch not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete batch")
	}
	s.invalidateRefs(ctx)
	return nil
}

func (s *BatchService) invalidateRefs(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate reference data cache", zap.Error(err))
	}
}
