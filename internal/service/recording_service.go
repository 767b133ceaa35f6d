package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type recordingRepository interface {
	List(ctx context.Context, filter models.ClassRecordingFilter) ([]models.ClassRecordingDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ClassRecordingDetail, error)
	Create(ctx context.Context, recording *models.ClassRecording) error
	Update(ctx context.Context, recording *models.ClassRecording) error
	Delete(ctx context.Context, id string) error
}

// RecordingRequest is the create/update payload for a class recording.
type RecordingRequest struct {
	BatchID      string `json:"batch_id" validate:"required"`
	Title        string `json:"title" validate:"required"`
	RecordingURL string `json:"recording_url" validate:"required,url"`
	Description  string `json:"description"`
	TeacherID    string `json:"teacher_id" validate:"required"`
}

// RecordingService orchestrates class recording workflows.
type RecordingService struct {
	repo      recordingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecordingService constructs a RecordingService.
func NewRecordingService(repo recordingRepository, validate *validator.Validate, logger *zap.Logger) *RecordingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingService{repo: repo, validator: validate, logger: logger}
}

// List returns recordings with pagination metadata.
func (s *RecordingService) List(ctx context.Context, filter models.ClassRecordingFilter) ([]models.ClassRecordingDetail, *models.Pagination, error) {
	recordings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list recordings")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return recordings, pagination, nil
}

// Get returns one recording.
func (s *RecordingService) Get(ctx context.Context, id string) (*models.ClassRecordingDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recording not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recording")
	}
	return detail, nil
}

// Create persists a new recording entry.
func (s *RecordingService) Create(ctx context.Context, req RecordingRequest) (*models.ClassRecordingDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recording payload")
	}
	recording := &models.ClassRecording{
		BatchID:      req.BatchID,
		Title:        req.Title,
		RecordingURL: req.RecordingURL,
		Description:  req.Description,
		TeacherID:    req.TeacherID,
	}
	if err := s.repo.Create(ctx, recording); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create recording")
	}
	detail, err := s.repo.FindByID(ctx, recording.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created recording")
	}
	return detail, nil
}

// Update rewrites a recording entry.
func (s *RecordingService) Update(ctx context.Context, id string, req RecordingRequest) (*models.ClassRecordingDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recording payload")
	}
	recording := &models.ClassRecording{
		ID:           id,
		BatchID:      req.BatchID,
		Title:        req.Title,
		RecordingURL: req.RecordingURL,
		Description:  req.Description,
		TeacherID:    req.TeacherID,
	}
	if err := s.repo.Update(ctx, recording); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "recording not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update recording")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated recording")
	}
	return detail, nil
}

// Delete removes a recording entry.
func (s *RecordingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "recording not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete recording")
	}
	return nil
}
