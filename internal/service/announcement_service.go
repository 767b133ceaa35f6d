package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/jobs"
	"github.com/MaximusTitan/cms-api/pkg/mail"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.AnnouncementDetail, error)
	Create(ctx context.Context, a *models.Announcement) error
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id string) error
	Recipients(ctx context.Context, batchID string) (*models.AnnouncementRecipients, error)
}

type mailEnqueuer interface {
	Enqueue(task jobs.Task) error
}

// AnnouncementRequest is the create/update payload for an announcement.
type AnnouncementRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date" validate:"required"`
	BatchID     *string   `json:"batch_id"`
}

// AnnouncementService orchestrates announcement workflows. Creation
// fans the notice out by mail to everyone attached to the target batch;
// the fan-out runs on the background queue after the row is committed
// and never fails the request.
type AnnouncementService struct {
	repo      announcementRepository
	mailQueue mailEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs an AnnouncementService.
func NewAnnouncementService(repo announcementRepository, mailQueue mailEnqueuer, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, mailQueue: mailQueue, validator: validate, logger: logger}
}

// List returns announcements with pagination metadata.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, *models.Pagination, error) {
	announcements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pagination := &models.Pagination{Page: page, PageSize: models.DefaultPageSize, TotalCount: total}
	return announcements, pagination, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.AnnouncementDetail, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load announcement")
	}
	return detail, nil
}

// Create persists the announcement and, when it targets a batch,
// enqueues the mail fan-out.
func (s *AnnouncementService) Create(ctx context.Context, req AnnouncementRequest) (*models.AnnouncementDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	announcement := &models.Announcement{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		BatchID:     req.BatchID,
	}
	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}

	if req.BatchID != nil {
		s.notifyBatch(ctx, announcement, *req.BatchID)
	}

	detail, err := s.repo.FindByID(ctx, announcement.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load created announcement")
	}
	return detail, nil
}

// notifyBatch collects recipients and enqueues one mail task. Any
// failure here is logged and swallowed: the announcement is already
// committed.
func (s *AnnouncementService) notifyBatch(ctx context.Context, announcement *models.Announcement, batchID string) {
	if s.mailQueue == nil {
		return
	}
	recipients, err := s.repo.Recipients(ctx, batchID)
	if err != nil {
		s.logger.Warn("failed to collect announcement recipients",
			zap.String("announcement_id", announcement.ID), zap.String("batch_id", batchID), zap.Error(err))
		return
	}
	if len(recipients.Emails) == 0 {
		return
	}
	task := jobs.Task{
		ID:   uuid.NewString(),
		Kind: "announcement_mail",
		Payload: mail.Message{
			To:      recipients.Emails,
			Subject: fmt.Sprintf("[%s] %s", recipients.BatchName, announcement.Title),
			Body:    announcement.Description,
		},
	}
	if err := s.mailQueue.Enqueue(task); err != nil {
		s.logger.Warn("failed to enqueue announcement mail",
			zap.String("announcement_id", announcement.ID), zap.Error(err))
	}
}

// Update rewrites an announcement.
func (s *AnnouncementService) Update(ctx context.Context, id string, req AnnouncementRequest) (*models.AnnouncementDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}
	announcement := &models.Announcement{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		BatchID:     req.BatchID,
	}
	if err := s.repo.Update(ctx, announcement); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load updated announcement")
	}
	return detail, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	return nil
}
