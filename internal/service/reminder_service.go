package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/pkg/jobs"
	"github.com/MaximusTitan/cms-api/pkg/mail"
)

type lessonDayLister interface {
	ListByDay(ctx context.Context, day models.Weekday) ([]models.LessonDetail, error)
}

type recipientsReader interface {
	Recipients(ctx context.Context, batchID string) (*models.AnnouncementRecipients, error)
}

var weekdayNames = map[time.Weekday]models.Weekday{
	time.Monday:    models.Monday,
	time.Tuesday:   models.Tuesday,
	time.Wednesday: models.Wednesday,
	time.Thursday:  models.Thursday,
	time.Friday:    models.Friday,
	time.Saturday:  models.Saturday,
	time.Sunday:    models.Sunday,
}

// ReminderService mails each batch a digest of its lessons for the day.
// A cron entry fires the sweep every morning.
type ReminderService struct {
	lessons    lessonDayLister
	recipients recipientsReader
	mailQueue  mailEnqueuer
	cron       *cron.Cron
	schedule   string
	logger     *zap.Logger
	now        func() time.Time
}

// NewReminderService constructs a ReminderService.
func NewReminderService(lessons lessonDayLister, recipients recipientsReader, mailQueue mailEnqueuer, schedule string, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		lessons:    lessons,
		recipients: recipients,
		mailQueue:  mailQueue,
		cron:       cron.New(),
		schedule:   schedule,
		logger:     logger,
		now:        time.Now,
	}
}

// Start registers the sweep with the cron scheduler and starts it.
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.SweepToday(ctx)
	}); err != nil {
		return fmt.Errorf("register reminder schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("lesson reminder schedule started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepToday collects today's lessons grouped by batch and enqueues one
// reminder mail per batch. Failures are logged per batch and the sweep
// keeps going.
func (s *ReminderService) SweepToday(ctx context.Context) {
	day := weekdayNames[s.now().Weekday()]
	lessons, err := s.lessons.ListByDay(ctx, day)
	if err != nil {
		s.logger.Error("lesson reminder sweep failed to list lessons", zap.String("day", string(day)), zap.Error(err))
		return
	}
	if len(lessons) == 0 {
		return
	}

	byBatch := make(map[string][]models.LessonDetail)
	for _, lesson := range lessons {
		byBatch[lesson.BatchID] = append(byBatch[lesson.BatchID], lesson)
	}

	for batchID, batchLessons := range byBatch {
		recipients, err := s.recipients.Recipients(ctx, batchID)
		if err != nil {
			s.logger.Warn("failed to collect reminder recipients", zap.String("batch_id", batchID), zap.Error(err))
			continue
		}
		if len(recipients.Emails) == 0 {
			continue
		}

		body := fmt.Sprintf("Lessons for %s today:\n", recipients.BatchName)
		for _, lesson := range batchLessons {
			body += fmt.Sprintf("- %s (%s) %s to %s\n",
				lesson.Name, lesson.SubjectName,
				lesson.StartTime.Format("15:04"), lesson.EndTime.Format("15:04"))
		}

		task := jobs.Task{
			ID:   uuid.NewString(),
			Kind: "lesson_reminder",
			Payload: mail.Message{
				To:      recipients.Emails,
				Subject: fmt.Sprintf("[%s] today's lessons", recipients.BatchName),
				Body:    body,
			},
		}
		if err := s.mailQueue.Enqueue(task); err != nil {
			s.logger.Warn("failed to enqueue lesson reminder", zap.String("batch_id", batchID), zap.Error(err))
		}
	}
}
