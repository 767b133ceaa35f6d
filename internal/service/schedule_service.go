package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type lessonCalendarRepository interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.LessonDetail, error)
}

type eventCalendarRepository interface {
	ListBetween(ctx context.Context, from, to time.Time, batchID string) ([]models.Event, error)
}

// CalendarEntry is one renderable slot on the weekly calendar.
type CalendarEntry struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ScheduleService projects stored weekly lesson slots onto the current
// Monday-to-Sunday week and merges one-off events into the view.
type ScheduleService struct {
	lessons lessonCalendarRepository
	events  eventCalendarRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(lessons lessonCalendarRepository, events eventCalendarRepository, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{lessons: lessons, events: events, logger: logger, now: time.Now}
}

// startOfWeek returns midnight on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	dayIndex := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -dayIndex)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// projectRange moves a stored start/end pair onto the week containing
// now, keeping the weekday index and time of day of both endpoints. An
// end that falls on a later calendar day than its start keeps the same
// day offset, so overnight slots stay overnight. Degenerate ranges with
// start at or after end pass through untouched.
func projectRange(now, start, end time.Time) (time.Time, time.Time) {
	if !start.Before(end) {
		return start, end
	}

	monday := startOfWeek(now)
	dayIndex := (int(start.Weekday()) + 6) % 7

	startDate := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDate := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	spanDays := int(endDate.Sub(startDate).Hours() / 24)

	newStart := time.Date(monday.Year(), monday.Month(), monday.Day()+dayIndex,
		start.Hour(), start.Minute(), start.Second(), start.Nanosecond(), start.Location())
	newEnd := time.Date(monday.Year(), monday.Month(), monday.Day()+dayIndex+spanDays,
		end.Hour(), end.Minute(), end.Second(), end.Nanosecond(), end.Location())
	return newStart, newEnd
}

func (s *ScheduleService) project(lessons []models.LessonDetail) []CalendarEntry {
	now := s.now()
	entries := make([]CalendarEntry, 0, len(lessons))
	for _, lesson := range lessons {
		start, end := projectRange(now, lesson.StartTime, lesson.EndTime)
		entries = append(entries, CalendarEntry{
			ID:    lesson.ID,
			Title: lesson.Name,
			Start: start,
			End:   end,
		})
	}
	return entries
}

// TeacherCalendar returns the teacher's lessons projected onto the
// current week.
func (s *ScheduleService) TeacherCalendar(ctx context.Context, teacherID string) ([]CalendarEntry, error) {
	lessons, err := s.lessons.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher lessons")
	}
	return s.project(lessons), nil
}

// BatchCalendar returns the batch's lessons projected onto the current
// week, with one-off events inside the week appended.
func (s *ScheduleService) BatchCalendar(ctx context.Context, batchID string) ([]CalendarEntry, error) {
	lessons, err := s.lessons.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batch lessons")
	}
	entries := s.project(lessons)

	if s.events != nil {
		monday := startOfWeek(s.now())
		events, err := s.events.ListBetween(ctx, monday, monday.AddDate(0, 0, 7), batchID)
		if err != nil {
			s.logger.Warn("failed to load events for calendar", zap.String("batch_id", batchID), zap.Error(err))
		} else {
			for _, event := range events {
				entries = append(entries, CalendarEntry{
					ID:    event.ID,
					Title: event.Title,
					Start: event.StartTime,
					End:   event.EndTime,
				})
			}
		}
	}
	return entries, nil
}
