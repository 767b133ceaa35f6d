package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
)

type mockLessonDayLister struct {
	lessons []models.LessonDetail
}

func (m *mockLessonDayLister) ListByDay(ctx context.Context, day models.Weekday) ([]models.LessonDetail, error) {
	return m.lessons, nil
}

type mockRecipientsReader struct {
	byBatch map[string]*models.AnnouncementRecipients
}

func (m *mockRecipientsReader) Recipients(ctx context.Context, batchID string) (*models.AnnouncementRecipients, error) {
	return m.byBatch[batchID], nil
}

func reminderLesson(batchID, name string) models.LessonDetail {
	return models.LessonDetail{
		Lesson: models.Lesson{
			BatchID:   batchID,
			Name:      name,
			StartTime: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 2, 11, 10, 30, 0, 0, time.UTC),
		},
		SubjectName: "Algebra",
	}
}

func TestSweepTodayEnqueuesOneMailPerBatch(t *testing.T) {
	lessons := &mockLessonDayLister{lessons: []models.LessonDetail{
		reminderLesson("batch-1", "Algebra I"),
		reminderLesson("batch-1", "Algebra II"),
		reminderLesson("batch-2", "Geometry"),
	}}
	recipients := &mockRecipientsReader{byBatch: map[string]*models.AnnouncementRecipients{
		"batch-1": {BatchName: "Batch Alpha", Emails: []string{"a@example.com"}},
		"batch-2": {BatchName: "Batch Beta", Emails: []string{"b@example.com"}},
	}}
	queue := &mockMailQueue{}
	svc := NewReminderService(lessons, recipients, queue, "0 6 * * *", nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 11, 6, 0, 0, 0, time.UTC) }

	svc.SweepToday(context.Background())

	require.Len(t, queue.tasks, 2)
}

func TestSweepTodaySkipsBatchesWithoutRecipients(t *testing.T) {
	lessons := &mockLessonDayLister{lessons: []models.LessonDetail{
		reminderLesson("batch-1", "Algebra I"),
	}}
	recipients := &mockRecipientsReader{byBatch: map[string]*models.AnnouncementRecipients{
		"batch-1": {BatchName: "Batch Alpha"},
	}}
	queue := &mockMailQueue{}
	svc := NewReminderService(lessons, recipients, queue, "0 6 * * *", nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 11, 6, 0, 0, 0, time.UTC) }

	svc.SweepToday(context.Background())

	require.Empty(t, queue.tasks)
}
