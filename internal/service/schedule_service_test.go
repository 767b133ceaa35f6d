package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
)

type stubLessonCalendarRepo struct {
	byTeacher []models.LessonDetail
	byBatch   []models.LessonDetail
	err       error
}

func (s *stubLessonCalendarRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error) {
	return s.byTeacher, s.err
}

func (s *stubLessonCalendarRepo) ListByBatch(ctx context.Context, batchID string) ([]models.LessonDetail, error) {
	return s.byBatch, s.err
}

func lessonAt(id string, start, end time.Time) models.LessonDetail {
	return models.LessonDetail{Lesson: models.Lesson{ID: id, Name: "Algebra", StartTime: start, EndTime: end}}
}

func TestProjectRangeMovesSlotIntoCurrentWeek(t *testing.T) {
	// Reference now: Thursday 2026-02-12.
	now := time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC)
	// Stored slot: Wednesday 2025-09-03 09:00-10:30.
	start := time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 3, 10, 30, 0, 0, time.UTC)

	gotStart, gotEnd := projectRange(now, start, end)

	require.Equal(t, time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC), gotStart)
	require.Equal(t, time.Date(2026, 2, 11, 10, 30, 0, 0, time.UTC), gotEnd)
	require.Equal(t, time.Wednesday, gotStart.Weekday())
}

func TestProjectRangePreservesWeekdayAndTimeOfDay(t *testing.T) {
	now := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC) // a Monday
	for day := 0; day < 7; day++ {
		start := time.Date(2025, 6, 2, 14, 15, 0, 0, time.UTC).AddDate(0, 0, day) // 2025-06-02 is a Monday
		end := start.Add(90 * time.Minute)

		gotStart, gotEnd := projectRange(now, start, end)

		require.Equal(t, start.Weekday(), gotStart.Weekday())
		require.Equal(t, start.Hour(), gotStart.Hour())
		require.Equal(t, start.Minute(), gotStart.Minute())
		require.Equal(t, 90*time.Minute, gotEnd.Sub(gotStart))
	}
}

func TestProjectRangeIsIdempotentWithinWeek(t *testing.T) {
	now := time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC)
	start := time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 3, 10, 30, 0, 0, time.UTC)

	once1, once2 := projectRange(now, start, end)
	twice1, twice2 := projectRange(now, once1, once2)

	require.Equal(t, once1, twice1)
	require.Equal(t, once2, twice2)
}

func TestProjectRangeKeepsOvernightOffset(t *testing.T) {
	now := time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC)
	// Friday 22:00 to Saturday 01:00.
	start := time.Date(2025, 9, 5, 22, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 6, 1, 0, 0, 0, time.UTC)

	gotStart, gotEnd := projectRange(now, start, end)

	require.Equal(t, time.Friday, gotStart.Weekday())
	require.Equal(t, time.Saturday, gotEnd.Weekday())
	require.Equal(t, 3*time.Hour, gotEnd.Sub(gotStart))
}

func TestProjectRangePassesThroughDegenerateRange(t *testing.T) {
	now := time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC)
	start := time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)

	gotStart, gotEnd := projectRange(now, start, end)

	require.Equal(t, start, gotStart)
	require.Equal(t, end, gotEnd)
}

func TestTeacherCalendarProjectsLessons(t *testing.T) {
	repo := &stubLessonCalendarRepo{byTeacher: []models.LessonDetail{
		lessonAt("lesson-1",
			time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC),
			time.Date(2025, 9, 3, 10, 30, 0, 0, time.UTC)),
	}}
	svc := NewScheduleService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 12, 15, 0, 0, 0, time.UTC) }

	entries, err := svc.TeacherCalendar(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "Algebra", entries[0].Title)
	require.Equal(t, time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC), entries[0].Start)
}
