package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type mockLessonRepo struct {
	createCalls int
	created     *models.Lesson
}

func (m *mockLessonRepo) List(ctx context.Context, filter models.LessonFilter) ([]models.LessonDetail, int, error) {
	return nil, 0, nil
}

func (m *mockLessonRepo) FindByID(ctx context.Context, id string) (*models.LessonDetail, error) {
	if m.created == nil || m.created.ID != id {
		return nil, errNoRows
	}
	return &models.LessonDetail{Lesson: *m.created}, nil
}

func (m *mockLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	m.createCalls++
	lesson.ID = "lesson-1"
	m.created = lesson
	return nil
}

func (m *mockLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error { return nil }
func (m *mockLessonRepo) Delete(ctx context.Context, id string) error             { return nil }

func validLessonRequest() LessonRequest {
	return LessonRequest{
		Name:      "Algebra",
		Day:       models.Wednesday,
		StartTime: time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 2, 11, 10, 30, 0, 0, time.UTC),
		SubjectID: "subject-1",
		BatchID:   "batch-1",
		TeacherID: "teacher-1",
	}
}

func TestLessonCreatePersistsValidSlot(t *testing.T) {
	repo := &mockLessonRepo{}
	svc := NewLessonService(repo, nil, nil)

	detail, err := svc.Create(context.Background(), validLessonRequest())

	require.NoError(t, err)
	require.Equal(t, "lesson-1", detail.ID)
	require.Equal(t, 1, repo.createCalls)
}

func TestLessonCreateRejectsUnknownWeekday(t *testing.T) {
	repo := &mockLessonRepo{}
	svc := NewLessonService(repo, nil, nil)

	req := validLessonRequest()
	req.Day = "FUNDAY"
	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
	require.Zero(t, repo.createCalls)
}

func TestLessonCreateRejectsInvertedTimeRange(t *testing.T) {
	repo := &mockLessonRepo{}
	svc := NewLessonService(repo, nil, nil)

	req := validLessonRequest()
	req.StartTime, req.EndTime = req.EndTime, req.StartTime
	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
	require.Zero(t, repo.createCalls)
}
