package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/internal/service"
)

type calendarLessonsStub struct {
	lessons []models.LessonDetail
}

func (s *calendarLessonsStub) ListByTeacher(ctx context.Context, teacherID string) ([]models.LessonDetail, error) {
	return s.lessons, nil
}

func (s *calendarLessonsStub) ListByBatch(ctx context.Context, batchID string) ([]models.LessonDetail, error) {
	return s.lessons, nil
}

type calendarEventsStub struct{}

func (s *calendarEventsStub) ListBetween(ctx context.Context, from, to time.Time, batchID string) ([]models.Event, error) {
	return nil, nil
}

func newCalendarRequest(t *testing.T, target string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	return w, c
}

func TestCalendarHandlerRequiresOneOwner(t *testing.T) {
	svc := service.NewScheduleService(&calendarLessonsStub{}, &calendarEventsStub{}, nil)
	handler := NewCalendarHandler(svc)

	w, c := newCalendarRequest(t, "/calendar")
	handler.Week(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, c = newCalendarRequest(t, "/calendar?teacherId=t1&batchId=b1")
	handler.Week(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerProjectsTeacherLessons(t *testing.T) {
	lesson := models.LessonDetail{
		Lesson: models.Lesson{
			ID:        "lesson-1",
			Name:      "Algebra",
			Day:       models.Wednesday,
			StartTime: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2024, 1, 3, 10, 30, 0, 0, time.UTC),
		},
	}
	svc := service.NewScheduleService(&calendarLessonsStub{lessons: []models.LessonDetail{lesson}}, &calendarEventsStub{}, nil)
	handler := NewCalendarHandler(svc)

	w, c := newCalendarRequest(t, "/calendar?teacherId=t1")
	handler.Week(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []service.CalendarEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	require.Equal(t, "lesson-1", envelope.Data[0].ID)
	require.Equal(t, time.Wednesday, envelope.Data[0].Start.Weekday())
	require.Equal(t, 9, envelope.Data[0].Start.Hour())
}
