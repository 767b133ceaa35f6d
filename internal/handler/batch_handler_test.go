package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/internal/service"
	"github.com/MaximusTitan/cms-api/pkg/response"
)

type batchRepoStub struct {
	detail *models.BatchDetail
}

func (s *batchRepoStub) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, int, error) {
	return nil, 0, nil
}

func (s *batchRepoStub) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	return s.detail, nil
}

func (s *batchRepoStub) AssistantLecturerIDs(ctx context.Context, batchID string) ([]string, error) {
	return []string{"t-2"}, nil
}

func (s *batchRepoStub) Create(ctx context.Context, w *models.BatchWrite) error {
	w.ID = "b-1"
	return nil
}

func (s *batchRepoStub) Update(ctx context.Context, w *models.BatchWrite) error { return nil }

func (s *batchRepoStub) Delete(ctx context.Context, id string) error { return nil }

func (s *batchRepoStub) ListRefs(ctx context.Context) ([]dto.BatchRef, error) { return nil, nil }

func newBatchHandlerUnderTest(detail *models.BatchDetail) *BatchHandler {
	svc := service.NewBatchService(&batchRepoStub{detail: detail}, nil, nil, nil)
	return NewBatchHandler(svc, nil)
}

func postJSON(t *testing.T, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/batches", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return w, c
}

func TestBatchHandlerCreateReturnsActionResult(t *testing.T) {
	detail := &models.BatchDetail{Batch: models.Batch{ID: "b-1", Name: "Batch A", Capacity: 25}}
	handler := newBatchHandlerUnderTest(detail)

	w, c := postJSON(t, `{"name":"Batch A","capacity":25}`)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var result response.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Success)
	require.False(t, result.Error)
}

func TestBatchHandlerCreateRejectsMalformedBody(t *testing.T) {
	handler := newBatchHandlerUnderTest(nil)

	w, c := postJSON(t, `{"name":`)
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var result response.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.False(t, result.Success)
	require.True(t, result.Error)
	require.Equal(t, "invalid request body", result.Message)
}

func TestBatchHandlerCreateSurfacesValidationMessage(t *testing.T) {
	handler := newBatchHandlerUnderTest(nil)

	w, c := postJSON(t, `{"name":"Batch A","capacity":0}`)
	handler.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var result response.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.True(t, result.Error)
	require.NotEmpty(t, result.Message)
}
