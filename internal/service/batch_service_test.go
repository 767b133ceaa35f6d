package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
)

type mockBatchRepo struct {
	createCalls int
	updateCalls int
	lastWrite   *models.BatchWrite
	detail      *models.BatchDetail
	assistants  []string
}

func (m *mockBatchRepo) List(ctx context.Context, filter models.BatchFilter) ([]models.BatchDetail, int, error) {
	return nil, 0, nil
}

func (m *mockBatchRepo) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	if m.detail == nil {
		return nil, errNoRows
	}
	return m.detail, nil
}

func (m *mockBatchRepo) AssistantLecturerIDs(ctx context.Context, batchID string) ([]string, error) {
	return m.assistants, nil
}

func (m *mockBatchRepo) Create(ctx context.Context, w *models.BatchWrite) error {
	m.createCalls++
	m.lastWrite = w
	w.ID = "batch-created"
	m.detail = &models.BatchDetail{Batch: models.Batch{ID: w.ID, Name: w.Name, Capacity: w.Capacity}}
	return nil
}

func (m *mockBatchRepo) Update(ctx context.Context, w *models.BatchWrite) error {
	m.updateCalls++
	m.lastWrite = w
	return nil
}

func (m *mockBatchRepo) Delete(ctx context.Context, id string) error { return nil }

func (m *mockBatchRepo) ListRefs(ctx context.Context) ([]dto.BatchRef, error) { return nil, nil }

func TestBatchCreatePassesThreeStateLinksThrough(t *testing.T) {
	repo := &mockBatchRepo{}
	invalidator := &mockInvalidator{}
	svc := NewBatchService(repo, invalidator, nil, nil)

	assistants := []string{"teacher-1", "teacher-2"}
	detail, err := svc.Create(context.Background(), BatchRequest{
		Name:                 "Batch Alpha",
		Capacity:             30,
		Grade:                models.Some("grade-1"),
		ZoomURL:              models.Some("https://zoom.example.com/j/111"),
		AssistantLecturerIDs: &assistants,
	})

	require.NoError(t, err)
	require.Equal(t, "batch-created", detail.ID)
	require.Equal(t, 1, repo.createCalls)
	require.True(t, repo.lastWrite.Grade.Set)
	require.True(t, repo.lastWrite.ZoomURL.Valid)
	require.False(t, repo.lastWrite.Supervisor.Set)
	require.Equal(t, assistants, *repo.lastWrite.AssistantLecturerIDs)
	require.Equal(t, 1, invalidator.calls)
}

func TestBatchCreateRejectsZeroCapacity(t *testing.T) {
	repo := &mockBatchRepo{}
	svc := NewBatchService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), BatchRequest{Name: "Batch Alpha", Capacity: 0})

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
	require.Zero(t, repo.createCalls)
}

func TestBatchCreateRejectsMalformedZoomURL(t *testing.T) {
	repo := &mockBatchRepo{}
	svc := NewBatchService(repo, nil, nil, nil)

	_, err := svc.Create(context.Background(), BatchRequest{
		Name:     "Batch Alpha",
		Capacity: 20,
		ZoomURL:  models.Some("not a url at all"),
	})

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
	require.Zero(t, repo.createCalls)
}

func TestBatchUpdateClearedZoomURLSkipsURLCheck(t *testing.T) {
	repo := &mockBatchRepo{detail: &models.BatchDetail{Batch: models.Batch{ID: "batch-1"}}}
	svc := NewBatchService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "batch-1", BatchRequest{
		Name:     "Batch Alpha",
		Capacity: 25,
		ZoomURL:  models.Null[string](),
	})

	require.NoError(t, err)
	require.Equal(t, 1, repo.updateCalls)
	require.True(t, repo.lastWrite.ZoomURL.Set)
	require.False(t, repo.lastWrite.ZoomURL.Valid)
}

func TestBatchUpdateKeepsAbsentLinksUntouched(t *testing.T) {
	repo := &mockBatchRepo{detail: &models.BatchDetail{Batch: models.Batch{ID: "batch-1"}}}
	svc := NewBatchService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), "batch-1", BatchRequest{
		Name:            "Batch Alpha",
		Capacity:        25,
		DeliveryManager: models.Null[string](),
	})

	require.NoError(t, err)
	require.Equal(t, 1, repo.updateCalls)
	require.False(t, repo.lastWrite.Grade.Set)
	require.False(t, repo.lastWrite.ZoomURL.Set)
	require.True(t, repo.lastWrite.DeliveryManager.Set)
	require.False(t, repo.lastWrite.DeliveryManager.Valid)
	require.Nil(t, repo.lastWrite.AssistantLecturerIDs)
}
