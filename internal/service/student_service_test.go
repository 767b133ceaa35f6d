package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/internal/repository"
	appErrors "github.com/MaximusTitan/cms-api/pkg/errors"
	"github.com/MaximusTitan/cms-api/pkg/identity"
)

type mockStudentRepo struct {
	createCalls int
	createErr   error
	students    map[string]*models.StudentDetail
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if detail, ok := m.students[id]; ok {
		return detail, nil
	}
	return nil, errNoRows
}

func (m *mockStudentRepo) CountInBatch(ctx context.Context, batchID string) (int, error) {
	return 0, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if m.students == nil {
		m.students = map[string]*models.StudentDetail{}
	}
	m.students[student.ID] = &models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error { return nil }
func (m *mockStudentRepo) Delete(ctx context.Context, id string) error               { return nil }

type mockBatchReader struct {
	batch     *models.BatchDetail
	findCalls int
}

func (m *mockBatchReader) FindByID(ctx context.Context, id string) (*models.BatchDetail, error) {
	m.findCalls++
	if m.batch == nil {
		return nil, errNoRows
	}
	return m.batch, nil
}

type mockProvider struct {
	createCalls int
	deleteCalls int
	createErr   error
	deleteErr   error
	userID      string
}

func (m *mockProvider) CreateUser(ctx context.Context, params identity.CreateUserParams) (string, error) {
	m.createCalls++
	if m.createErr != nil {
		return "", m.createErr
	}
	if m.userID == "" {
		return "user_generated", nil
	}
	return m.userID, nil
}

func (m *mockProvider) UpdateUser(ctx context.Context, id string, params identity.UpdateUserParams) error {
	return nil
}

func (m *mockProvider) DeleteUser(ctx context.Context, id string) error {
	m.deleteCalls++
	return m.deleteErr
}

type mockInvalidator struct {
	calls int
	err   error
}

func (m *mockInvalidator) Invalidate(ctx context.Context) error {
	m.calls++
	return m.err
}

func validStudentRequest(batchID string) StudentRequest {
	return StudentRequest{
		Username: "jane.doe",
		Password: "s3cret-pass",
		Name:     "Jane",
		Surname:  "Doe",
		Address:  "12 North Road",
		Sex:      models.SexFemale,
		Birthday: time.Date(2008, 4, 12, 0, 0, 0, 0, time.UTC),
		BatchID:  batchID,
	}
}

func batchWithSeats(capacity, enrolled int) *models.BatchDetail {
	return &models.BatchDetail{
		Batch:         models.Batch{ID: "batch-1", Name: "Batch Alpha", Capacity: capacity},
		EnrolledCount: enrolled,
	}
}

func TestStudentCreateShortCircuitsOnZeroCapacity(t *testing.T) {
	repo := &mockStudentRepo{}
	provider := &mockProvider{}
	batches := &mockBatchReader{batch: batchWithSeats(0, 0)}
	svc := NewStudentService(repo, batches, provider, nil, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest("batch-1"))

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrCapacityFull.Code))
	require.Zero(t, provider.createCalls)
	require.Zero(t, repo.createCalls)
}

func TestStudentCreateProvisionsIdentityThenRow(t *testing.T) {
	repo := &mockStudentRepo{}
	provider := &mockProvider{userID: "user_42"}
	batches := &mockBatchReader{batch: batchWithSeats(30, 3)}
	invalidator := &mockInvalidator{}
	svc := NewStudentService(repo, batches, provider, invalidator, nil, nil)

	detail, err := svc.Create(context.Background(), validStudentRequest("batch-1"))

	require.NoError(t, err)
	require.Equal(t, "user_42", detail.ID)
	require.Equal(t, 1, provider.createCalls)
	require.Equal(t, 1, repo.createCalls)
	require.Equal(t, 1, invalidator.calls)
}

func TestStudentCreateCompensatesIdentityOnLocalFailure(t *testing.T) {
	repo := &mockStudentRepo{createErr: errors.New("disk on fire")}
	provider := &mockProvider{userID: "user_42"}
	batches := &mockBatchReader{batch: batchWithSeats(30, 3)}
	svc := NewStudentService(repo, batches, provider, nil, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest("batch-1"))

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrInternal.Code))
	require.Equal(t, 1, provider.deleteCalls)
}

func TestStudentCreateMapsRaceToCapacityError(t *testing.T) {
	repo := &mockStudentRepo{createErr: repository.ErrBatchFull}
	provider := &mockProvider{userID: "user_42"}
	batches := &mockBatchReader{batch: batchWithSeats(30, 29)}
	svc := NewStudentService(repo, batches, provider, nil, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest("batch-1"))

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrCapacityFull.Code))
	require.Equal(t, 1, provider.deleteCalls)
}

func TestStudentCreateReportsInconsistencyWhenCompensationFails(t *testing.T) {
	repo := &mockStudentRepo{createErr: errors.New("disk on fire")}
	provider := &mockProvider{userID: "user_42", deleteErr: errors.New("provider down")}
	batches := &mockBatchReader{batch: batchWithSeats(30, 3)}
	svc := NewStudentService(repo, batches, provider, nil, nil, nil)

	_, err := svc.Create(context.Background(), validStudentRequest("batch-1"))

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrInconsistent.Code))
}

func TestStudentCreateRejectsInvalidPayload(t *testing.T) {
	repo := &mockStudentRepo{}
	provider := &mockProvider{}
	batches := &mockBatchReader{batch: batchWithSeats(30, 3)}
	svc := NewStudentService(repo, batches, provider, nil, nil, nil)

	req := validStudentRequest("batch-1")
	req.Username = ""
	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	require.True(t, appErrors.Is(err, appErrors.ErrValidation.Code))
	require.Zero(t, provider.createCalls)
	require.Zero(t, batches.findCalls)
}
