package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
	"github.com/MaximusTitan/cms-api/pkg/jobs"
	"github.com/MaximusTitan/cms-api/pkg/mail"
)

type mockAnnouncementRepo struct {
	created       *models.Announcement
	recipients    *models.AnnouncementRecipients
	recipientsErr error
}

func (m *mockAnnouncementRepo) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.AnnouncementDetail, int, error) {
	return nil, 0, nil
}

func (m *mockAnnouncementRepo) FindByID(ctx context.Context, id string) (*models.AnnouncementDetail, error) {
	if m.created == nil || m.created.ID != id {
		return nil, errNoRows
	}
	return &models.AnnouncementDetail{Announcement: *m.created}, nil
}

func (m *mockAnnouncementRepo) Create(ctx context.Context, a *models.Announcement) error {
	a.ID = "ann-1"
	m.created = a
	return nil
}

func (m *mockAnnouncementRepo) Update(ctx context.Context, a *models.Announcement) error { return nil }
func (m *mockAnnouncementRepo) Delete(ctx context.Context, id string) error              { return nil }

func (m *mockAnnouncementRepo) Recipients(ctx context.Context, batchID string) (*models.AnnouncementRecipients, error) {
	if m.recipientsErr != nil {
		return nil, m.recipientsErr
	}
	return m.recipients, nil
}

type mockMailQueue struct {
	tasks []jobs.Task
	err   error
}

func (m *mockMailQueue) Enqueue(task jobs.Task) error {
	if m.err != nil {
		return m.err
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func announcementReq(batchID *string) AnnouncementRequest {
	return AnnouncementRequest{
		Title:       "Exam week",
		Description: "Midterms start Monday.",
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		BatchID:     batchID,
	}
}

func TestAnnouncementCreateEnqueuesBatchMail(t *testing.T) {
	batchID := "batch-1"
	repo := &mockAnnouncementRepo{recipients: &models.AnnouncementRecipients{
		BatchName: "Batch Alpha",
		Emails:    []string{"a@example.com", "b@example.com"},
	}}
	queue := &mockMailQueue{}
	svc := NewAnnouncementService(repo, queue, nil, nil)

	detail, err := svc.Create(context.Background(), announcementReq(&batchID))

	require.NoError(t, err)
	require.Equal(t, "ann-1", detail.ID)
	require.Len(t, queue.tasks, 1)
	msg, ok := queue.tasks[0].Payload.(mail.Message)
	require.True(t, ok)
	require.Len(t, msg.To, 2)
	require.Contains(t, msg.Subject, "Batch Alpha")
}

func TestAnnouncementCreateSucceedsWhenMailEnqueueFails(t *testing.T) {
	batchID := "batch-1"
	repo := &mockAnnouncementRepo{recipients: &models.AnnouncementRecipients{
		BatchName: "Batch Alpha",
		Emails:    []string{"a@example.com"},
	}}
	queue := &mockMailQueue{err: errors.New("queue stopped")}
	svc := NewAnnouncementService(repo, queue, nil, nil)

	_, err := svc.Create(context.Background(), announcementReq(&batchID))

	require.NoError(t, err)
}

func TestAnnouncementCreateSucceedsWhenRecipientsFail(t *testing.T) {
	batchID := "batch-1"
	repo := &mockAnnouncementRepo{recipientsErr: errors.New("db gone")}
	queue := &mockMailQueue{}
	svc := NewAnnouncementService(repo, queue, nil, nil)

	_, err := svc.Create(context.Background(), announcementReq(&batchID))

	require.NoError(t, err)
	require.Empty(t, queue.tasks)
}

func TestAnnouncementCreateWithoutBatchSkipsMail(t *testing.T) {
	repo := &mockAnnouncementRepo{}
	queue := &mockMailQueue{}
	svc := NewAnnouncementService(repo, queue, nil, nil)

	_, err := svc.Create(context.Background(), announcementReq(nil))

	require.NoError(t, err)
	require.Empty(t, queue.tasks)
}
