package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/MaximusTitan/cms-api/internal/models"
)

func TestBatchRepositoryCreateWithZoomLinkAndAssistants(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	assistants := []string{"teacher-1", "teacher-2"}
	write := &models.BatchWrite{
		Name:                 "Batch Alpha",
		Capacity:             30,
		Grade:                models.Some("grade-1"),
		Supervisor:           models.Some("teacher-9"),
		ZoomURL:              models.Some("https://zoom.example.com/j/111"),
		AssistantLecturerIDs: &assistants,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO zoom_links (id, url) VALUES ($1, $2)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO batches").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batch_assistants (batch_id, teacher_id) VALUES ($1, $2)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO batch_assistants (batch_id, teacher_id) VALUES ($1, $2)")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), write)
	require.NoError(t, err)
	require.NotEmpty(t, write.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryUpdateRollsBackWhenAssistantReplaceFails(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	assistants := []string{"teacher-1"}
	write := &models.BatchWrite{
		ID:                   "batch-1",
		Name:                 "Batch Alpha",
		Capacity:             30,
		ZoomURL:              models.Some("https://zoom.example.com/j/222"),
		AssistantLecturerIDs: &assistants,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT zoom_link_id FROM batches WHERE id = $1 FOR UPDATE")).
		WithArgs("batch-1").
		WillReturnRows(sqlmock.NewRows([]string{"zoom_link_id"}).AddRow("zoom-1"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE zoom_links SET url = $2 WHERE id = $1")).
		WithArgs("zoom-1", "https://zoom.example.com/j/222").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE batches SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM batch_assistants WHERE batch_id = $1")).
		WithArgs("batch-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO batch_assistants").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), write)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryUpdateClearsZoomLinkOnExplicitNull(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	write := &models.BatchWrite{
		ID:       "batch-1",
		Name:     "Batch Alpha",
		Capacity: 30,
		ZoomURL:  models.Null[string](),
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT zoom_link_id FROM batches WHERE id = $1 FOR UPDATE")).
		WithArgs("batch-1").
		WillReturnRows(sqlmock.NewRows([]string{"zoom_link_id"}).AddRow("zoom-1"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM zoom_links WHERE id = $1")).
		WithArgs("zoom-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE batches SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), write)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepositoryUpdateLeavesZoomLinkWhenFieldAbsent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBatchRepository(db)

	write := &models.BatchWrite{
		ID:       "batch-1",
		Name:     "Batch Alpha",
		Capacity: 25,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT zoom_link_id FROM batches WHERE id = $1 FOR UPDATE")).
		WithArgs("batch-1").
		WillReturnRows(sqlmock.NewRows([]string{"zoom_link_id"}).AddRow("zoom-1"))
	mock.ExpectExec("UPDATE batches SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), write)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
