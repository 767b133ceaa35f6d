package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/models"
)

// StudentRepository manages persistence for students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students s
JOIN batches b ON b.id = s.batch_id
LEFT JOIN grades g ON g.id = s.grade_id`
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR LOWER(s.surname) LIKE $%d OR LOWER(s.username) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("s.batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if filter.GradeID != "" {
		conditions = append(conditions, fmt.Sprintf("s.grade_id = $%d", len(args)+1))
		args = append(args, filter.GradeID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "s.name",
		"surname":    "s.surname",
		"created_at": "s.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := models.DefaultPageSize
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.username, s.name, s.surname, s.email, s.phone, s.address, s.img, s.sex, s.birthday, s.grade_id, s.batch_id, s.created_at, s.updated_at,
        b.name AS batch_name, g.level AS grade_level
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	const query = `SELECT s.id, s.username, s.name, s.surname, s.email, s.phone, s.address, s.img, s.sex, s.birthday, s.grade_id, s.batch_id, s.created_at, s.updated_at,
        b.name AS batch_name, g.level AS grade_level
        FROM students s
        JOIN batches b ON b.id = s.batch_id
        LEFT JOIN grades g ON g.id = s.grade_id
        WHERE s.id = $1`
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CountInBatch returns the current enrollment of a batch.
func (r *StudentRepository) CountInBatch(ctx context.Context, batchID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM students WHERE batch_id = $1`, batchID); err != nil {
		return 0, fmt.Errorf("count students in batch: %w", err)
	}
	return count, nil
}

// Create inserts the student inside a transaction that locks the target
// batch row and re-checks enrollment against capacity, so two concurrent
// inserts into the last seat cannot both succeed. Returns ErrBatchFull
// when the batch is at capacity.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin student create: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var capacity int
	if err = tx.GetContext(ctx, &capacity, `SELECT capacity FROM batches WHERE id = $1 FOR UPDATE`, student.BatchID); err != nil {
		return err
	}
	var enrolled int
	if err = tx.GetContext(ctx, &enrolled, `SELECT COUNT(*) FROM students WHERE batch_id = $1`, student.BatchID); err != nil {
		return fmt.Errorf("count enrollment: %w", err)
	}
	if enrolled >= capacity {
		err = ErrBatchFull
		return err
	}

	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const insertQuery = `INSERT INTO students (id, username, name, surname, email, phone, address, img, sex, birthday, grade_id, batch_id, created_at, updated_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :sex, :birthday, :grade_id, :batch_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertQuery, student); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit student create: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a student row.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, sex = :sex, birthday = :birthday,
        grade_id = :grade_id, batch_id = :batch_id, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return requireRowAffected(result, "student")
}

// Delete removes a student row.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return requireRowAffected(result, "student")
}
