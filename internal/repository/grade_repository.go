package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
)

// GradeRepository reads the grade lookup table. Grades are seeded by
// migration and never written through the API.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns all grades in level order.
func (r *GradeRepository) List(ctx context.Context) ([]models.Grade, error) {
	const query = `SELECT id, level FROM grades ORDER BY level`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// ListRefs returns the selector entries grade-dependent forms need.
func (r *GradeRepository) ListRefs(ctx context.Context) ([]dto.GradeRef, error) {
	const query = `SELECT id, level FROM grades ORDER BY level`
	var refs []dto.GradeRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list grade refs: %w", err)
	}
	return refs, nil
}
