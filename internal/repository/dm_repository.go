package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/MaximusTitan/cms-api/internal/dto"
	"github.com/MaximusTitan/cms-api/internal/models"
)

// DeliveryManagerRepository manages persistence for delivery managers.
type DeliveryManagerRepository struct {
	db *sqlx.DB
}

// NewDeliveryManagerRepository constructs a DeliveryManagerRepository.
func NewDeliveryManagerRepository(db *sqlx.DB) *DeliveryManagerRepository {
	return &DeliveryManagerRepository{db: db}
}

// List returns delivery managers matching the provided filters.
func (r *DeliveryManagerRepository) List(ctx context.Context, filter models.DeliveryManagerFilter) ([]models.DeliveryManagerDetail, int, error) {
	base := "FROM delivery_managers dm"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(dm.name) LIKE $%d OR LOWER(dm.surname) LIKE $%d OR LOWER(dm.username) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"name":       "dm.name",
		"surname":    "dm.surname",
		"created_at": "dm.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "dm.created_at"
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

	query := fmt.Sprintf(`SELECT dm.id, dm.username, dm.name, dm.surname, dm.email, dm.phone, dm.address, dm.img, dm.sex, dm.birthday, dm.created_at, dm.updated_at,
        (SELECT COUNT(*) FROM batches b WHERE b.dm_id = dm.id) AS batch_count
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var managers []models.DeliveryManagerDetail
	if err := r.db.SelectContext(ctx, &managers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list delivery managers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count delivery managers: %w", err)
	}
	return managers, total, nil
}

// FindByID fetches a delivery manager detail by ID.
func (r *DeliveryManagerRepository) FindByID(ctx context.Context, id string) (*models.DeliveryManagerDetail, error) {
	const query = `SELECT dm.id, dm.username, dm.name, dm.surname, dm.email, dm.phone, dm.address, dm.img, dm.sex, dm.birthday, dm.created_at, dm.updated_at,
        (SELECT COUNT(*) FROM batches b WHERE b.dm_id = dm.id) AS batch_count
        FROM delivery_managers dm WHERE dm.id = $1`
	var detail models.DeliveryManagerDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a delivery manager row keyed by the identity-provider user id.
func (r *DeliveryManagerRepository) Create(ctx context.Context, manager *models.DeliveryManager) error {
	now := time.Now().UTC()
	manager.CreatedAt = now
	manager.UpdatedAt = now
	const query = `INSERT INTO delivery_managers (id, username, name, surname, email, phone, address, img, sex, birthday, created_at, updated_at)
        VALUES (:id, :username, :name, :surname, :email, :phone, :address, :img, :sex, :birthday, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, manager); err != nil {
		return fmt.Errorf("insert delivery manager: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a delivery manager row.
func (r *DeliveryManagerRepository) Update(ctx context.Context, manager *models.DeliveryManager) error {
	manager.UpdatedAt = time.Now().UTC()
	const query = `UPDATE delivery_managers SET username = :username, name = :name, surname = :surname, email = :email,
        phone = :phone, address = :address, img = :img, sex = :sex, birthday = :birthday, updated_at = :updated_at
        WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, manager)
	if err != nil {
		return fmt.Errorf("update delivery manager: %w", err)
	}
	return requireRowAffected(result, "delivery manager")
}

// Delete removes a delivery manager row.
func (r *DeliveryManagerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM delivery_managers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete delivery manager: %w", err)
	}
	return requireRowAffected(result, "delivery manager")
}

// ListRefs returns the selector entries delivery-manager forms need.
func (r *DeliveryManagerRepository) ListRefs(ctx context.Context) ([]dto.DMRef, error) {
	const query = `SELECT id, name, surname FROM delivery_managers ORDER BY surname, name`
	var refs []dto.DMRef
	if err := r.db.SelectContext(ctx, &refs, query); err != nil {
		return nil, fmt.Errorf("list delivery manager refs: %w", err)
	}
	return refs, nil
}
