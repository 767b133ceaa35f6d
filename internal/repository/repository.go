package repository

import (
	"database/sql"
	"fmt"
)

// requireRowAffected turns a zero-row write into sql.ErrNoRows so the
// service layer can map it to a not-found error.
func requireRowAffected(result sql.Result, entity string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check %s rows: %w", entity, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
