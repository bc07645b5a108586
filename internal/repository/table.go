package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dining-system/internal/domain"
)

type TableRepositoryInterface interface {
	FindByCode(ctx context.Context, number int, restaurantCode string) (*domain.Table, error)
	BindTableOrder(ctx context.Context, number int, restaurantCode string, tableOrderID int) error
}

type TableRepository struct {
	db *sql.DB
}

func NewTableRepository(db *sql.DB) TableRepositoryInterface {
	return &TableRepository{db: db}
}

func tableKey(number int, restaurantCode string) string {
	return fmt.Sprintf("%d%s", number, restaurantCode)
}

// FindByCode resolves a table by its composite key. Nil when unknown.
func (r *TableRepository) FindByCode(ctx context.Context, number int, restaurantCode string) (*domain.Table, error) {
	key := tableKey(number, restaurantCode)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true})
	if err != nil {
		return nil, accessErr("table", key, err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT table_number, restaurant_code, table_order_id
		FROM object_table WHERE table_number = $1 AND restaurant_code = $2
	`, number, restaurantCode)
	t, err := scanTable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tx.Commit()
	}
	if err != nil {
		return nil, accessErr("table", key, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("table", key, err)
	}
	return t, nil
}

// BindTableOrder points the table at its current table order. The
// table side is only a lookup; the order's lifetime is managed by the
// order repositories.
func (r *TableRepository) BindTableOrder(ctx context.Context, number int, restaurantCode string, tableOrderID int) error {
	key := tableKey(number, restaurantCode)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return accessErr("table", key, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE object_table SET table_order_id = $3
		WHERE table_number = $1 AND restaurant_code = $2
	`, number, restaurantCode, tableOrderID)
	if err != nil {
		return accessErr("table", key, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return accessErr("table", key, sql.ErrNoRows)
	}

	if err := tx.Commit(); err != nil {
		return accessErr("table", key, err)
	}
	return nil
}
