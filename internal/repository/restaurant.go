package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dining-system/internal/domain"
)

type RestaurantRepositoryInterface interface {
	FindByCode(ctx context.Context, code string) (*domain.Restaurant, error)
}

type RestaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) RestaurantRepositoryInterface {
	return &RestaurantRepository{db: db}
}

// FindByCode loads a restaurant with its tables and shallow menu cards
// (id and name; the full card graph is MenuCardRepository's job).
// Returns nil when no restaurant has the code.
func (r *RestaurantRepository) FindByCode(ctx context.Context, code string) (*domain.Restaurant, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted, ReadOnly: true})
	if err != nil {
		return nil, accessErr("restaurant", code, err)
	}
	defer func() { _ = tx.Rollback() }()

	rest := &domain.Restaurant{}
	err = tx.QueryRowContext(ctx, `
		SELECT restaurant_code, name, city, street_name
		FROM restaurant WHERE restaurant_code = $1
	`, code).Scan(&rest.Code, &rest.Name, &rest.City, &rest.StreetName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tx.Commit()
	}
	if err != nil {
		return nil, accessErr("restaurant", code, err)
	}

	rest.Tables, err = tablesByRestaurantTx(ctx, tx, code)
	if err != nil {
		return nil, accessErr("restaurant", code, fmt.Errorf("failed to load tables: %w", err))
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT menu_card_id, name FROM menu_card
		WHERE restaurant_code = $1 ORDER BY menu_card_id
	`, code)
	if err != nil {
		return nil, accessErr("restaurant", code, fmt.Errorf("failed to load menu cards: %w", err))
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, accessErr("restaurant", code, err)
		}
		rest.MenuCards = append(rest.MenuCards, domain.NewMenuCard(id, name))
	}
	if err := rows.Err(); err != nil {
		return nil, accessErr("restaurant", code, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("restaurant", code, err)
	}
	return rest, nil
}

func tablesByRestaurantTx(ctx context.Context, tx *sql.Tx, code string) ([]*domain.Table, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT table_number, restaurant_code, table_order_id
		FROM object_table WHERE restaurant_code = $1 ORDER BY table_number
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTable(row interface{ Scan(...any) error }) (*domain.Table, error) {
	var number int
	var code string
	var orderID sql.NullInt64
	if err := row.Scan(&number, &code, &orderID); err != nil {
		return nil, err
	}
	t := &domain.Table{}
	t.SetTableCode(number, code)
	if orderID.Valid {
		id := int(orderID.Int64)
		t.CurrentOrderID = &id
	}
	return t, nil
}
