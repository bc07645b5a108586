package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dining-system/internal/domain"
)

type TableOrderRepositoryInterface interface {
	FindByID(ctx context.Context, id int) (*domain.TableOrder, error)
	Insert(ctx context.Context, order *domain.TableOrder) error
	Update(ctx context.Context, order *domain.TableOrder) error
	FindAllVisibleToKitchen(ctx context.Context) ([]*domain.TableOrder, error)
	ConfirmAndSend(ctx context.Context, order *domain.TableOrder) error
}

type TableOrderRepository struct {
	db *sql.DB
}

func NewTableOrderRepository(db *sql.DB) TableOrderRepositoryInterface {
	return &TableOrderRepository{db: db}
}

const tableOrderColumns = `
	table_order_id, time_of_arrival, is_closed, payment_type,
	total_price, amount_paid, is_sent_to_kitchen, is_requesting_service,
	preparation_minutes`

// FindByID loads one table order with its full personal-order graph.
// Nil when the id is unknown.
func (r *TableOrderRepository) FindByID(ctx context.Context, id int) (*domain.TableOrder, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, accessErr("table order", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT`+tableOrderColumns+` FROM table_order WHERE table_order_id = $1`, id)
	order, err := scanTableOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tx.Commit()
	}
	if err != nil {
		return nil, accessErr("table order", id, err)
	}

	if order.PersonalOrders, err = personalOrdersByTableOrderTx(ctx, tx, order.ID); err != nil {
		return nil, accessErr("table order", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("table order", id, err)
	}
	return order, nil
}

// Insert creates the table order row, assigning its ID. Personal
// orders are persisted separately as guests complete them.
func (r *TableOrderRepository) Insert(ctx context.Context, order *domain.TableOrder) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return accessErr("table order", 0, err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO table_order
		    (time_of_arrival, is_closed, payment_type, total_price, amount_paid,
		     is_sent_to_kitchen, is_requesting_service, preparation_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING table_order_id
	`, order.TimeOfArrival, order.Closed, string(order.PaymentType), order.TotalPrice,
		order.AmountPaid, order.SentToKitchen, order.RequestingService,
		order.PreparationMinutes).Scan(&order.ID)
	if err != nil {
		return accessErr("table order", 0, fmt.Errorf("failed to insert table order: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return accessErr("table order", order.ID, err)
	}
	return nil
}

// Update writes the order's flags and totals. Owned personal orders
// are not touched; they have their own repository.
func (r *TableOrderRepository) Update(ctx context.Context, order *domain.TableOrder) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return accessErr("table order", order.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateTableOrderTx(ctx, tx, order); err != nil {
		return accessErr("table order", order.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return accessErr("table order", order.ID, err)
	}
	return nil
}

// FindAllVisibleToKitchen returns every order the kitchen display
// should show: sent to kitchen and not yet closed, oldest arrival
// first, each with its full graph.
func (r *TableOrderRepository) FindAllVisibleToKitchen(ctx context.Context) ([]*domain.TableOrder, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, accessErr("table order", "kitchen", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT`+tableOrderColumns+` FROM table_order
		WHERE is_sent_to_kitchen AND NOT is_closed
		ORDER BY time_of_arrival
	`)
	if err != nil {
		return nil, accessErr("table order", "kitchen", err)
	}
	var orders []*domain.TableOrder
	for rows.Next() {
		order, err := scanTableOrder(rows)
		if err != nil {
			rows.Close()
			return nil, accessErr("table order", "kitchen", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, accessErr("table order", "kitchen", err)
	}
	rows.Close()

	for _, order := range orders {
		if order.PersonalOrders, err = personalOrdersByTableOrderTx(ctx, tx, order.ID); err != nil {
			return nil, accessErr("table order", order.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("table order", "kitchen", err)
	}
	return orders, nil
}

// ConfirmAndSend dispatches an order to the kitchen: the flag/total
// update and the insert of every not-yet-persisted personal order
// commit as one atomic unit. A failed insert rolls back the whole
// confirmation, so a half-confirmed table order can never be observed.
func (r *TableOrderRepository) ConfirmAndSend(ctx context.Context, order *domain.TableOrder) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return accessErr("table order", order.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	var closed bool
	err = tx.QueryRowContext(ctx, `
		SELECT is_closed FROM table_order WHERE table_order_id = $1 FOR UPDATE
	`, order.ID).Scan(&closed)
	if err != nil {
		return accessErr("table order", order.ID, err)
	}
	if closed {
		return accessErr("table order", order.ID, domain.ErrTableOrderClosed)
	}

	if err := updateTableOrderTx(ctx, tx, order); err != nil {
		return accessErr("table order", order.ID, err)
	}
	for _, po := range order.PersonalOrders {
		if po.ID != 0 {
			continue // already persisted by the guest flow
		}
		if err := insertPersonalOrderTx(ctx, tx, order.ID, po); err != nil {
			return accessErr("table order", order.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return accessErr("table order", order.ID, err)
	}
	return nil
}

func updateTableOrderTx(ctx context.Context, tx *sql.Tx, order *domain.TableOrder) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE table_order SET
		    time_of_arrival = $2, is_closed = $3, payment_type = $4,
		    total_price = $5, amount_paid = $6, is_sent_to_kitchen = $7,
		    is_requesting_service = $8, preparation_minutes = $9
		WHERE table_order_id = $1
	`, order.ID, order.TimeOfArrival, order.Closed, string(order.PaymentType),
		order.TotalPrice, order.AmountPaid, order.SentToKitchen,
		order.RequestingService, order.PreparationMinutes)
	if err != nil {
		return fmt.Errorf("failed to update table order: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanTableOrder(row interface{ Scan(...any) error }) (*domain.TableOrder, error) {
	order := &domain.TableOrder{}
	var payment string
	err := row.Scan(&order.ID, &order.TimeOfArrival, &order.Closed, &payment,
		&order.TotalPrice, &order.AmountPaid, &order.SentToKitchen,
		&order.RequestingService, &order.PreparationMinutes)
	if err != nil {
		return nil, err
	}
	order.PaymentType = domain.PaymentType(payment)
	return order, nil
}
