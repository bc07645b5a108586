package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dining-system/internal/domain"
)

type PersonalOrderRepositoryInterface interface {
	Insert(ctx context.Context, tableOrderID int, order *domain.PersonalOrder) error
	FindByTableOrderID(ctx context.Context, tableOrderID int) ([]*domain.PersonalOrder, error)
}

type PersonalOrderRepository struct {
	db *sql.DB
}

func NewPersonalOrderRepository(db *sql.DB) PersonalOrderRepositoryInterface {
	return &PersonalOrderRepository{db: db}
}

// Insert persists a completed guest order with all its lines and
// discounts in one transaction. Guests and staff mutate order data
// concurrently, hence REPEATABLE READ. The order's ID is assigned on
// success; a persisted order is closed to further structural mutation.
func (r *PersonalOrderRepository) Insert(ctx context.Context, tableOrderID int, order *domain.PersonalOrder) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return accessErr("personal order", order.CustomerName, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertPersonalOrderTx(ctx, tx, tableOrderID, order); err != nil {
		return accessErr("personal order", order.CustomerName, err)
	}

	if err := tx.Commit(); err != nil {
		return accessErr("personal order", order.CustomerName, err)
	}
	return nil
}

// FindByTableOrderID loads every personal order of a table order.
func (r *PersonalOrderRepository) FindByTableOrderID(ctx context.Context, tableOrderID int) ([]*domain.PersonalOrder, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, accessErr("personal order", tableOrderID, err)
	}
	defer func() { _ = tx.Rollback() }()

	orders, err := personalOrdersByTableOrderTx(ctx, tx, tableOrderID)
	if err != nil {
		return nil, accessErr("personal order", tableOrderID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("personal order", tableOrderID, err)
	}
	return orders, nil
}

func insertPersonalOrderTx(ctx context.Context, tx *sql.Tx, tableOrderID int, order *domain.PersonalOrder) error {
	var id int
	err := tx.QueryRowContext(ctx, `
		INSERT INTO personal_order (table_order_id, customer_name, customer_age)
		VALUES ($1, $2, $3)
		RETURNING personal_order_id
	`, tableOrderID, order.CustomerName, order.CustomerAge).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert personal order: %w", err)
	}

	for _, l := range order.Lines {
		var addOnID, selectionID any
		if l.AddOn != nil {
			addOnID = l.AddOn.ID
		}
		if l.Selection != nil {
			selectionID = l.Selection.ID
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO personal_order_line
			    (personal_order_id, menu_item_id, quantity, status, notes,
			     add_on_option_id, selection_option_id, additional_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING line_id
		`, id, l.Item.Details().ID, l.Quantity, string(l.Status), l.Notes,
			addOnID, selectionID, l.AdditionalPrice()).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order line for item %d: %w", l.Item.Details().ID, err)
		}
	}

	for _, d := range order.Discounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO discount (personal_order_id, name, percent)
			VALUES ($1, $2, $3)
		`, id, d.Name, d.Percent); err != nil {
			return fmt.Errorf("failed to insert discount %s: %w", d.Name, err)
		}
	}

	order.ID = id
	return nil
}

func personalOrdersByTableOrderTx(ctx context.Context, tx *sql.Tx, tableOrderID int) ([]*domain.PersonalOrder, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT personal_order_id, customer_name, customer_age
		FROM personal_order WHERE table_order_id = $1 ORDER BY personal_order_id
	`, tableOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personal orders: %w", err)
	}
	var orders []*domain.PersonalOrder
	for rows.Next() {
		o := &domain.PersonalOrder{}
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerAge); err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, o := range orders {
		if o.Lines, err = orderLinesTx(ctx, tx, o.ID); err != nil {
			return nil, fmt.Errorf("failed to load lines of personal order %d: %w", o.ID, err)
		}
		if o.Discounts, err = discountsTx(ctx, tx, o.ID); err != nil {
			return nil, fmt.Errorf("failed to load discounts of personal order %d: %w", o.ID, err)
		}
	}
	return orders, nil
}

func orderLinesTx(ctx context.Context, tx *sql.Tx, personalOrderID int) ([]*domain.PersonalOrderLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT line_id, menu_item_id, quantity, status, notes,
		       add_on_option_id, selection_option_id
		FROM personal_order_line WHERE personal_order_id = $1 ORDER BY line_id
	`, personalOrderID)
	if err != nil {
		return nil, err
	}
	type lineRow struct {
		line        *domain.PersonalOrderLine
		itemID      int
		addOnID     sql.NullInt64
		selectionID sql.NullInt64
	}
	var lineRows []lineRow
	for rows.Next() {
		lr := lineRow{line: &domain.PersonalOrderLine{}}
		var status string
		if err := rows.Scan(&lr.line.ID, &lr.itemID, &lr.line.Quantity, &status,
			&lr.line.Notes, &lr.addOnID, &lr.selectionID); err != nil {
			rows.Close()
			return nil, err
		}
		lr.line.Status = domain.LineStatus(status)
		lineRows = append(lineRows, lr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	lines := make([]*domain.PersonalOrderLine, 0, len(lineRows))
	for _, lr := range lineRows {
		item, err := menuItemByIDTx(ctx, tx, lr.itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve item %d: %w", lr.itemID, err)
		}
		lr.line.Item = item
		if lr.addOnID.Valid || lr.selectionID.Valid {
			mc, ok := item.(*domain.MainCourse)
			if !ok {
				return nil, fmt.Errorf("line %d has options but item %d is not a main course", lr.line.ID, lr.itemID)
			}
			if lr.addOnID.Valid {
				if lr.line.AddOn = mc.AddOnByID(int(lr.addOnID.Int64)); lr.line.AddOn == nil {
					return nil, fmt.Errorf("add-on %d no longer exists on item %d", lr.addOnID.Int64, lr.itemID)
				}
			}
			if lr.selectionID.Valid {
				if lr.line.Selection = mc.SelectionByID(int(lr.selectionID.Int64)); lr.line.Selection == nil {
					return nil, fmt.Errorf("selection %d no longer exists on item %d", lr.selectionID.Int64, lr.itemID)
				}
			}
		}
		lines = append(lines, lr.line)
	}
	return lines, nil
}

func discountsTx(ctx context.Context, tx *sql.Tx, personalOrderID int) ([]domain.Discount, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT name, percent FROM discount
		WHERE personal_order_id = $1 ORDER BY discount_id
	`, personalOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Discount
	for rows.Next() {
		var d domain.Discount
		if err := rows.Scan(&d.Name, &d.Percent); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
