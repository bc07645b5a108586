package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dining-system/internal/domain"
)

type MenuCardRepositoryInterface interface {
	FindByRestaurantCode(ctx context.Context, code string) ([]*domain.MenuCard, error)
	FindItemByID(ctx context.Context, id int) (domain.MenuItem, error)
}

type MenuCardRepository struct {
	db *sql.DB
}

func NewMenuCardRepository(db *sql.DB) MenuCardRepositoryInterface {
	return &MenuCardRepository{db: db}
}

// FindByRestaurantCode loads every menu card of a restaurant with its
// full graph: trackers, items, choice menus, selection options and
// add-ons. Menu data is read constantly and written rarely, off-hours,
// so the read runs READ UNCOMMITTED. Any nested lookup failure aborts
// the whole read.
func (r *MenuCardRepository) FindByRestaurantCode(ctx context.Context, code string) ([]*domain.MenuCard, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadUncommitted, ReadOnly: true})
	if err != nil {
		return nil, accessErr("menu card", code, err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT menu_card_id, name FROM menu_card
		WHERE restaurant_code = $1 ORDER BY menu_card_id
	`, code)
	if err != nil {
		return nil, accessErr("menu card", code, err)
	}
	type cardRow struct {
		id   int
		name string
	}
	var cardRows []cardRow
	for rows.Next() {
		var cr cardRow
		if err := rows.Scan(&cr.id, &cr.name); err != nil {
			rows.Close()
			return nil, accessErr("menu card", code, err)
		}
		cardRows = append(cardRows, cr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, accessErr("menu card", code, err)
	}
	rows.Close()

	cards := make([]*domain.MenuCard, 0, len(cardRows))
	for _, cr := range cardRows {
		card := domain.NewMenuCard(cr.id, cr.name)
		if err := loadTrackersTx(ctx, tx, card); err != nil {
			return nil, accessErr("menu card", cr.id, err)
		}
		cards = append(cards, card)
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("menu card", code, err)
	}
	return cards, nil
}

// FindItemByID resolves a single menu item with its option graph.
// Nil when the id is unknown.
func (r *MenuCardRepository) FindItemByID(ctx context.Context, id int) (domain.MenuItem, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadUncommitted, ReadOnly: true})
	if err != nil {
		return nil, accessErr("menu item", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	item, err := menuItemByIDTx(ctx, tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tx.Commit()
	}
	if err != nil {
		return nil, accessErr("menu item", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, accessErr("menu item", id, err)
	}
	return item, nil
}

func loadTrackersTx(ctx context.Context, tx *sql.Tx, card *domain.MenuCard) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT menu_item_id, is_available FROM availability_tracker
		WHERE menu_card_id = $1 ORDER BY menu_item_id
	`, card.ID)
	if err != nil {
		return fmt.Errorf("failed to load trackers: %w", err)
	}
	type trackerRow struct {
		itemID    int
		available bool
	}
	var trackerRows []trackerRow
	for rows.Next() {
		var tr trackerRow
		if err := rows.Scan(&tr.itemID, &tr.available); err != nil {
			rows.Close()
			return err
		}
		trackerRows = append(trackerRows, tr)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, tr := range trackerRows {
		item, err := menuItemByIDTx(ctx, tx, tr.itemID)
		if err != nil {
			return fmt.Errorf("failed to resolve tracked item %d: %w", tr.itemID, err)
		}
		card.AddAvailabilityTracker(&domain.AvailabilityTracker{Item: item, Available: tr.available})
	}
	return nil
}

// menuItemByIDTx builds one menu item from its row. Variants live in a
// single table discriminated by kind; main courses additionally pull
// their choice menus and add-ons. Returns sql.ErrNoRows when absent.
func menuItemByIDTx(ctx context.Context, tx *sql.Tx, id int) (domain.MenuItem, error) {
	var (
		details domain.ItemDetails
		kind    string
		intro   string
		lunch   float64
		evening float64
		premium bool
		isSauce bool
		barType sql.NullString
	)
	err := tx.QueryRowContext(ctx, `
		SELECT menu_item_id, kind, name, description, intro_description,
		       preparation_minutes, made_by_kitchen_staff,
		       lunch_price, evening_price, is_premium, is_sauce, bar_type
		FROM menu_item WHERE menu_item_id = $1
	`, id).Scan(&details.ID, &kind, &details.Name, &details.Description, &intro,
		&details.PreparationMinutes, &details.MadeByKitchenStaff,
		&lunch, &evening, &premium, &isSauce, &barType)
	if err != nil {
		return nil, err
	}

	switch domain.ItemKind(kind) {
	case domain.KindMainCourse:
		mc := &domain.MainCourse{
			ItemDetails:      details,
			IntroDescription: intro,
			LunchPrice:       lunch,
			EveningPrice:     evening,
		}
		if mc.ChoiceMenus, err = choiceMenusTx(ctx, tx, id); err != nil {
			return nil, err
		}
		if mc.AddOns, err = addOnsTx(ctx, tx, id); err != nil {
			return nil, err
		}
		return mc, nil
	case domain.KindSideDish:
		return &domain.SideDish{ItemDetails: details, FixedPrice: lunch}, nil
	case domain.KindDrink:
		return &domain.Drink{ItemDetails: details, FixedPrice: lunch}, nil
	case domain.KindPotatoDish:
		return &domain.PotatoDish{ItemDetails: details, Premium: premium, FixedPrice: lunch}, nil
	case domain.KindDipsAndSauces:
		return &domain.DipsAndSauces{ItemDetails: details, IsSauce: isSauce, FixedPrice: lunch}, nil
	case domain.KindSelfServiceBar:
		return &domain.SelfServiceBar{ItemDetails: details, BarType: domain.BarType(barType.String), FixedPrice: lunch}, nil
	default:
		return nil, fmt.Errorf("unknown menu item kind %q", kind)
	}
}

func choiceMenusTx(ctx context.Context, tx *sql.Tx, itemID int) ([]domain.MultipleChoiceMenu, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT choice_menu_id, description FROM multiple_choice_menu
		WHERE menu_item_id = $1 ORDER BY choice_menu_id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load choice menus: %w", err)
	}
	var menus []domain.MultipleChoiceMenu
	for rows.Next() {
		var m domain.MultipleChoiceMenu
		if err := rows.Scan(&m.ID, &m.Description); err != nil {
			rows.Close()
			return nil, err
		}
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range menus {
		optRows, err := tx.QueryContext(ctx, `
			SELECT selection_option_id, description, additional_price
			FROM selection_option WHERE choice_menu_id = $1 ORDER BY selection_option_id
		`, menus[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load selection options: %w", err)
		}
		for optRows.Next() {
			var o domain.SelectionOption
			if err := optRows.Scan(&o.ID, &o.Description, &o.AdditionalPrice); err != nil {
				optRows.Close()
				return nil, err
			}
			menus[i].Options = append(menus[i].Options, o)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return nil, err
		}
		optRows.Close()
	}
	return menus, nil
}

func addOnsTx(ctx context.Context, tx *sql.Tx, itemID int) ([]domain.AddOnOption, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT add_on_option_id, description, additional_price
		FROM add_on_option WHERE menu_item_id = $1 ORDER BY add_on_option_id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load add-ons: %w", err)
	}
	defer rows.Close()

	var out []domain.AddOnOption
	for rows.Next() {
		var o domain.AddOnOption
		if err := rows.Scan(&o.ID, &o.Description, &o.AdditionalPrice); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
