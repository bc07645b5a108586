package guest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dining-system/internal/domain"
	"dining-system/internal/logger"
	"dining-system/internal/repository"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// EventPublisher is the slice of the message client the guest flow
// needs; satisfied by *rabbitmq.Client.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, body []byte) error
}

type GuestServiceInterface interface {
	FindRestaurantByCode(ctx context.Context, code string) (*domain.Restaurant, error)
	FindTableByCode(ctx context.Context, number int, restaurantCode string) (*domain.Table, error)
	FindMenuCardsByRestaurantCode(ctx context.Context, code string) ([]*domain.MenuCard, error)
	OpenTableOrder(ctx context.Context, number int, restaurantCode string) (*domain.TableOrder, error)
	InsertPersonalOrder(ctx context.Context, tableOrderID int, req PersonalOrderRequest) (*domain.PersonalOrder, error)
	RequestService(ctx context.Context, tableOrderID int) error
}

type GuestService struct {
	repo   *repository.Repository
	events EventPublisher
	lg     *logger.Logger
}

func NewGuestService(repo *repository.Repository, events EventPublisher, lg *logger.Logger) GuestServiceInterface {
	return &GuestService{repo: repo, events: events, lg: lg}
}

func (s *GuestService) FindRestaurantByCode(ctx context.Context, code string) (*domain.Restaurant, error) {
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: restaurant code must be 3 digits", ErrInvalidInput)
	}
	return s.repo.Restaurants.FindByCode(ctx, code)
}

func (s *GuestService) FindTableByCode(ctx context.Context, number int, restaurantCode string) (*domain.Table, error) {
	return s.repo.Tables.FindByCode(ctx, number, restaurantCode)
}

func (s *GuestService) FindMenuCardsByRestaurantCode(ctx context.Context, code string) ([]*domain.MenuCard, error) {
	return s.repo.MenuCards.FindByRestaurantCode(ctx, code)
}

// OpenTableOrder returns the table's current open order, creating and
// binding a fresh one when the first guest enters the table code (or
// when the previous visit's order was already closed).
func (s *GuestService) OpenTableOrder(ctx context.Context, number int, restaurantCode string) (*domain.TableOrder, error) {
	table, err := s.repo.Tables.FindByCode(ctx, number, restaurantCode)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("%w: table %d%s", ErrNotFound, number, restaurantCode)
	}

	if table.CurrentOrderID != nil {
		order, err := s.repo.TableOrders.FindByID(ctx, *table.CurrentOrderID)
		if err != nil {
			return nil, err
		}
		if order != nil && !order.Closed {
			return order, nil
		}
	}

	order := domain.NewTableOrder(time.Now())
	if err := s.repo.TableOrders.Insert(ctx, order); err != nil {
		return nil, err
	}
	if err := s.repo.Tables.BindTableOrder(ctx, number, restaurantCode, order.ID); err != nil {
		return nil, err
	}
	s.lg.Info("table_order_opened", map[string]any{"table_order_id": order.ID, "table_code": table.Code})
	return order, nil
}

// InsertPersonalOrder validates and persists one guest's completed
// order into the table order. The returned order carries its assigned
// id and is closed to further structural mutation.
func (s *GuestService) InsertPersonalOrder(ctx context.Context, tableOrderID int, req PersonalOrderRequest) (*domain.PersonalOrder, error) {
	if req.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if req.CustomerAge <= 0 || req.CustomerAge > 130 {
		return nil, fmt.Errorf("%w: customer age out of range", ErrInvalidInput)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one order line is required", ErrInvalidInput)
	}

	tableOrder, err := s.repo.TableOrders.FindByID(ctx, tableOrderID)
	if err != nil {
		return nil, err
	}
	if tableOrder == nil {
		return nil, fmt.Errorf("%w: table order %d", ErrNotFound, tableOrderID)
	}
	if tableOrder.Closed {
		return nil, domain.ErrTableOrderClosed
	}

	order := &domain.PersonalOrder{CustomerName: req.CustomerName, CustomerAge: req.CustomerAge}
	for _, lr := range req.Lines {
		line, err := s.buildLine(ctx, lr)
		if err != nil {
			return nil, err
		}
		order.AddPersonalOrderLine(line)
	}
	for _, d := range req.Discounts {
		if d.Percent < 0 || d.Percent > 100 {
			return nil, fmt.Errorf("%w: discount %s percent out of range", ErrInvalidInput, d.Name)
		}
		order.AddDiscount(domain.Discount{Name: d.Name, Percent: d.Percent})
	}

	if err := s.repo.PersonalOrders.Insert(ctx, tableOrderID, order); err != nil {
		return nil, err
	}
	s.lg.Info("personal_order_inserted", map[string]any{
		"table_order_id": tableOrderID, "personal_order_id": order.ID,
		"lines": len(order.Lines),
	})
	return order, nil
}

func (s *GuestService) buildLine(ctx context.Context, lr OrderLineRequest) (*domain.PersonalOrderLine, error) {
	if lr.Quantity <= 0 {
		return nil, fmt.Errorf("%w: invalid quantity for item %d", ErrInvalidInput, lr.MenuItemID)
	}
	item, err := s.repo.MenuCards.FindItemByID(ctx, lr.MenuItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: menu item %d", ErrNotFound, lr.MenuItemID)
	}

	line := &domain.PersonalOrderLine{
		Item:     item,
		Quantity: lr.Quantity,
		Status:   domain.LinePending,
		Notes:    lr.Notes,
	}
	if lr.AddOnOptionID != nil || lr.SelectionOptionID != nil {
		mc, ok := item.(*domain.MainCourse)
		if !ok {
			return nil, fmt.Errorf("%w: item %d does not take options", ErrInvalidInput, lr.MenuItemID)
		}
		if lr.AddOnOptionID != nil {
			if line.AddOn = mc.AddOnByID(*lr.AddOnOptionID); line.AddOn == nil {
				return nil, fmt.Errorf("%w: add-on %d not offered on item %d", ErrInvalidInput, *lr.AddOnOptionID, lr.MenuItemID)
			}
		}
		if lr.SelectionOptionID != nil {
			if line.Selection = mc.SelectionByID(*lr.SelectionOptionID); line.Selection == nil {
				return nil, fmt.Errorf("%w: selection %d not offered on item %d", ErrInvalidInput, *lr.SelectionOptionID, lr.MenuItemID)
			}
		}
	}
	return line, nil
}

// RequestService flips the service flag and notifies staff. The flag
// write is the source of truth; a lost notification only delays the
// staff display until its next poll.
func (s *GuestService) RequestService(ctx context.Context, tableOrderID int) error {
	order, err := s.repo.TableOrders.FindByID(ctx, tableOrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("%w: table order %d", ErrNotFound, tableOrderID)
	}
	if order.Closed {
		return domain.ErrTableOrderClosed
	}

	order.RequestingService = true
	if err := s.repo.TableOrders.Update(ctx, order); err != nil {
		return err
	}

	body, _ := json.Marshal(map[string]any{
		"table_order_id": tableOrderID,
		"requested_at":   time.Now().UTC().Format(time.RFC3339),
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.PublishEvent(pctx, "table.service_requested", body); err != nil {
		s.lg.Error("service_request_publish_failed", err, map[string]any{"table_order_id": tableOrderID})
	}
	return nil
}
