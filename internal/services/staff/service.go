package staff

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
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrNothingToSend = errors.New("table order has no personal orders")
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, body []byte) error
}

type StaffServiceInterface interface {
	FindTableOrderByID(ctx context.Context, tableOrderID int) (*domain.TableOrder, error)
	FindAllVisibleToKitchenOrders(ctx context.Context) ([]*domain.TableOrder, error)
	ConfirmAndSendToKitchen(ctx context.Context, tableOrderID int) (*domain.TableOrder, error)
	CloseTableOrder(ctx context.Context, tableOrderID int, payment domain.PaymentType, amountPaid float64) (*domain.TableOrder, error)
	UpdateTableOrder(ctx context.Context, order *domain.TableOrder) error
}

type StaffService struct {
	repo   *repository.Repository
	events EventPublisher
	lg     *logger.Logger
}

func NewStaffService(repo *repository.Repository, events EventPublisher, lg *logger.Logger) StaffServiceInterface {
	return &StaffService{repo: repo, events: events, lg: lg}
}

func (s *StaffService) FindTableOrderByID(ctx context.Context, tableOrderID int) (*domain.TableOrder, error) {
	return s.repo.TableOrders.FindByID(ctx, tableOrderID)
}

func (s *StaffService) FindAllVisibleToKitchenOrders(ctx context.Context) ([]*domain.TableOrder, error) {
	return s.repo.TableOrders.FindAllVisibleToKitchen(ctx)
}

// ConfirmAndSendToKitchen marks the order dispatched, snapshots its
// total and preparation estimate, and persists everything in one
// atomic repository call. The notification event is published only
// after the commit; losing it delays the display, not the order.
func (s *StaffService) ConfirmAndSendToKitchen(ctx context.Context, tableOrderID int) (*domain.TableOrder, error) {
	order, err := s.repo.TableOrders.FindByID(ctx, tableOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: table order %d", ErrNotFound, tableOrderID)
	}
	if len(order.PersonalOrders) == 0 {
		return nil, ErrNothingToSend
	}
	if err := order.SendToKitchen(); err != nil {
		return nil, err
	}
	order.TotalPrice = order.CalculateTotalPrice()
	order.PreparationMinutes = order.EstimatePreparationMinutes()

	if err := s.repo.TableOrders.ConfirmAndSend(ctx, order); err != nil {
		return nil, err
	}
	s.lg.Info("table_order_sent_to_kitchen", map[string]any{
		"table_order_id": order.ID,
		"total_price":    order.TotalPrice,
		"prep_minutes":   order.PreparationMinutes,
	})
	s.publish(ctx, "table.sent_to_kitchen", map[string]any{
		"table_order_id": order.ID,
		"meal_period":    order.MealPeriod().String(),
		"total_price":    order.TotalPrice,
		"prep_minutes":   order.PreparationMinutes,
	})
	return order, nil
}

// CloseTableOrder settles the order against the amount paid and makes
// it invisible to the kitchen.
func (s *StaffService) CloseTableOrder(ctx context.Context, tableOrderID int, payment domain.PaymentType, amountPaid float64) (*domain.TableOrder, error) {
	if amountPaid < 0 {
		return nil, fmt.Errorf("%w: amount paid cannot be negative", ErrInvalidInput)
	}
	order, err := s.repo.TableOrders.FindByID(ctx, tableOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: table order %d", ErrNotFound, tableOrderID)
	}
	if err := order.Close(payment, amountPaid); err != nil {
		return nil, err
	}
	if err := s.repo.TableOrders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.lg.Info("table_order_closed", map[string]any{
		"table_order_id": order.ID,
		"total_price":    order.TotalPrice,
		"amount_paid":    order.AmountPaid,
		"outstanding":    order.OutstandingAmount(),
	})
	s.publish(ctx, "table.closed", map[string]any{
		"table_order_id": order.ID,
		"payment_type":   string(order.PaymentType),
	})
	return order, nil
}

func (s *StaffService) UpdateTableOrder(ctx context.Context, order *domain.TableOrder) error {
	return s.repo.TableOrders.Update(ctx, order)
}

func (s *StaffService) publish(ctx context.Context, key string, payload map[string]any) {
	body, _ := json.Marshal(payload)
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.events.PublishEvent(pctx, key, body); err != nil {
		s.lg.Error("event_publish_failed", err, map[string]any{"routing_key": key})
	}
}
