// Package kitchendisplay feeds the kitchen/staff screens. The poller
// re-reads the kitchen-visible orders on a fixed schedule so the screen
// stays fresh without blocking interactive use; the subscriber tails
// the notification queue for immediate table events between polls.
package kitchendisplay

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"dining-system/internal/connections/rabbitmq"
	"dining-system/internal/logger"
	"dining-system/internal/repository"
)

const (
	initialDelay = 5 * time.Second
	pollPeriod   = 30 * time.Second
)

// RunPoller refreshes the kitchen view every 30 seconds after a 5
// second warm-up, until ctx cancels.
func RunPoller(ctx context.Context, db *sql.DB) error {
	lg := logger.New("kitchen-display")
	repo := repository.New(db)

	select {
	case <-time.After(initialDelay):
	case <-ctx.Done():
		return nil
	}

	ticker := time.NewTicker(pollPeriod)
	defer ticker.Stop()

	refresh(ctx, repo, lg)
	for {
		select {
		case <-ticker.C:
			refresh(ctx, repo, lg)
		case <-ctx.Done():
			return nil
		}
	}
}

func refresh(ctx context.Context, repo *repository.Repository, lg *logger.Logger) {
	orders, err := repo.TableOrders.FindAllVisibleToKitchen(ctx)
	if err != nil {
		lg.Error("kitchen_refresh_failed", err, nil)
		return
	}
	view := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		view = append(view, map[string]any{
			"table_order_id": o.ID,
			"arrived_at":     o.TimeOfArrival.Format(time.RFC3339),
			"meal_period":    o.MealPeriod().String(),
			"prep_minutes":   o.PreparationMinutes,
			"guests":         len(o.PersonalOrders),
			"needs_service":  o.RequestingService,
		})
	}
	lg.Info("kitchen_view_refreshed", map[string]any{"count": len(orders), "orders": view})
}

// RunSubscriber consumes the staff notification queue and logs every
// table event until ctx cancels.
func RunSubscriber(ctx context.Context, rmq *rabbitmq.Client) error {
	lg := logger.New("notification-subscriber")

	deliveries, err := rmq.Consume("kitchen-display", 1)
	if err != nil {
		return err
	}
	lg.Info("subscribed", map[string]any{"queue": rabbitmq.NotificationQueue})

	for {
		select {
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			var payload map[string]any
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				lg.Error("event_decode_failed", err, map[string]any{"routing_key": d.RoutingKey})
				_ = d.Nack(false, false)
				continue
			}
			lg.Info("table_event", map[string]any{"routing_key": d.RoutingKey, "payload": payload})
			_ = d.Ack(false)
		case <-ctx.Done():
			return nil
		}
	}
}
