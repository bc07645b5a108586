package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"dining-system/internal/domain"
	"dining-system/internal/logger"
	"dining-system/internal/repository"
)

type mockTableOrders struct {
	orders    map[int]*domain.TableOrder
	confirmed []int
	updateErr error
}

func (m *mockTableOrders) FindByID(_ context.Context, id int) (*domain.TableOrder, error) {
	return m.orders[id], nil
}

func (m *mockTableOrders) Insert(_ context.Context, o *domain.TableOrder) error { return nil }

func (m *mockTableOrders) Update(_ context.Context, o *domain.TableOrder) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockTableOrders) FindAllVisibleToKitchen(context.Context) ([]*domain.TableOrder, error) {
	var out []*domain.TableOrder
	for _, o := range m.orders {
		if o.VisibleToKitchen() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockTableOrders) ConfirmAndSend(_ context.Context, o *domain.TableOrder) error {
	if o.Closed {
		return domain.ErrTableOrderClosed
	}
	m.confirmed = append(m.confirmed, o.ID)
	m.orders[o.ID] = o
	return nil
}

type mockPublisher struct {
	keys []string
}

func (m *mockPublisher) PublishEvent(_ context.Context, key string, _ []byte) error {
	m.keys = append(m.keys, key)
	return nil
}

func newTestService(orders *mockTableOrders, pub *mockPublisher) StaffServiceInterface {
	return NewStaffService(&repository.Repository{TableOrders: orders}, pub, logger.New("staff-test"))
}

func orderWithGuest(id int, hour int) *domain.TableOrder {
	o := domain.NewTableOrder(time.Date(2025, 6, 12, hour, 0, 0, 0, time.Local))
	o.ID = id
	guest := &domain.PersonalOrder{ID: 1, CustomerName: "Alice", CustomerAge: 30}
	guest.AddPersonalOrderLine(&domain.PersonalOrderLine{
		Item: &domain.MainCourse{
			ItemDetails:  domain.ItemDetails{ID: 1, PreparationMinutes: 20, MadeByKitchenStaff: true},
			LunchPrice:   100,
			EveningPrice: 150,
		},
		Quantity: 1,
		Status:   domain.LinePending,
	})
	_ = o.AddPersonalOrder(guest)
	return o
}

func TestConfirmAndSendToKitchen(t *testing.T) {
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: orderWithGuest(1, 12)}}
	pub := &mockPublisher{}
	svc := newTestService(orders, pub)

	order, err := svc.ConfirmAndSendToKitchen(context.Background(), 1)
	if err != nil {
		t.Fatalf("ConfirmAndSendToKitchen: %v", err)
	}
	if !order.SentToKitchen {
		t.Error("order not marked sent")
	}
	if order.TotalPrice != 100 {
		t.Errorf("snapshotted total = %v, want 100 (lunch arrival)", order.TotalPrice)
	}
	if order.PreparationMinutes != 20 {
		t.Errorf("prep estimate = %d, want 20", order.PreparationMinutes)
	}
	if len(orders.confirmed) != 1 || orders.confirmed[0] != 1 {
		t.Errorf("atomic confirm not invoked: %v", orders.confirmed)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "table.sent_to_kitchen" {
		t.Errorf("published keys = %v", pub.keys)
	}
}

func TestConfirmAndSendRejectsEmptyAndClosedOrders(t *testing.T) {
	empty := domain.NewTableOrder(time.Now())
	empty.ID = 1
	closed := orderWithGuest(2, 12)
	closed.Closed = true
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: empty, 2: closed}}
	svc := newTestService(orders, &mockPublisher{})

	if _, err := svc.ConfirmAndSendToKitchen(context.Background(), 1); !errors.Is(err, ErrNothingToSend) {
		t.Errorf("empty order: err = %v, want ErrNothingToSend", err)
	}
	if _, err := svc.ConfirmAndSendToKitchen(context.Background(), 2); !errors.Is(err, domain.ErrTableOrderClosed) {
		t.Errorf("closed order: err = %v, want ErrTableOrderClosed", err)
	}
	if _, err := svc.ConfirmAndSendToKitchen(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown order: err = %v, want ErrNotFound", err)
	}
}

func TestKitchenVisibilityFilter(t *testing.T) {
	sent := orderWithGuest(1, 12)
	_ = sent.SendToKitchen()
	notSent := orderWithGuest(2, 12)
	sentAndClosed := orderWithGuest(3, 12)
	_ = sentAndClosed.SendToKitchen()
	sentAndClosed.Closed = true

	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{
		1: sent, 2: notSent, 3: sentAndClosed,
	}}
	svc := newTestService(orders, &mockPublisher{})

	visible, err := svc.FindAllVisibleToKitchenOrders(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].ID != 1 {
		t.Errorf("visible = %v, want only order 1", ids(visible))
	}
}

func ids(orders []*domain.TableOrder) []int {
	out := make([]int, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestCloseTableOrderReconciles(t *testing.T) {
	order := orderWithGuest(1, 18) // evening arrival, total 150
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: order}}
	pub := &mockPublisher{}
	svc := newTestService(orders, pub)

	closed, err := svc.CloseTableOrder(context.Background(), 1, domain.PaymentCard, 100)
	if err != nil {
		t.Fatalf("CloseTableOrder: %v", err)
	}
	if !closed.Closed {
		t.Error("order not closed")
	}
	if closed.TotalPrice != 150 {
		t.Errorf("total = %v, want 150 (evening pricing)", closed.TotalPrice)
	}
	if got := closed.OutstandingAmount(); got != 50 {
		t.Errorf("outstanding = %v, want 50", got)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "table.closed" {
		t.Errorf("published keys = %v", pub.keys)
	}
}

func TestCloseTableOrderValidation(t *testing.T) {
	order := orderWithGuest(1, 12)
	order.Closed = true
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: order}}
	svc := newTestService(orders, &mockPublisher{})

	if _, err := svc.CloseTableOrder(context.Background(), 1, domain.PaymentCash, -5); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative amount: err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.CloseTableOrder(context.Background(), 1, domain.PaymentCash, 0); !errors.Is(err, domain.ErrTableOrderClosed) {
		t.Errorf("double close: err = %v, want ErrTableOrderClosed", err)
	}
	if _, err := svc.CloseTableOrder(context.Background(), 9, domain.PaymentCash, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown order: err = %v, want ErrNotFound", err)
	}
}
