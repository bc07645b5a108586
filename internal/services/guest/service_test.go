package guest

import (
	"context"
	"errors"
	"testing"
	"time"

	"dining-system/internal/domain"
	"dining-system/internal/logger"
	"dining-system/internal/repository"
)

// --- mocks -----------------------------------------------------------

type mockTables struct {
	tables map[string]*domain.Table
	bound  map[string]int
}

func (m *mockTables) FindByCode(_ context.Context, number int, code string) (*domain.Table, error) {
	t := m.tables[tableKey(number, code)]
	return t, nil
}

func (m *mockTables) BindTableOrder(_ context.Context, number int, code string, orderID int) error {
	if m.bound == nil {
		m.bound = map[string]int{}
	}
	m.bound[tableKey(number, code)] = orderID
	return nil
}

func tableKey(number int, code string) string {
	t := &domain.Table{}
	t.SetTableCode(number, code)
	return t.Code
}

type mockTableOrders struct {
	orders map[int]*domain.TableOrder
	nextID int
}

func (m *mockTableOrders) FindByID(_ context.Context, id int) (*domain.TableOrder, error) {
	return m.orders[id], nil
}

func (m *mockTableOrders) Insert(_ context.Context, o *domain.TableOrder) error {
	m.nextID++
	o.ID = m.nextID
	if m.orders == nil {
		m.orders = map[int]*domain.TableOrder{}
	}
	m.orders[o.ID] = o
	return nil
}

func (m *mockTableOrders) Update(_ context.Context, o *domain.TableOrder) error {
	m.orders[o.ID] = o
	return nil
}

func (m *mockTableOrders) FindAllVisibleToKitchen(context.Context) ([]*domain.TableOrder, error) {
	return nil, nil
}

func (m *mockTableOrders) ConfirmAndSend(_ context.Context, o *domain.TableOrder) error {
	m.orders[o.ID] = o
	return nil
}

type mockPersonalOrders struct {
	inserted map[int][]*domain.PersonalOrder
	nextID   int
	err      error
}

func (m *mockPersonalOrders) Insert(_ context.Context, tableOrderID int, o *domain.PersonalOrder) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	o.ID = m.nextID
	if m.inserted == nil {
		m.inserted = map[int][]*domain.PersonalOrder{}
	}
	m.inserted[tableOrderID] = append(m.inserted[tableOrderID], o)
	return nil
}

func (m *mockPersonalOrders) FindByTableOrderID(_ context.Context, tableOrderID int) ([]*domain.PersonalOrder, error) {
	return m.inserted[tableOrderID], nil
}

type mockMenuCards struct {
	items map[int]domain.MenuItem
}

func (m *mockMenuCards) FindByRestaurantCode(context.Context, string) ([]*domain.MenuCard, error) {
	return nil, nil
}

func (m *mockMenuCards) FindItemByID(_ context.Context, id int) (domain.MenuItem, error) {
	return m.items[id], nil
}

type mockPublisher struct {
	keys []string
	err  error
}

func (m *mockPublisher) PublishEvent(_ context.Context, key string, _ []byte) error {
	m.keys = append(m.keys, key)
	return m.err
}

func newTestService(tables *mockTables, orders *mockTableOrders, personal *mockPersonalOrders, cards *mockMenuCards, pub *mockPublisher) GuestServiceInterface {
	return NewGuestService(&repository.Repository{
		Tables:         tables,
		TableOrders:    orders,
		PersonalOrders: personal,
		MenuCards:      cards,
	}, pub, logger.New("guest-test"))
}

// --- tests -----------------------------------------------------------

func TestOpenTableOrderCreatesAndBinds(t *testing.T) {
	table := &domain.Table{}
	table.SetTableCode(1, "001")
	tables := &mockTables{tables: map[string]*domain.Table{"1001": table}}
	orders := &mockTableOrders{}
	svc := newTestService(tables, orders, &mockPersonalOrders{}, &mockMenuCards{}, &mockPublisher{})

	order, err := svc.OpenTableOrder(context.Background(), 1, "001")
	if err != nil {
		t.Fatalf("OpenTableOrder: %v", err)
	}
	if order.ID == 0 || order.Closed || order.SentToKitchen {
		t.Errorf("fresh order in wrong state: %+v", order)
	}
	if tables.bound["1001"] != order.ID {
		t.Errorf("table not bound to new order: %v", tables.bound)
	}
}

func TestOpenTableOrderReturnsExistingOpenOrder(t *testing.T) {
	existing := domain.NewTableOrder(time.Now())
	existing.ID = 7
	id := 7
	table := &domain.Table{CurrentOrderID: &id}
	table.SetTableCode(1, "001")

	tables := &mockTables{tables: map[string]*domain.Table{"1001": table}}
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{7: existing}, nextID: 7}
	svc := newTestService(tables, orders, &mockPersonalOrders{}, &mockMenuCards{}, &mockPublisher{})

	order, err := svc.OpenTableOrder(context.Background(), 1, "001")
	if err != nil {
		t.Fatalf("OpenTableOrder: %v", err)
	}
	if order.ID != 7 {
		t.Errorf("got order %d, want existing order 7", order.ID)
	}
}

func TestOpenTableOrderReplacesClosedOrder(t *testing.T) {
	closed := domain.NewTableOrder(time.Now())
	closed.ID = 7
	closed.Closed = true
	id := 7
	table := &domain.Table{CurrentOrderID: &id}
	table.SetTableCode(1, "001")

	tables := &mockTables{tables: map[string]*domain.Table{"1001": table}}
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{7: closed}, nextID: 7}
	svc := newTestService(tables, orders, &mockPersonalOrders{}, &mockMenuCards{}, &mockPublisher{})

	order, err := svc.OpenTableOrder(context.Background(), 1, "001")
	if err != nil {
		t.Fatalf("OpenTableOrder: %v", err)
	}
	if order.ID == 7 {
		t.Error("closed order must not be reused for a new visit")
	}
}

func TestOpenTableOrderUnknownTable(t *testing.T) {
	svc := newTestService(&mockTables{}, &mockTableOrders{}, &mockPersonalOrders{}, &mockMenuCards{}, &mockPublisher{})
	if _, err := svc.OpenTableOrder(context.Background(), 9, "999"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInsertPersonalOrderValidation(t *testing.T) {
	open := domain.NewTableOrder(time.Now())
	open.ID = 1
	closed := domain.NewTableOrder(time.Now())
	closed.ID = 2
	closed.Closed = true

	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: open, 2: closed}}
	cards := &mockMenuCards{items: map[int]domain.MenuItem{
		10: &domain.SideDish{ItemDetails: domain.ItemDetails{ID: 10}, FixedPrice: 30},
	}}
	svc := newTestService(&mockTables{}, orders, &mockPersonalOrders{}, cards, &mockPublisher{})

	line := OrderLineRequest{MenuItemID: 10, Quantity: 1}
	addOnID := 5

	tests := []struct {
		name    string
		orderID int
		req     PersonalOrderRequest
		wantErr error
	}{
		{"empty name", 1, PersonalOrderRequest{CustomerAge: 30, Lines: []OrderLineRequest{line}}, ErrInvalidInput},
		{"bad age", 1, PersonalOrderRequest{CustomerName: "A", CustomerAge: -1, Lines: []OrderLineRequest{line}}, ErrInvalidInput},
		{"no lines", 1, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30}, ErrInvalidInput},
		{"zero quantity", 1, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30,
			Lines: []OrderLineRequest{{MenuItemID: 10, Quantity: 0}}}, ErrInvalidInput},
		{"unknown item", 1, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30,
			Lines: []OrderLineRequest{{MenuItemID: 99, Quantity: 1}}}, ErrNotFound},
		{"options on plain item", 1, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30,
			Lines: []OrderLineRequest{{MenuItemID: 10, Quantity: 1, AddOnOptionID: &addOnID}}}, ErrInvalidInput},
		{"unknown table order", 99, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30,
			Lines: []OrderLineRequest{line}}, ErrNotFound},
		{"closed table order", 2, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30,
			Lines: []OrderLineRequest{line}}, domain.ErrTableOrderClosed},
		{"discount out of range", 1, PersonalOrderRequest{CustomerName: "A", CustomerAge: 30,
			Lines: []OrderLineRequest{line}, Discounts: []DiscountRequest{{Name: "x", Percent: 150}}}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.InsertPersonalOrder(context.Background(), tt.orderID, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInsertPersonalOrderPersistsWithOptions(t *testing.T) {
	open := domain.NewTableOrder(time.Now())
	open.ID = 1
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: open}}

	ribs := &domain.MainCourse{
		ItemDetails:  domain.ItemDetails{ID: 10, Name: "Ribs"},
		LunchPrice:   100,
		EveningPrice: 150,
		AddOns:       []domain.AddOnOption{{ID: 5, Description: "Extra ribs", AdditionalPrice: 25}},
	}
	cards := &mockMenuCards{items: map[int]domain.MenuItem{10: ribs}}
	personal := &mockPersonalOrders{}
	svc := newTestService(&mockTables{}, orders, personal, cards, &mockPublisher{})

	addOnID := 5
	order, err := svc.InsertPersonalOrder(context.Background(), 1, PersonalOrderRequest{
		CustomerName: "Alice",
		CustomerAge:  30,
		Lines:        []OrderLineRequest{{MenuItemID: 10, Quantity: 1, AddOnOptionID: &addOnID, Notes: "no sauce"}},
	})
	if err != nil {
		t.Fatalf("InsertPersonalOrder: %v", err)
	}
	if order.ID == 0 {
		t.Error("persisted order did not receive an id")
	}
	if got := order.TotalLunchPrice(); got != 125 {
		t.Errorf("lunch total = %v, want 125 (base 100 + add-on 25)", got)
	}
	if len(personal.inserted[1]) != 1 {
		t.Errorf("order not handed to the repository")
	}
}

func TestRequestServicePublishesButToleratesPublishFailure(t *testing.T) {
	open := domain.NewTableOrder(time.Now())
	open.ID = 1
	orders := &mockTableOrders{orders: map[int]*domain.TableOrder{1: open}}
	pub := &mockPublisher{}
	svc := newTestService(&mockTables{}, orders, &mockPersonalOrders{}, &mockMenuCards{}, pub)

	if err := svc.RequestService(context.Background(), 1); err != nil {
		t.Fatalf("RequestService: %v", err)
	}
	if !open.RequestingService {
		t.Error("service flag not set")
	}
	if len(pub.keys) != 1 || pub.keys[0] != "table.service_requested" {
		t.Errorf("published keys = %v", pub.keys)
	}

	// A broker outage must not fail the guest's request.
	open.RequestingService = false
	pub.err = errors.New("broker down")
	if err := svc.RequestService(context.Background(), 1); err != nil {
		t.Errorf("RequestService with failing publisher: %v", err)
	}
	if !open.RequestingService {
		t.Error("service flag not set despite publish failure")
	}
}
