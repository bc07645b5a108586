package domain

import (
	"errors"
	"time"
)

// ErrTableOrderClosed rejects structural changes to a closed order.
var ErrTableOrderClosed = errors.New("table order is closed")

// PaymentType records how a closed table order was settled. Payment
// processing itself happens outside this system; these are labels only.
type PaymentType string

const (
	PaymentUnsettled PaymentType = "unsettled"
	PaymentCash      PaymentType = "cash"
	PaymentCard      PaymentType = "card"
)

// TableOrder is the aggregate order for one table visit. Lifecycle:
// open (guests join and add personal orders), sent to kitchen (one-way
// flag; late personal orders may still join), closed (terminal, eligible
// for payment reconciliation).
type TableOrder struct {
	ID                 int
	TimeOfArrival      time.Time
	Closed             bool
	PaymentType        PaymentType
	TotalPrice         float64
	AmountPaid         float64
	SentToKitchen      bool
	RequestingService  bool
	PreparationMinutes int
	PersonalOrders     []*PersonalOrder
}

func NewTableOrder(timeOfArrival time.Time) *TableOrder {
	return &TableOrder{TimeOfArrival: timeOfArrival, PaymentType: PaymentUnsettled}
}

// MealPeriod selects lunch or evening pricing from the arrival time.
// The same period applies to every line in the order.
func (t *TableOrder) MealPeriod() MealPeriod {
	if t.TimeOfArrival.Hour() < EveningStartHour {
		return Lunch
	}
	return Evening
}

func (t *TableOrder) AddPersonalOrder(o *PersonalOrder) error {
	if t.Closed {
		return ErrTableOrderClosed
	}
	t.PersonalOrders = append(t.PersonalOrders, o)
	return nil
}

// CalculateTotalPrice recomputes the aggregate price on demand from the
// owned personal orders. The stored TotalPrice is only a persisted
// snapshot, never ground truth.
func (t *TableOrder) CalculateTotalPrice() float64 {
	period := t.MealPeriod()
	var sum float64
	for _, o := range t.PersonalOrders {
		sum += o.Total(period)
	}
	return sum
}

// EstimatePreparationMinutes is the longest preparation time among
// kitchen-made lines; self-service items do not hold up the kitchen.
func (t *TableOrder) EstimatePreparationMinutes() int {
	var max int
	for _, o := range t.PersonalOrders {
		for _, l := range o.Lines {
			d := l.Item.Details()
			if d.MadeByKitchenStaff && d.PreparationMinutes > max {
				max = d.PreparationMinutes
			}
		}
	}
	return max
}

// SendToKitchen marks the order dispatched. The flag is one-way; no
// transition undoes it.
func (t *TableOrder) SendToKitchen() error {
	if t.Closed {
		return ErrTableOrderClosed
	}
	t.SentToKitchen = true
	return nil
}

// Close settles the order. Terminal; the recomputed total is snapshotted
// for reconciliation against the amount paid.
func (t *TableOrder) Close(payment PaymentType, amountPaid float64) error {
	if t.Closed {
		return ErrTableOrderClosed
	}
	t.Closed = true
	t.PaymentType = payment
	t.AmountPaid = amountPaid
	t.TotalPrice = t.CalculateTotalPrice()
	t.RequestingService = false
	return nil
}

// OutstandingAmount is the unpaid remainder, negative when overpaid.
func (t *TableOrder) OutstandingAmount() float64 {
	return t.CalculateTotalPrice() - t.AmountPaid
}

// VisibleToKitchen reports whether the kitchen display should show the
// order: dispatched and not yet closed.
func (t *TableOrder) VisibleToKitchen() bool {
	return t.SentToKitchen && !t.Closed
}
