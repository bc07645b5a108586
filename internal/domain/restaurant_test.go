package domain

import (
	"testing"
	"time"
)

func TestSetTableCodeConcatenates(t *testing.T) {
	tests := []struct {
		number int
		code   string
		want   string
	}{
		{1, "001", "1001"},
		{12, "001", "12001"},
		{7, "042", "7042"},
	}
	for _, tt := range tests {
		table := &Table{}
		table.SetTableCode(tt.number, tt.code)
		if table.Code != tt.want {
			t.Errorf("SetTableCode(%d, %q): code = %q, want %q", tt.number, tt.code, table.Code, tt.want)
		}
	}
}

// Full walk-through: restaurant, table code, and a table order whose
// four lines price to 375 at lunch and 530 in the evening.
func TestGuestVisitEndToEnd(t *testing.T) {
	rest := &Restaurant{Code: "001", Name: "Bones", City: "Aalborg", StreetName: "epicStreet"}

	table := &Table{}
	table.SetTableCode(1, rest.Code)
	rest.Tables = append(rest.Tables, table)
	if table.Code != "1001" {
		t.Fatalf("table code = %q, want 1001", table.Code)
	}

	card := NewMenuCard(1, "Dinner Card")
	prices := []struct{ lunch, evening float64 }{
		{50, 75}, {75, 100}, {100, 150}, {150, 205},
	}
	var items []MenuItem
	for i, p := range prices {
		mc := &MainCourse{
			ItemDetails:  ItemDetails{ID: i + 1, MadeByKitchenStaff: true},
			LunchPrice:   p.lunch,
			EveningPrice: p.evening,
		}
		card.AddAvailabilityTracker(&AvailabilityTracker{Item: mc, Available: true})
		items = append(items, mc)
	}
	rest.MenuCards = append(rest.MenuCards, card)
	if len(card.AvailableMenuItems()) != 4 {
		t.Fatalf("expected all 4 items orderable")
	}

	guest := &PersonalOrder{CustomerName: "Alice", CustomerAge: 30}
	for _, item := range items {
		guest.AddPersonalOrderLine(&PersonalOrderLine{Item: item, Quantity: 1, Status: LinePending})
	}

	lunchVisit := NewTableOrder(time.Date(2025, 6, 12, 12, 0, 0, 0, time.Local))
	if err := lunchVisit.AddPersonalOrder(guest); err != nil {
		t.Fatal(err)
	}
	if got := lunchVisit.CalculateTotalPrice(); got != 375 {
		t.Errorf("lunch visit total = %v, want 375", got)
	}

	eveningVisit := NewTableOrder(time.Date(2025, 6, 12, 19, 0, 0, 0, time.Local))
	if err := eveningVisit.AddPersonalOrder(guest); err != nil {
		t.Fatal(err)
	}
	if got := eveningVisit.CalculateTotalPrice(); got != 530 {
		t.Errorf("evening visit total = %v, want 530", got)
	}
}
