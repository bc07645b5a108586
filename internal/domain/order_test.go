package domain

import "testing"

func fixedItem(id int, price float64) MenuItem {
	return &SideDish{ItemDetails: ItemDetails{ID: id}, FixedPrice: price}
}

func TestLineAdditionalPriceSumsOnTopOfBase(t *testing.T) {
	mc := &MainCourse{ItemDetails: ItemDetails{ID: 1}, LunchPrice: 100, EveningPrice: 140}
	line := &PersonalOrderLine{
		Item:      mc,
		Quantity:  2,
		Status:    LinePending,
		AddOn:     &AddOnOption{ID: 1, AdditionalPrice: 12},
		Selection: &SelectionOption{ID: 2, AdditionalPrice: 5},
	}

	if got := line.AdditionalPrice(); got != 17 {
		t.Errorf("AdditionalPrice() = %v, want 17", got)
	}
	if got := line.Price(Lunch); got != (100+17)*2 {
		t.Errorf("lunch line price = %v, want %v", got, (100+17)*2)
	}
	if got := line.Price(Evening); got != (140+17)*2 {
		t.Errorf("evening line price = %v, want %v", got, (140+17)*2)
	}
}

func TestPersonalOrderTotalsPerPeriod(t *testing.T) {
	order := &PersonalOrder{CustomerName: "Alice", CustomerAge: 30}
	prices := []struct{ lunch, evening float64 }{
		{50, 75}, {75, 100}, {100, 150}, {150, 205},
	}
	for i, p := range prices {
		order.AddPersonalOrderLine(&PersonalOrderLine{
			Item: &MainCourse{
				ItemDetails:  ItemDetails{ID: i + 1},
				LunchPrice:   p.lunch,
				EveningPrice: p.evening,
			},
			Quantity: 1,
			Status:   LinePending,
		})
	}

	if got := order.TotalLunchPrice(); got != 375 {
		t.Errorf("lunch total = %v, want 375", got)
	}
	if got := order.TotalEveningPrice(); got != 530 {
		t.Errorf("evening total = %v, want 530", got)
	}
}

func TestOrderingSameItemTwiceYieldsTwoLines(t *testing.T) {
	item := fixedItem(1, 50)
	order := &PersonalOrder{CustomerName: "Bob", CustomerAge: 25}
	order.AddPersonalOrderLine(&PersonalOrderLine{Item: item, Quantity: 1, Status: LinePending})
	order.AddPersonalOrderLine(&PersonalOrderLine{Item: item, Quantity: 1, Status: LinePending})

	if len(order.Lines) != 2 {
		t.Fatalf("got %d lines, want 2 (no dedup)", len(order.Lines))
	}
	if got := order.TotalLunchPrice(); got != 100 {
		t.Errorf("total = %v, want 100", got)
	}
}

func TestOnlyHighestDiscountApplies(t *testing.T) {
	order := &PersonalOrder{CustomerName: "Carol", CustomerAge: 40}
	order.AddPersonalOrderLine(&PersonalOrderLine{Item: fixedItem(1, 200), Quantity: 1, Status: LinePending})
	order.AddDiscount(Discount{Name: "birthday", Percent: 10})
	order.AddDiscount(Discount{Name: "loyalty", Percent: 25})
	order.AddDiscount(Discount{Name: "coupon", Percent: 5})

	best, ok := order.BestDiscount()
	if !ok || best.Name != "loyalty" {
		t.Fatalf("BestDiscount() = %v, %v; want loyalty", best, ok)
	}
	// 200 minus 25%, not minus 40%.
	if got := order.TotalLunchPrice(); got != 150 {
		t.Errorf("discounted total = %v, want 150", got)
	}
	if len(order.Discounts) != 3 {
		t.Errorf("all selected discounts must stay recorded, got %d", len(order.Discounts))
	}
}

func TestNoDiscountLeavesTotalUntouched(t *testing.T) {
	order := &PersonalOrder{}
	order.AddPersonalOrderLine(&PersonalOrderLine{Item: fixedItem(1, 80), Quantity: 1, Status: LinePending})

	if _, ok := order.BestDiscount(); ok {
		t.Error("BestDiscount() reported a discount on an order without any")
	}
	if got := order.TotalLunchPrice(); got != 80 {
		t.Errorf("total = %v, want 80", got)
	}
}
