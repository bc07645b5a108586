package domain

// LineStatus tracks one ordered line through the kitchen.
type LineStatus string

const (
	LinePending    LineStatus = "pending"
	LineInProgress LineStatus = "in_progress"
	LineDone       LineStatus = "done"
)

// PersonalOrderLine is one ordered item with the guest's choices.
// The referenced menu item is shared and read-only; the line owns
// everything else. Ordering the same item twice yields two lines,
// each independently priced and tracked.
type PersonalOrderLine struct {
	ID        int
	Item      MenuItem
	Quantity  int
	Status    LineStatus
	Notes     string
	AddOn     *AddOnOption
	Selection *SelectionOption
}

// AdditionalPrice is the per-unit delta from the chosen add-on and
// selection option, summed on top of the item's base price.
func (l *PersonalOrderLine) AdditionalPrice() float64 {
	var extra float64
	if l.AddOn != nil {
		extra += l.AddOn.AdditionalPrice
	}
	if l.Selection != nil {
		extra += l.Selection.AdditionalPrice
	}
	return extra
}

// Price returns the line total for the given meal period.
func (l *PersonalOrderLine) Price(period MealPeriod) float64 {
	return (l.Item.Price(period) + l.AdditionalPrice()) * float64(l.Quantity)
}

// Discount reduces a personal order's effective price by a percentage.
type Discount struct {
	Name    string
	Percent float64
}

// PersonalOrder is one guest's order within a table order. Every
// selected discount is recorded, but only the single highest-valued
// one is applied to the total.
type PersonalOrder struct {
	ID           int
	CustomerName string
	CustomerAge  int
	Lines        []*PersonalOrderLine
	Discounts    []Discount
}

func (o *PersonalOrder) AddPersonalOrderLine(l *PersonalOrderLine) {
	o.Lines = append(o.Lines, l)
}

func (o *PersonalOrder) AddDiscount(d Discount) {
	o.Discounts = append(o.Discounts, d)
}

// BestDiscount picks the highest-valued discount. Ties keep the first.
func (o *PersonalOrder) BestDiscount() (Discount, bool) {
	if len(o.Discounts) == 0 {
		return Discount{}, false
	}
	best := o.Discounts[0]
	for _, d := range o.Discounts[1:] {
		if d.Percent > best.Percent {
			best = d
		}
	}
	return best, true
}

// Subtotal sums every line's price for the period, before discounts.
func (o *PersonalOrder) Subtotal(period MealPeriod) float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += l.Price(period)
	}
	return sum
}

// Total applies the best discount to the subtotal.
func (o *PersonalOrder) Total(period MealPeriod) float64 {
	sum := o.Subtotal(period)
	if best, ok := o.BestDiscount(); ok {
		sum -= sum * best.Percent / 100
	}
	return sum
}

func (o *PersonalOrder) TotalLunchPrice() float64   { return o.Total(Lunch) }
func (o *PersonalOrder) TotalEveningPrice() float64 { return o.Total(Evening) }
