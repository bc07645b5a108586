package domain

// MealPeriod selects which of an item's two price points applies.
// The period is decided once per table order from its time of arrival,
// never per line.
type MealPeriod int

const (
	Lunch MealPeriod = iota
	Evening
)

// EveningStartHour is the local hour at which evening pricing begins.
// Arrivals at or after this hour are billed evening prices.
const EveningStartHour = 16

func (p MealPeriod) String() string {
	if p == Evening {
		return "evening"
	}
	return "lunch"
}

// ItemKind discriminates the closed set of menu item variants.
// It doubles as the `kind` column value in the menu_item table.
type ItemKind string

const (
	KindMainCourse     ItemKind = "main_course"
	KindSideDish       ItemKind = "side_dish"
	KindDrink          ItemKind = "drink"
	KindPotatoDish     ItemKind = "potato_dish"
	KindDipsAndSauces  ItemKind = "dips_and_sauces"
	KindSelfServiceBar ItemKind = "self_service_bar"
)

// BarType distinguishes the two self-service bars on the card.
type BarType string

const (
	BarSalad   BarType = "SALAD"
	BarSoftIce BarType = "SOFT_ICE"
)

// ItemDetails carries the fields every variant shares. Embedding it
// satisfies Details() and the sealing marker for all variants.
type ItemDetails struct {
	ID                 int
	Name               string
	Description        string
	PreparationMinutes int
	MadeByKitchenStaff bool
}

func (d ItemDetails) Details() ItemDetails { return d }

func (ItemDetails) menuItem() {}

// MenuItem is the closed variant set of everything orderable from a
// menu card. Every variant answers both price points, so any item that
// made it onto a card is guaranteed priceable. The unexported marker
// keeps the set closed to this package.
type MenuItem interface {
	Details() ItemDetails
	Kind() ItemKind
	// Price returns the base price for the given meal period.
	// Variants with a single fixed price return it for both periods.
	Price(period MealPeriod) float64

	menuItem()
}

// AddOnOption is an extra a guest can bolt onto a main course
// (e.g. extra bacon) for an additional price.
type AddOnOption struct {
	ID              int
	Description     string
	AdditionalPrice float64
}

// SelectionOption is one pick inside a MultipleChoiceMenu.
type SelectionOption struct {
	ID              int
	Description     string
	AdditionalPrice float64
}

// MultipleChoiceMenu groups mutually-related selection options
// ("which cheese?"). Owned by the main course that declares it.
type MultipleChoiceMenu struct {
	ID          int
	Description string
	Options     []SelectionOption
}

// MainCourse is the only variant with distinct lunch and evening
// prices and the only one carrying choice menus and add-ons.
type MainCourse struct {
	ItemDetails
	IntroDescription string
	LunchPrice       float64
	EveningPrice     float64
	ChoiceMenus      []MultipleChoiceMenu
	AddOns           []AddOnOption
}

func (m *MainCourse) Kind() ItemKind { return KindMainCourse }

func (m *MainCourse) Price(period MealPeriod) float64 {
	if period == Evening {
		return m.EveningPrice
	}
	return m.LunchPrice
}

// AddOnByID resolves an add-on owned by this course, nil if unknown.
func (m *MainCourse) AddOnByID(id int) *AddOnOption {
	for i := range m.AddOns {
		if m.AddOns[i].ID == id {
			return &m.AddOns[i]
		}
	}
	return nil
}

// SelectionByID resolves a selection option across all choice menus
// owned by this course, nil if unknown.
func (m *MainCourse) SelectionByID(id int) *SelectionOption {
	for i := range m.ChoiceMenus {
		for j := range m.ChoiceMenus[i].Options {
			if m.ChoiceMenus[i].Options[j].ID == id {
				return &m.ChoiceMenus[i].Options[j]
			}
		}
	}
	return nil
}

type SideDish struct {
	ItemDetails
	FixedPrice float64
}

func (s *SideDish) Kind() ItemKind           { return KindSideDish }
func (s *SideDish) Price(MealPeriod) float64 { return s.FixedPrice }

type Drink struct {
	ItemDetails
	FixedPrice float64
}

func (d *Drink) Kind() ItemKind           { return KindDrink }
func (d *Drink) Price(MealPeriod) float64 { return d.FixedPrice }

type PotatoDish struct {
	ItemDetails
	Premium    bool
	FixedPrice float64
}

func (p *PotatoDish) Kind() ItemKind           { return KindPotatoDish }
func (p *PotatoDish) Price(MealPeriod) float64 { return p.FixedPrice }

type DipsAndSauces struct {
	ItemDetails
	// IsSauce separates warm sauces from cold dips on the printed card.
	IsSauce    bool
	FixedPrice float64
}

func (d *DipsAndSauces) Kind() ItemKind           { return KindDipsAndSauces }
func (d *DipsAndSauces) Price(MealPeriod) float64 { return d.FixedPrice }

type SelfServiceBar struct {
	ItemDetails
	BarType    BarType
	FixedPrice float64
}

func (b *SelfServiceBar) Kind() ItemKind           { return KindSelfServiceBar }
func (b *SelfServiceBar) Price(MealPeriod) float64 { return b.FixedPrice }
