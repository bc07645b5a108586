package domain

import "fmt"

// Restaurant identifies one location by its unique 3-digit code and
// owns the tables and menu cards registered for it.
type Restaurant struct {
	Code       string
	Name       string
	City       string
	StreetName string
	Tables     []*Table
	MenuCards  []*MenuCard
}

// Table is one physical table. The current table order is held as a
// looked-up id maintained by the order side, not an owning pointer:
// an order can outlive the table binding or be reassigned.
type Table struct {
	Number         int
	RestaurantCode string
	Code           string
	CurrentOrderID *int
}

// SetTableCode derives the guest-facing table code by concatenating the
// table number and the restaurant code: table 1 at "001" gives "1001".
func (t *Table) SetTableCode(number int, restaurantCode string) {
	t.Number = number
	t.RestaurantCode = restaurantCode
	t.Code = fmt.Sprintf("%d%s", number, restaurantCode)
}
