package guest

import "dining-system/internal/domain"

type PersonalOrderRequest struct {
	CustomerName string             `json:"customer_name"`
	CustomerAge  int                `json:"customer_age"`
	Lines        []OrderLineRequest `json:"lines"`
	Discounts    []DiscountRequest  `json:"discounts,omitempty"`
}

type OrderLineRequest struct {
	MenuItemID        int    `json:"menu_item_id"`
	Quantity          int    `json:"quantity"`
	Notes             string `json:"notes,omitempty"`
	AddOnOptionID     *int   `json:"add_on_option_id,omitempty"`
	SelectionOptionID *int   `json:"selection_option_id,omitempty"`
}

type DiscountRequest struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

type RestaurantResponse struct {
	Code       string   `json:"restaurant_code"`
	Name       string   `json:"name"`
	City       string   `json:"city"`
	StreetName string   `json:"street_name"`
	TableCodes []string `json:"table_codes"`
	MenuCards  []string `json:"menu_cards"`
}

type TableResponse struct {
	TableCode      string `json:"table_code"`
	Number         int    `json:"table_number"`
	RestaurantCode string `json:"restaurant_code"`
	TableOrderID   *int   `json:"table_order_id,omitempty"`
}

type MenuItemResponse struct {
	ID           int             `json:"id"`
	Kind         domain.ItemKind `json:"kind"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	LunchPrice   float64         `json:"lunch_price"`
	EveningPrice float64         `json:"evening_price"`
}

type MenuCardResponse struct {
	ID    int                `json:"id"`
	Name  string             `json:"name"`
	Items []MenuItemResponse `json:"items"`
}

type TableOrderResponse struct {
	ID            int     `json:"id"`
	TimeOfArrival string  `json:"time_of_arrival"`
	MealPeriod    string  `json:"meal_period"`
	SentToKitchen bool    `json:"sent_to_kitchen"`
	Closed        bool    `json:"closed"`
	TotalPrice    float64 `json:"total_price"`
}

type PersonalOrderResponse struct {
	ID           int     `json:"id"`
	CustomerName string  `json:"customer_name"`
	LunchTotal   float64 `json:"lunch_total"`
	EveningTotal float64 `json:"evening_total"`
}

func toRestaurantResponse(r *domain.Restaurant) RestaurantResponse {
	resp := RestaurantResponse{
		Code: r.Code, Name: r.Name, City: r.City, StreetName: r.StreetName,
	}
	for _, t := range r.Tables {
		resp.TableCodes = append(resp.TableCodes, t.Code)
	}
	for _, c := range r.MenuCards {
		resp.MenuCards = append(resp.MenuCards, c.Name)
	}
	return resp
}

func toTableResponse(t *domain.Table) TableResponse {
	return TableResponse{
		TableCode: t.Code, Number: t.Number,
		RestaurantCode: t.RestaurantCode, TableOrderID: t.CurrentOrderID,
	}
}

// toMenuCardResponse exposes only the items currently visible on the
// card; hidden trackers never reach guests.
func toMenuCardResponse(c *domain.MenuCard) MenuCardResponse {
	resp := MenuCardResponse{ID: c.ID, Name: c.Name, Items: []MenuItemResponse{}}
	for _, item := range c.AvailableMenuItems() {
		d := item.Details()
		resp.Items = append(resp.Items, MenuItemResponse{
			ID: d.ID, Kind: item.Kind(), Name: d.Name, Description: d.Description,
			LunchPrice: item.Price(domain.Lunch), EveningPrice: item.Price(domain.Evening),
		})
	}
	return resp
}

func toTableOrderResponse(o *domain.TableOrder) TableOrderResponse {
	return TableOrderResponse{
		ID:            o.ID,
		TimeOfArrival: o.TimeOfArrival.Format("2006-01-02T15:04:05Z07:00"),
		MealPeriod:    o.MealPeriod().String(),
		SentToKitchen: o.SentToKitchen,
		Closed:        o.Closed,
		TotalPrice:    o.CalculateTotalPrice(),
	}
}
