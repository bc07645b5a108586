package staff

import (
	"encoding/json"
	"errors"
	"net/http"

	"dining-system/internal/domain"
	"dining-system/internal/repository"
	"dining-system/internal/services/httputil"
)

type StaffHandler struct {
	service StaffServiceInterface
}

func NewStaffHandler(s StaffServiceInterface) *StaffHandler {
	return &StaffHandler{service: s}
}

func (h *StaffHandler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/kitchen/table-orders", h.KitchenOrders)
	mux.HandleFunc("POST /api/v1/table-orders/{id}/confirm", h.Confirm)
	mux.HandleFunc("POST /api/v1/table-orders/{id}/close", h.Close)
	mux.HandleFunc("PUT /api/v1/table-orders/{id}", h.Update)
	return mux
}

type kitchenOrderResponse struct {
	ID                int     `json:"id"`
	TimeOfArrival     string  `json:"time_of_arrival"`
	MealPeriod        string  `json:"meal_period"`
	PrepMinutes       int     `json:"prep_minutes"`
	RequestingService bool    `json:"requesting_service"`
	TotalPrice        float64 `json:"total_price"`
	Guests            int     `json:"guests"`
}

type closeRequest struct {
	PaymentType string  `json:"payment_type"`
	AmountPaid  float64 `json:"amount_paid"`
}

type updateRequest struct {
	RequestingService *bool    `json:"requesting_service,omitempty"`
	AmountPaid        *float64 `json:"amount_paid,omitempty"`
	PrepMinutes       *int     `json:"prep_minutes,omitempty"`
}

func (h *StaffHandler) KitchenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.FindAllVisibleToKitchenOrders(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]kitchenOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, kitchenOrderResponse{
			ID:                o.ID,
			TimeOfArrival:     o.TimeOfArrival.Format("2006-01-02T15:04:05Z07:00"),
			MealPeriod:        o.MealPeriod().String(),
			PrepMinutes:       o.PreparationMinutes,
			RequestingService: o.RequestingService,
			TotalPrice:        o.CalculateTotalPrice(),
			Guests:            len(o.PersonalOrders),
		})
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *StaffHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.ConfirmAndSendToKitchen(r.Context(), httputil.PathInt(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"table_order_id":  order.ID,
		"sent_to_kitchen": true,
		"total_price":     order.TotalPrice,
		"prep_minutes":    order.PreparationMinutes,
	})
}

func (h *StaffHandler) Close(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	payment := domain.PaymentType(req.PaymentType)
	if payment != domain.PaymentCash && payment != domain.PaymentCard {
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", "payment_type must be cash or card")
		return
	}
	order, err := h.service.CloseTableOrder(r.Context(), httputil.PathInt(r, "id"), payment, req.AmountPaid)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"table_order_id": order.ID,
		"closed":         true,
		"total_price":    order.TotalPrice,
		"amount_paid":    order.AmountPaid,
		"outstanding":    order.OutstandingAmount(),
	})
}

// Update applies partial staff edits to an open order.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	id := httputil.PathInt(r, "id")
	order, err := h.service.FindTableOrderByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if order == nil {
		httputil.WriteProblem(w, http.StatusNotFound, "not_found", "table order not found")
		return
	}
	if order.Closed {
		httputil.WriteProblem(w, http.StatusConflict, "order_closed", "table order is closed")
		return
	}
	if req.RequestingService != nil {
		order.RequestingService = *req.RequestingService
	}
	if req.AmountPaid != nil {
		order.AmountPaid = *req.AmountPaid
	}
	if req.PrepMinutes != nil {
		order.PreparationMinutes = *req.PrepMinutes
	}
	if err := h.service.UpdateTableOrder(r.Context(), order); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"table_order_id": order.ID, "updated": true})
}

func writeError(w http.ResponseWriter, err error) {
	var accessErr *repository.AccessError
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNothingToSend):
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ErrNotFound):
		httputil.WriteProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrTableOrderClosed):
		httputil.WriteProblem(w, http.StatusConflict, "order_closed", err.Error())
	case errors.As(err, &accessErr):
		httputil.WriteProblem(w, http.StatusInternalServerError, "db_error", err.Error())
	default:
		httputil.WriteProblem(w, http.StatusInternalServerError, "internal", err.Error())
	}
}
