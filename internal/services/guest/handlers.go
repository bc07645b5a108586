package guest

import (
	"encoding/json"
	"errors"
	"net/http"

	"dining-system/internal/domain"
	"dining-system/internal/repository"
	"dining-system/internal/services/httputil"
)

type GuestHandler struct {
	service GuestServiceInterface
}

func NewGuestHandler(s GuestServiceInterface) *GuestHandler {
	return &GuestHandler{service: s}
}

func (h *GuestHandler) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/restaurants/{code}", h.FindRestaurant)
	mux.HandleFunc("GET /api/v1/restaurants/{code}/menu-cards", h.FindMenuCards)
	mux.HandleFunc("GET /api/v1/restaurants/{code}/tables/{number}", h.FindTable)
	mux.HandleFunc("POST /api/v1/restaurants/{code}/tables/{number}/table-order", h.OpenTableOrder)
	mux.HandleFunc("POST /api/v1/table-orders/{id}/personal-orders", h.InsertPersonalOrder)
	mux.HandleFunc("POST /api/v1/table-orders/{id}/service-requests", h.RequestService)
	return mux
}

func (h *GuestHandler) FindRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.service.FindRestaurantByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	if rest == nil {
		httputil.WriteProblem(w, http.StatusNotFound, "not_found", "restaurant not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toRestaurantResponse(rest))
}

func (h *GuestHandler) FindMenuCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.FindMenuCardsByRestaurantCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]MenuCardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toMenuCardResponse(c))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *GuestHandler) FindTable(w http.ResponseWriter, r *http.Request) {
	number := httputil.PathInt(r, "number")
	if number < 0 {
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", "table number must be numeric")
		return
	}
	table, err := h.service.FindTableByCode(r.Context(), number, r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	if table == nil {
		httputil.WriteProblem(w, http.StatusNotFound, "not_found", "table not found")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTableResponse(table))
}

func (h *GuestHandler) OpenTableOrder(w http.ResponseWriter, r *http.Request) {
	number := httputil.PathInt(r, "number")
	if number < 0 {
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", "table number must be numeric")
		return
	}
	order, err := h.service.OpenTableOrder(r.Context(), number, r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTableOrderResponse(order))
}

func (h *GuestHandler) InsertPersonalOrder(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathInt(r, "id")
	var req PersonalOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteProblem(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	order, err := h.service.InsertPersonalOrder(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, PersonalOrderResponse{
		ID:           order.ID,
		CustomerName: order.CustomerName,
		LunchTotal:   order.TotalLunchPrice(),
		EveningTotal: order.TotalEveningPrice(),
	})
}

func (h *GuestHandler) RequestService(w http.ResponseWriter, r *http.Request) {
	id := httputil.PathInt(r, "id")
	if err := h.service.RequestService(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]any{"table_order_id": id, "requesting_service": true})
}

func writeError(w http.ResponseWriter, err error) {
	var accessErr *repository.AccessError
	switch {
	case errors.Is(err, ErrInvalidInput):
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
