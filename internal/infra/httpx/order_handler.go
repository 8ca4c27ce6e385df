package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

// CreateOrder validates the request, runs the lifecycle engine and answers
// 201 with the fully materialized order, not a bare identifier.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ClientID == 0 || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "client_id and items are required")
		return
	}

	slog.InfoContext(r.Context(), "creating order", "client_id", req.ClientID, "lines", len(req.Items))

	order, err := h.orders.Create(r.Context(), req.ClientID, mapLines(req.Items))
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrderToResponse(order))
}

// GetOrderByID retrieves a single order by its ID.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// ListOrders applies the AND-composed query filters and answers the
// {page, limit, orders} envelope.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	in := app.ListOrdersInput{
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
		Status:  r.URL.Query().Get("status"),
		Section: r.URL.Query().Get("section"),
	}

	var err error
	if in.OrderID, err = queryInt64Ptr(r, "order_id"); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if in.ClientID, err = queryInt64Ptr(r, "client_id"); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "start_date must be yyyy-mm-dd")
			return
		}
		in.StartDate = &t
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "end_date must be yyyy-mm-dd")
			return
		}
		// Inclusive of the whole end day.
		t = t.AddDate(0, 0, 1)
		in.EndDate = &t
	}

	orders, page, limit, err := h.orders.List(r.Context(), in)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	out := OrderListResponse{Page: page, Limit: limit, Orders: make([]OrderResponse, len(orders))}
	for i, o := range orders {
		out.Orders[i] = mapOrderToResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

// UpdateOrder applies a partial update; a present items list replaces the
// order's lines wholesale. Status "cancelled" delegates to the cancel
// operation so stock restoration stays in one place.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	in := app.UpdateOrderInput{
		ClientID: req.ClientID,
		Status:   req.Status,
	}
	if req.Items != nil {
		lines := mapLines(*req.Items)
		in.Items = &lines
	}

	order, err := h.orders.Update(r.Context(), id, in)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// CancelOrder releases the order's stock and freezes it as cancelled.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	order, err := h.orders.Cancel(r.Context(), id)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "order cancelled", "order_id", id)
	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

// DeleteOrder removes an order and its items, releasing reserved stock.
// Admin only; the role check runs in the router middleware.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	if err := h.orders.Delete(r.Context(), id); err != nil {
		writeFault(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "order deleted", "order_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListOrderEvents exposes the audit trail for one order.
func (h *Handler) ListOrderEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	// The trail may be empty for orders predating the log; only the order
	// itself must exist.
	if _, err := h.orders.Get(r.Context(), id); err != nil {
		writeFault(w, r, err)
		return
	}

	entries, err := h.orders.Events(r.Context(), id)
	if err != nil && !fault.IsNotFound(err) {
		writeFault(w, r, err)
		return
	}

	out := make([]OrderEventResponse, len(entries))
	for i, e := range entries {
		out[i] = mapOrderEventToResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func mapLines(items []OrderItemRequest) []app.NewOrderLine {
	lines := make([]app.NewOrderLine, len(items))
	for i, it := range items {
		lines[i] = app.NewOrderLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return lines
}
