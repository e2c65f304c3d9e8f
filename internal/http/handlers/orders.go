package handlers

import (
	"net/http"
	"strconv"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// OrderHandler serves the order endpoints.
type OrderHandler struct {
	logger   logx.Logger
	orders   orderUsecase
	dispatch dispatchUsecase
}

// NewOrderHandler wires the order ledger and the dispatcher into HTTP handlers.
func NewOrderHandler(logger logx.Logger, orders orderUsecase, d dispatchUsecase) *OrderHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &OrderHandler{logger: logger, orders: orders, dispatch: d}
}

// Create handles POST /orders. The calling shop owns the order; the response
// carries the assigned courier, or null when the order stays pending.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok || c.Role != domain.RoleShop {
		writeError(h.logger, w, r, http.StatusForbidden, "only shops may create orders")
		return
	}
	var req createOrderRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	cmd, err := req.toCommand(c.ID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	res, err := h.dispatch.CreateOrder(r.Context(), cmd)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	resp := createOrderResponse{Order: orderToDTO(res.Order)}
	if res.Courier != nil {
		cd := courierToDTO(*res.Courier)
		resp.AssignedCourier = &cd
	}
	w.Header().Set("Location", "/orders/"+strconv.FormatInt(res.Order.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, resp)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	c, ok := caller(r)
	if !ok {
		writeError(h.logger, w, r, http.StatusForbidden, "caller identity required")
		return
	}

	o, err := h.orders.GetFor(r.Context(), id, c)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(*o))
}

// UpdateStatus handles POST /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	c, ok := caller(r)
	if !ok {
		writeError(h.logger, w, r, http.StatusForbidden, "caller identity required")
		return
	}
	var req updateOrderStatusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	target, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	o, err := h.orders.Transition(r.Context(), id, c, target)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToDTO(o))
}

// ListStore handles GET /orders/store for the calling shop.
func (h *OrderHandler) ListStore(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok || c.Role != domain.RoleShop {
		writeError(h.logger, w, r, http.StatusForbidden, "only shops have a store list")
		return
	}
	list, err := h.orders.ListByShop(r.Context(), c.ID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToDTO(list))
}

// ListMine handles GET /orders/mine for the calling courier.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(r)
	if !ok || c.Role != domain.RoleCourier {
		writeError(h.logger, w, r, http.StatusForbidden, "only couriers have assigned orders")
		return
	}
	list, err := h.orders.ListByCourier(r.Context(), c.ID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, ordersToDTO(list))
}
