package handlers

import (
	"net/http"
	"strconv"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// CourierHandler serves the courier endpoints.
type CourierHandler struct {
	logger   logx.Logger
	couriers courierUsecase
	dispatch dispatchUsecase
}

// NewCourierHandler wires the courier registry and the dispatcher into HTTP handlers.
func NewCourierHandler(logger logx.Logger, couriers courierUsecase, d dispatchUsecase) *CourierHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &CourierHandler{logger: logger, couriers: couriers, dispatch: d}
}

// Register handles POST /couriers. New couriers start inactive and offline.
func (h *CourierHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCourierRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	c, err := h.couriers.Register(r.Context(), req.Name, req.Phone)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/couriers/"+strconv.FormatInt(c.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, courierToDTO(c))
}

// Get handles GET /couriers/{id}.
func (h *CourierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.couriers.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierToDTO(*c))
}

// SetStatus handles POST /couriers/{id}/status. Only the courier itself may toggle it.
func (h *CourierHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if !self(r, domain.RoleCourier, id) {
		writeError(h.logger, w, r, http.StatusForbidden, "couriers may only change their own status")
		return
	}
	var req courierStatusRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	if req.Active == nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "active is required")
		return
	}

	c, err := h.dispatch.SetCourierActive(r.Context(), id, *req.Active)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, courierStatusResponse{Active: c.Active, Status: string(c.Status)})
}

// ReportLocation handles POST /couriers/{id}/location.
func (h *CourierHandler) ReportLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if !self(r, domain.RoleCourier, id) {
		writeError(h.logger, w, r, http.StatusForbidden, "couriers may only report their own location")
		return
	}
	var req pointDTO
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	p, err := req.toPoint()
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	if err := h.dispatch.ReportCourierLocation(r.Context(), id, p); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Nearby handles POST /couriers/nearby: reservable couriers closest to origin.
func (h *CourierHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	origin, err := req.Origin.toPoint()
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}

	list, err := h.dispatch.FindNearestCouriers(r.Context(), origin, req.Limit)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, nearbyCouriersToDTO(list))
}
