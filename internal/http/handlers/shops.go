package handlers

import (
	"net/http"
	"strconv"

	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/logx"
)

// Nearby shop query bounds.
const (
	defaultShopLimit = 10
	maxShopLimit     = 50
)

// NearbyShopRadius bounds the nearby-shops query, in meters.
type NearbyShopRadius float64

// ShopHandler serves the shop endpoints.
type ShopHandler struct {
	logger       logx.Logger
	shops        shopUsecase
	radiusMeters float64
}

// NewShopHandler wires the shop directory into HTTP handlers.
func NewShopHandler(logger logx.Logger, shops shopUsecase, radius NearbyShopRadius) *ShopHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ShopHandler{logger: logger, shops: shops, radiusMeters: float64(radius)}
}

// Register handles POST /shops.
func (h *ShopHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerShopRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	loc, err := req.Location.optionalPoint()
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	sh, err := h.shops.Register(r.Context(), req.Name, req.AddressText, loc)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/shops/"+strconv.FormatInt(sh.ID, 10))
	writeJSON(h.logger, w, r, http.StatusCreated, shopToDTO(sh))
}

// Get handles GET /shops/{id}.
func (h *ShopHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	sh, err := h.shops.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, shopToDTO(*sh))
}

// UpdateLocation handles POST /shops/{id}/location.
func (h *ShopHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if !self(r, domain.RoleShop, id) {
		writeError(h.logger, w, r, http.StatusForbidden, "shops may only move themselves")
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
	if err := h.shops.UpdateLocation(r.Context(), id, p); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Nearby handles POST /shops/nearby for a courier position.
func (h *ShopHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if !decodeJSON(h.logger, w, r, &req) {
		return
	}
	origin, err := req.Origin.toPoint()
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	limit := req.Limit
	switch {
	case limit <= 0:
		limit = defaultShopLimit
	case limit > maxShopLimit:
		limit = maxShopLimit
	}

	list, err := h.shops.Nearby(r.Context(), origin, h.radiusMeters, limit)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, nearbyShopsToDTO(list))
}
