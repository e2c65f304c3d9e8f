package kafka

import (
	"strings"
	"time"

	"courier-dispatch/internal/domain"
)

// LocationDTO is a longitude/latitude pair on the wire.
type LocationDTO struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// EventDTO is the JSON form of domain.Event
type EventDTO struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	OrderID    int64        `json:"order_id,omitempty"`
	CourierID  int64        `json:"courier_id,omitempty"`
	ShopID     int64        `json:"shop_id,omitempty"`
	Status     string       `json:"status,omitempty"`
	Location   *LocationDTO `json:"location,omitempty"`
}

// FromDomain converts domain.Event to EventDTO
func FromDomain(e domain.Event) EventDTO {
	dto := EventDTO{
		ID:         e.ID,
		Type:       string(e.Type),
		OccurredAt: e.OccurredAt,
		OrderID:    e.OrderID,
		CourierID:  e.CourierID,
		ShopID:     e.ShopID,
		Status:     e.Status,
	}
	if e.Location != nil {
		dto.Location = &LocationDTO{Lon: e.Location.Lon, Lat: e.Location.Lat}
	}
	return dto
}

// ToDomain converts EventDTO to domain.Event
func ToDomain(dto EventDTO) domain.Event {
	e := domain.Event{
		ID:         strings.TrimSpace(dto.ID),
		Type:       domain.EventType(strings.TrimSpace(dto.Type)),
		OccurredAt: dto.OccurredAt,
		OrderID:    dto.OrderID,
		CourierID:  dto.CourierID,
		ShopID:     dto.ShopID,
		Status:     strings.TrimSpace(dto.Status),
	}
	if dto.Location != nil {
		e.Location = &domain.Point{Lon: dto.Location.Lon, Lat: dto.Location.Lat}
	}
	return e
}
