package handlers

import (
	"fmt"

	"courier-dispatch/internal/apperr"
	"courier-dispatch/internal/domain"
	"courier-dispatch/internal/geocode"
	"courier-dispatch/internal/service/courier"
	"courier-dispatch/internal/service/shop"
)

func (p *pointDTO) toPoint() (domain.Point, error) {
	if p == nil || p.Lng == nil || p.Lat == nil {
		return domain.Point{}, fmt.Errorf("%w: lng and lat are required", apperr.ErrInvalid)
	}
	return domain.NewPoint(*p.Lng, *p.Lat)
}

// optionalPoint converts an omitted point to nil.
func (p *pointDTO) optionalPoint() (*domain.Point, error) {
	if p == nil {
		return nil, nil
	}
	pt, err := p.toPoint()
	if err != nil {
		return nil, err
	}
	return &pt, nil
}

func locationOf(p *domain.Point) *locationDTO {
	if p == nil {
		return nil
	}
	return &locationDTO{Lng: p.Lon, Lat: p.Lat}
}

func (r createOrderRequest) toCommand(shopID int64) (domain.CreateOrderCommand, error) {
	loc, err := r.DeliveryLocation.optionalPoint()
	if err != nil {
		return domain.CreateOrderCommand{}, err
	}
	return domain.NewCreateOrderCommand(domain.CreateOrderInput{
		ShopID:           shopID,
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		DeliveryAddress:  r.DeliveryAddress,
		DeliveryDistrict: r.DeliveryDistrict,
		DeliveryLocation: loc,
		PackageDetails:   r.PackageDetails,
		Priority:         r.Priority,
	})
}

func orderToDTO(o domain.Order) orderDTO {
	return orderDTO{
		ID:                 o.ID,
		ShopID:             o.ShopID,
		AssignedCourier:    o.AssignedCourier,
		CustomerName:       o.CustomerName,
		CustomerPhone:      o.CustomerPhone,
		DeliveryAddress:    o.DeliveryAddress,
		DeliveryDistrict:   o.DeliveryDistrict,
		DeliveryLocation:   locationOf(o.DeliveryLocation),
		PackageDetails:     o.PackageDetails,
		Priority:           string(o.Priority),
		Status:             string(o.Status),
		CreatedAt:          o.CreatedAt,
		AssignedAt:         o.AssignedAt,
		PickedAt:           o.PickedAt,
		DeliveredAt:        o.DeliveredAt,
		ActualDeliveryTime: o.ActualDeliveryTime,
	}
}

func ordersToDTO(list []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(list))
	for _, o := range list {
		out = append(out, orderToDTO(o))
	}
	return out
}

func courierToDTO(c domain.Courier) courierDTO {
	return courierDTO{
		ID:       c.ID,
		Name:     c.Name,
		Phone:    c.Phone,
		Location: locationOf(c.Location),
		Active:   c.Active,
		Status:   string(c.Status),
	}
}

func nearbyCouriersToDTO(list []courier.Nearby) []nearbyCourierDTO {
	out := make([]nearbyCourierDTO, 0, len(list))
	for _, n := range list {
		out = append(out, nearbyCourierDTO{courierDTO: courierToDTO(n.Courier), DistanceMeters: n.DistanceMeters})
	}
	return out
}

func shopToDTO(s domain.Shop) shopDTO {
	return shopDTO{ID: s.ID, Name: s.Name, AddressText: s.AddressText, Location: locationOf(s.Location)}
}

func nearbyShopsToDTO(list []shop.Nearby) []nearbyShopDTO {
	out := make([]nearbyShopDTO, 0, len(list))
	for _, n := range list {
		out = append(out, nearbyShopDTO{shopDTO: shopToDTO(n.Shop), DistanceMeters: n.DistanceMeters})
	}
	return out
}

func districtsToDTO(list []geocode.District) []districtDTO {
	out := make([]districtDTO, 0, len(list))
	for _, d := range list {
		out = append(out, districtDTO{Key: d.Key, Name: d.Name, Location: locationDTO{Lng: d.Center.Lon, Lat: d.Center.Lat}})
	}
	return out
}
