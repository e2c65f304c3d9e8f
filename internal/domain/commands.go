package domain

import (
	"fmt"
	"strings"

	"courier-dispatch/internal/apperr"
)

// CreateOrderInput is the raw shape of an order request.
type CreateOrderInput struct {
	ShopID           int64
	CustomerName     string
	CustomerPhone    string
	DeliveryAddress  string
	DeliveryDistrict string
	DeliveryLocation *Point
	PackageDetails   string
	Priority         string
}

// CreateOrderCommand is a validated order request. Build it with NewCreateOrderCommand.
type CreateOrderCommand struct {
	ShopID           int64
	CustomerName     string
	CustomerPhone    string
	Address          string
	District         string
	DeliveryLocation *Point
	PackageDetails   string
	Priority         Priority
}

// NewCreateOrderCommand trims and validates the input.
func NewCreateOrderCommand(in CreateOrderInput) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		ShopID:           in.ShopID,
		CustomerName:     strings.TrimSpace(in.CustomerName),
		CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
		Address:          strings.TrimSpace(in.DeliveryAddress),
		District:         strings.TrimSpace(in.DeliveryDistrict),
		DeliveryLocation: in.DeliveryLocation,
		PackageDetails:   strings.TrimSpace(in.PackageDetails),
		Priority:         Priority(strings.ToLower(strings.TrimSpace(in.Priority))),
	}
	if cmd.Priority == "" {
		cmd.Priority = PriorityNormal
	}

	switch {
	case cmd.ShopID <= 0:
		return CreateOrderCommand{}, fmt.Errorf("%w: shop id must be positive", apperr.ErrInvalid)
	case cmd.CustomerName == "":
		return CreateOrderCommand{}, fmt.Errorf("%w: customer name is required", apperr.ErrInvalid)
	case cmd.CustomerPhone == "":
		return CreateOrderCommand{}, fmt.Errorf("%w: customer phone is required", apperr.ErrInvalid)
	case cmd.Address == "":
		return CreateOrderCommand{}, fmt.Errorf("%w: delivery address is required", apperr.ErrInvalid)
	case cmd.District == "":
		return CreateOrderCommand{}, fmt.Errorf("%w: delivery district is required", apperr.ErrInvalid)
	case cmd.PackageDetails == "":
		return CreateOrderCommand{}, fmt.Errorf("%w: package details are required", apperr.ErrInvalid)
	case !cmd.Priority.Valid():
		return CreateOrderCommand{}, fmt.Errorf("%w: unknown priority %q", apperr.ErrInvalid, in.Priority)
	}
	if p := cmd.DeliveryLocation; p != nil {
		if _, err := NewPoint(p.Lon, p.Lat); err != nil {
			return CreateOrderCommand{}, err
		}
	}
	return cmd, nil
}

// FullAddress is the stored form of the delivery address.
func (c CreateOrderCommand) FullAddress() string {
	return c.Address + ", " + c.District
}

// ParseOrderStatus parses a requested target status.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, s)
	}
	return st, nil
}

// NewCourier validates registration data and returns an inactive, offline courier.
func NewCourier(name, phone string) (Courier, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return Courier{}, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}
	if !ValidatePhone(phone) {
		return Courier{}, fmt.Errorf("%w: phone %q", apperr.ErrInvalid, phone)
	}
	return Courier{Name: name, Phone: phone, Status: CourierOffline}, nil
}

// NewShop validates registration data.
func NewShop(name, address string, location *Point) (Shop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Shop{}, fmt.Errorf("%w: name is required", apperr.ErrInvalid)
	}
	if location != nil {
		if _, err := NewPoint(location.Lon, location.Lat); err != nil {
			return Shop{}, err
		}
	}
	return Shop{Name: name, AddressText: strings.TrimSpace(address), Location: location}, nil
}
