package handlers

import "time"

type pointDTO struct {
	Lng *float64 `json:"lng"`
	Lat *float64 `json:"lat"`
}

type locationDTO struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

type orderDTO struct {
	ID                 int64        `json:"id"`
	ShopID             int64        `json:"shop_id"`
	AssignedCourier    *int64       `json:"assigned_courier,omitempty"`
	CustomerName       string       `json:"customer_name"`
	CustomerPhone      string       `json:"customer_phone"`
	DeliveryAddress    string       `json:"delivery_address"`
	DeliveryDistrict   string       `json:"delivery_district"`
	DeliveryLocation   *locationDTO `json:"delivery_location,omitempty"`
	PackageDetails     string       `json:"package_details"`
	Priority           string       `json:"priority"`
	Status             string       `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	AssignedAt         *time.Time   `json:"assigned_at,omitempty"`
	PickedAt           *time.Time   `json:"picked_at,omitempty"`
	DeliveredAt        *time.Time   `json:"delivered_at,omitempty"`
	ActualDeliveryTime *time.Time   `json:"actual_delivery_time,omitempty"`
}

type courierDTO struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Phone    string       `json:"phone"`
	Location *locationDTO `json:"location,omitempty"`
	Active   bool         `json:"active"`
	Status   string       `json:"status"`
}

type nearbyCourierDTO struct {
	courierDTO
	DistanceMeters float64 `json:"distance_meters"`
}

type shopDTO struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	AddressText string       `json:"address_text"`
	Location    *locationDTO `json:"location,omitempty"`
}

type nearbyShopDTO struct {
	shopDTO
	DistanceMeters float64 `json:"distance_meters"`
}

type districtDTO struct {
	Key      string      `json:"key"`
	Name     string      `json:"name"`
	Location locationDTO `json:"location"`
}

type createOrderRequest struct {
	CustomerName     string    `json:"customer_name"`
	CustomerPhone    string    `json:"customer_phone"`
	DeliveryAddress  string    `json:"delivery_address"`
	DeliveryDistrict string    `json:"delivery_district"`
	DeliveryLocation *pointDTO `json:"delivery_location,omitempty"`
	PackageDetails   string    `json:"package_details"`
	Priority         string    `json:"priority,omitempty"`
}

type createOrderResponse struct {
	Order           orderDTO    `json:"order"`
	AssignedCourier *courierDTO `json:"assigned_courier"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type registerCourierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type courierStatusRequest struct {
	Active *bool `json:"active"`
}

type courierStatusResponse struct {
	Active bool   `json:"active"`
	Status string `json:"status"`
}

type nearbyRequest struct {
	Origin *pointDTO `json:"origin"`
	Limit  int       `json:"limit,omitempty"`
}

type registerShopRequest struct {
	Name        string    `json:"name"`
	AddressText string    `json:"address_text"`
	Location    *pointDTO `json:"location,omitempty"`
}
