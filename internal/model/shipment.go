package model

// Shipment tracks cargo between an origin and a destination. The driver,
// warehouse and customer references are all optional until assignment.
type Shipment struct {
	ID          uint64  `json:"id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Status      string  `json:"status"`
	DriverID    *uint64 `json:"driver_id"`
	WarehouseID *uint64 `json:"warehouse_id"`
	CustomerID  *uint64 `json:"customer_id"`
}

// ShipmentPatch holds the optionally-updatable shipment fields.
type ShipmentPatch struct {
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Status      *string `json:"status"`
	DriverID    *uint64 `json:"driver_id"`
	WarehouseID *uint64 `json:"warehouse_id"`
	CustomerID  *uint64 `json:"customer_id"`
}
