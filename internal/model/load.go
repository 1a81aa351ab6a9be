package model

import "time"

// Load status values. A load moves to in_transit when a driver checks in
// against it; the remaining transitions are driven by dispatchers through
// the loads CRUD endpoints.
const (
	LoadPending   = "pending"
	LoadInTransit = "in_transit"
	LoadDelivered = "delivered"
)

// Load is a freight assignment a driver is dispatched to pick up or deliver.
type Load struct {
	ID             uint64    `json:"id"`
	LoadNumber     string    `json:"load_number"`
	ShipperName    string    `json:"shipper_name"`
	ShipperAddress string    `json:"shipper_address"`
	DriverID       *uint64   `json:"driver_id"`
	ShipmentID     *uint64   `json:"shipment_id"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// LoadPatch lists every field a PUT /v1/loads/:id request may change. A nil
// pointer leaves the stored value untouched; each set field is applied
// explicitly by the repository.
type LoadPatch struct {
	LoadNumber     *string `json:"load_number"`
	ShipperName    *string `json:"shipper_name"`
	ShipperAddress *string `json:"shipper_address"`
	DriverID       *uint64 `json:"driver_id"`
	Status         *string `json:"status"`
}
