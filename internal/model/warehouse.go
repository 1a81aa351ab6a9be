package model

// Warehouse is a storage location shipments route through.
type Warehouse struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int    `json:"capacity"`
}

// WarehousePatch holds the optionally-updatable warehouse fields.
type WarehousePatch struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Capacity *int    `json:"capacity"`
}
