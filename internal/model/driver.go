package model

// Driver is a truck driver known to dispatch. License numbers are unique.
type Driver struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number"`
}

// DriverPatch holds the optionally-updatable driver fields for partial
// updates. Nil pointers are skipped.
type DriverPatch struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	LicenseNumber *string `json:"license_number"`
}
