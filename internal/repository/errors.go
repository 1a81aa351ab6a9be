// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across repositories so
// higher layers can map failure scenarios onto HTTP status codes without
// inspecting driver-specific errors.
package repository

import "errors"

// Not-found sentinels, one per entity. Handlers translate these into 404s.
var (
	ErrDriverNotFound    = errors.New("driver not found")
	ErrWarehouseNotFound = errors.New("warehouse not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrShipmentNotFound  = errors.New("shipment not found")
	ErrLoadNotFound      = errors.New("load not found")
	ErrEventNotFound     = errors.New("detention event not found")
)

// ErrEventCompleted is returned when a check-out targets an event that has
// already been completed. The active->completed transition happens at most
// once; a concurrent second caller loses the conditional update and gets
// this error. Handlers should translate it into HTTP 409.
var ErrEventCompleted = errors.New("detention event already completed")

// ErrActiveEventExists is returned by check-in when the single-active-event
// policy is enabled and the load already has an open detention event.
var ErrActiveEventExists = errors.New("load already has an active detention event")

// ErrDuplicate signals a unique-constraint violation (duplicate email,
// license number or load number). Handlers translate it into HTTP 409.
var ErrDuplicate = errors.New("duplicate record")
