package vehicle

import "errors"

var (
	// ErrVehicleNotFound indicates no vehicle has the stock number.
	ErrVehicleNotFound = errors.New("vehicle not found")
	// ErrDuplicateStockNumber indicates the stock number is already in inventory.
	ErrDuplicateStockNumber = errors.New("stock number already exists")
	// ErrInvalidInput indicates invalid vehicle input.
	ErrInvalidInput = errors.New("invalid vehicle input")
)
