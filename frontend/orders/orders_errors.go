package orders

import "errors"

var (
	errInvalidForm   = errors.New("Invalid form data")
	errMissingFields = errors.New("Client and cultivar are required")
	errInvalidDate   = errors.New("Invalid date")
	errInvalidCount  = errors.New("Counts must be non-negative numbers")
)
