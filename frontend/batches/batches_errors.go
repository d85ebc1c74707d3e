package batches

import "errors"

var (
	errInvalidForm   = errors.New("Invalid form data")
	errMissingFields = errors.New("Batch name, explant type and media are required")
	errInvalidDate   = errors.New("Invalid initiation date")
	errInvalidCount  = errors.New("Explant count must be a positive number")
)
