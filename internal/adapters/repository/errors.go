package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrStorage       = errors.New("storage failure")
	ErrUnknownDriver = errors.New("unknown storage driver")
)
