package db

import "errors"

var (
	// ErrValidation wraps field-level constraint failures.
	ErrValidation         = errors.New("validation failed")
	ErrCarNotFound        = errors.New("car not found")
	ErrGarageNotFound     = errors.New("garage not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotOwner           = errors.New("caller is not the seller of this listing")
	ErrDuplicateVIN       = errors.New("a listing with this VIN already exists")
	ErrAlreadySaved       = errors.New("car already saved")
	ErrAlreadyWatchlisted = errors.New("car already in watchlist")
)
