package services

import "errors"

// Error kinds returned by the services. Callers distinguish them with
// errors.Is; the HTTP layer maps each kind to a status code.
var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrConflict           = errors.New("already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
