package database

import "errors"

var (
	// ErrCodeExists is returned when an attempt is made to insert
	// a link with a short code that already exists.
	ErrCodeExists = errors.New("short code exists")
	// ErrLinkNotFound is returned when an attempt is made to retrieve
	// a link using a short code that doesn't exist.
	ErrLinkNotFound = errors.New("link not found")
	// ErrLogUnavailable is returned when an access log entry cannot be
	// appended because the underlying persistence is unavailable.
	ErrLogUnavailable = errors.New("access log unavailable")
)
