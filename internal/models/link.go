package models

import "time"

// Link represents a shortened URL and its associated metadata.
type Link struct {
	// ID is the unique identifier for the link record.
	ID int64
	// Code is the short code associated with the original URL.
	// It is unique and immutable once assigned.
	Code string
	// OriginalURL is the original, full-length URL that the code points to.
	OriginalURL string
	// AccessCount tracks the number of successful resolutions of the link.
	AccessCount int64
	// CreatedAt is the timestamp indicating when the link was created.
	CreatedAt time.Time
	// ExpiresAt is the timestamp after which the link no longer resolves.
	ExpiresAt time.Time
}

// Expired reports whether the link is past its TTL at the given instant.
// Expiry is derived from ExpiresAt at read time; expired records are kept.
func (l *Link) Expired(at time.Time) bool {
	return at.After(l.ExpiresAt)
}

// AccessLogEntry records a single successful resolution of a link.
// Entries are immutable and append-only.
type AccessLogEntry struct {
	// ID is the unique identifier for the log entry.
	ID int64
	// Code references the link the entry belongs to.
	Code string
	// Origin identifies the caller, e.g. its remote address.
	Origin string
	// AccessedAt is the timestamp of the resolution.
	AccessedAt time.Time
}

// LinkReport combines link metadata with its full access history.
type LinkReport struct {
	Link
	// Entries holds the access log in insertion order, which is
	// chronological order since entries are append-only.
	Entries []AccessLogEntry
}
