package ingest

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrNoMatchFiles      = errors.New("no match files found")
	ErrMissingColumn     = errors.New("missing required column")
	ErrMalformedRow      = errors.New("malformed delivery row")
	ErrDuplicateDelivery = errors.New("duplicate delivery")
)
