package domain

import "errors"

var (
	// ErrNotReady is returned when a query arrives before the engine finished initializing.
	ErrNotReady = errors.New("recommendation engine not ready")

	// ErrMissingData means the catalogue file is absent or lacks required columns.
	ErrMissingData = errors.New("catalogue data missing")

	ErrInvalidTopK = errors.New("top_k must be >= 1")
)
