package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Transfer token repository sentinels.
	ErrTransferTokenNotFound = errors.New("transfer token not found")
	ErrTransferTokenConsumed = errors.New("transfer token already consumed")
	ErrTokenValueRequired    = errors.New("token value is required")
)
