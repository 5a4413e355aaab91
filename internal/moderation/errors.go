package moderation

import "errors"

var (
	// ErrNoTargetUser indicates an admin operation without a target user id.
	ErrNoTargetUser = errors.New("no target user specified")
	// ErrHistoryUnavailable indicates neither the remote store nor a cache
	// could provide a user's offense history.
	ErrHistoryUnavailable = errors.New("offense history unavailable")
)
