package client

import "errors"

var (
	// ErrDaemonNotRunning is returned when no daemon listens on the socket
	ErrDaemonNotRunning = errors.New("daemon not running")

	// ErrPermissionDenied is returned when the socket cannot be opened by the current user
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when 404 is returned from the daemon
	ErrNotFound = errors.New("404 not found")

	// ErrBadRequest is returned when the daemon rejects the submitted data
	ErrBadRequest = errors.New("rejected by daemon")
)
