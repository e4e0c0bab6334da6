package services

import "errors"

// Service errors are sentinels so handlers can map them to HTTP statuses with
// errors.Is. Notification failures are never surfaced through these: a failed
// send is logged and swallowed after the primary write has committed.
var (
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidAssignee = errors.New("assignee must be the project owner or a member")
)
