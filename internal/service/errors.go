// Package service implements the application operations over the document
// store: group management, transaction recording and balance queries. All
// dependencies are injected; there are no ambient singletons.
package service

import "errors"

var (
	// ErrUnauthenticated is returned when an operation requires an actor
	// and none is attached to the context.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrUnknownMember is returned when a payer or receiver is not in the
	// group's current member list.
	ErrUnknownMember = errors.New("not a member of this group")

	// ErrPermissionDenied is returned when an actor attempts an operation
	// it is not allowed to perform.
	ErrPermissionDenied = errors.New("permission denied")
)
