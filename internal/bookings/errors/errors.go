package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrVersionConflict = errors.New("booking was modified concurrently")

	ErrPackageNotFound = errors.New("package not found")

	ErrPackageInactive = errors.New("package is not available for booking")

	ErrNotAvailable = errors.New("booking is not available to accept")

	ErrIneligibleStatus = errors.New("booking status does not allow this assignment")

	ErrNotAssignee = errors.New("actor is not assigned to this booking")

	ErrAssignmentsNotAccepted = errors.New("both driver and guide must accept before confirmation")

	ErrInvalidStatus = errors.New("invalid booking status")

	ErrUnknownRole = errors.New("unknown assignment role")

	ErrTerminal = errors.New("booking is already closed")

	ErrNotCancellable = errors.New("booking can no longer be cancelled")

	ErrNotOwner = errors.New("booking belongs to another customer")
)
