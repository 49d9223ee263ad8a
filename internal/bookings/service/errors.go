package service

import (
	"errors"

	bookingserrors "safari/internal/bookings/errors"
	"safari/internal/bookings/validator"
	apperrors "safari/pkg/errors"
)

// translate maps repository and lifecycle errors onto API errors.
func (s *bookingService) translate(err error, id string) error {
	var verrs validator.ValidationErrors

	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.As(err, &verrs):
		return apperrors.Validation("Invalid booking input", verrs.Details())
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case errors.Is(err, bookingserrors.ErrPackageNotFound), errors.Is(err, bookingserrors.ErrPackageInactive):
		return apperrors.NotFound("Package")
	case errors.Is(err, bookingserrors.ErrVersionConflict):
		return apperrors.Conflict("Booking was modified concurrently, please retry")
	case errors.Is(err, bookingserrors.ErrNotAvailable):
		return apperrors.InvalidTransition("Booking is not available to accept")
	case errors.Is(err, bookingserrors.ErrIneligibleStatus):
		return apperrors.InvalidTransition("Booking status does not allow this assignment")
	case errors.Is(err, bookingserrors.ErrAssignmentsNotAccepted):
		return apperrors.InvalidTransition("Both driver and guide must accept before the booking can be confirmed")
	case errors.Is(err, bookingserrors.ErrTerminal):
		return apperrors.InvalidTransition("Booking is already closed")
	case errors.Is(err, bookingserrors.ErrNotCancellable):
		return apperrors.InvalidTransition("Booking can no longer be cancelled")
	case errors.Is(err, bookingserrors.ErrInvalidStatus):
		return apperrors.InvalidInput("Invalid booking status")
	case errors.Is(err, bookingserrors.ErrUnknownRole):
		return apperrors.InvalidInput("Role must be driver or guide")
	case errors.Is(err, bookingserrors.ErrNotAssignee):
		return apperrors.Forbidden("You are not assigned to this booking")
	case errors.Is(err, bookingserrors.ErrNotOwner):
		return apperrors.Forbidden("Not authorized to modify this booking")
	default:
		return apperrors.Internal("Failed to process booking", err)
	}
}
