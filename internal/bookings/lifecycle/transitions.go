package lifecycle

import (
	"time"

	bookingserrors "safari/internal/bookings/errors"
	"safari/pkg/model"
)

// adminAssignable lists the statuses from which staff may assign a role.
var adminAssignable = map[model.Role]map[model.BookingStatus]bool{
	model.RoleDriver: {
		model.StatusPending:          true,
		model.StatusPaymentConfirmed: true,
	},
	model.RoleGuide: {
		model.StatusPending:          true,
		model.StatusPaymentConfirmed: true,
		model.StatusDriverAssigned:   true,
	},
}

var cancellable = map[model.BookingStatus]bool{
	model.StatusPending:          true,
	model.StatusPaymentConfirmed: true,
	model.StatusDriverAssigned:   true,
	model.StatusGuideAssigned:    true,
}

func IsAssignableRole(role model.Role) bool {
	return role == model.RoleDriver || role == model.RoleGuide
}

// CanSelfAssign reports whether actor may accept the booking for role: either
// the booking status is Payment Confirmed and nobody holds the role yet, or
// staff offered the role to actor and it is still unanswered.
func CanSelfAssign(b *model.Booking, role model.Role, actorID string) error {
	track := b.Track(role)
	if track == nil {
		return bookingserrors.ErrUnknownRole
	}
	if b.Phase.IsTerminal() {
		return bookingserrors.ErrNotAvailable
	}
	open := StatusOf(b) == model.StatusPaymentConfirmed && track.AssigneeID == ""
	offered := track.AssigneeID == actorID && !track.Accepted
	if !open && !offered {
		return bookingserrors.ErrNotAvailable
	}
	return nil
}

func SelfAssign(b *model.Booking, role model.Role, actorID string, now time.Time) error {
	if err := CanSelfAssign(b, role, actorID); err != nil {
		return err
	}
	track := b.Track(role)
	track.AssigneeID = actorID
	track.Accepted = true
	accepted := now
	track.AcceptedAt = &accepted
	Touch(b, now)
	return nil
}

// AdminAssign offers role to assigneeID, discarding any earlier assignment or
// acceptance for that role.
func AdminAssign(b *model.Booking, role model.Role, assigneeID, adminID string, now time.Time) error {
	allowed, ok := adminAssignable[role]
	if !ok {
		return bookingserrors.ErrUnknownRole
	}
	if !allowed[StatusOf(b)] {
		return bookingserrors.ErrIneligibleStatus
	}
	assigned := now
	*b.Track(role) = model.Assignment{
		AssigneeID: assigneeID,
		Accepted:   false,
		AcceptedAt: nil,
		AssignedBy: adminID,
		AssignedAt: &assigned,
	}
	Touch(b, now)
	return nil
}

func Complete(b *model.Booking, role model.Role, actorID string, now time.Time) error {
	track := b.Track(role)
	if track == nil {
		return bookingserrors.ErrUnknownRole
	}
	if track.AssigneeID == "" || track.AssigneeID != actorID {
		return bookingserrors.ErrNotAssignee
	}
	if b.Phase == model.StatusCancelled {
		return bookingserrors.ErrTerminal
	}
	completed := now
	track.CompletedAt = &completed
	b.Phase = model.StatusCompleted
	Touch(b, now)
	return nil
}

// AdminComplete confirms a booking once both roles have accepted. Bookings
// that only ever needed one role cannot pass this check.
func AdminComplete(b *model.Booking, now time.Time) error {
	if b.Phase.IsTerminal() {
		return bookingserrors.ErrTerminal
	}
	if !b.Driver.Accepted || !b.Guide.Accepted {
		return bookingserrors.ErrAssignmentsNotAccepted
	}
	b.Phase = model.StatusConfirmed
	Touch(b, now)
	return nil
}

// ConfirmPayment marks the booking paid. It reports false when the booking was
// already paid, leaving it untouched.
func ConfirmPayment(b *model.Booking, paymentIntentID string, now time.Time) bool {
	if b.Payment {
		return false
	}
	b.Payment = true
	b.PaymentIntentID = paymentIntentID
	b.Phase = model.StatusPaymentConfirmed
	Touch(b, now)
	return true
}

// OverrideStatus is the unconstrained staff override. The given status is
// stored as is, even when an assignment track would project something else;
// the next lifecycle mutation projects again.
func OverrideStatus(b *model.Booking, status model.BookingStatus, now time.Time) error {
	if !status.IsValid() {
		return bookingserrors.ErrInvalidStatus
	}
	b.Phase = status
	Touch(b, now)
	b.Status = status
	return nil
}

func Cancel(b *model.Booking, now time.Time) error {
	if !cancellable[StatusOf(b)] {
		return bookingserrors.ErrNotCancellable
	}
	b.Phase = model.StatusCancelled
	Touch(b, now)
	return nil
}
