// Package lifecycle holds the booking state rules. Nothing in here touches
// storage: every function takes a booking, checks the rule and mutates it in
// place so the caller can persist the result with a version check.
package lifecycle

import (
	"time"

	"safari/pkg/model"
)

type TrackState string

const (
	TrackUnassigned TrackState = "unassigned"
	TrackOffered    TrackState = "offered"
	TrackAccepted   TrackState = "accepted"
	TrackCompleted  TrackState = "completed"
)

func StateOf(a model.Assignment) TrackState {
	switch {
	case a.AssigneeID == "":
		return TrackUnassigned
	case a.CompletedAt != nil:
		return TrackCompleted
	case a.Accepted:
		return TrackAccepted
	default:
		return TrackOffered
	}
}

// preConfirmation phases are the ones whose overall status is derived from the
// assignment tracks.
var preConfirmation = map[model.BookingStatus]bool{
	model.StatusPending:          true,
	model.StatusPaymentConfirmed: true,
	model.StatusDriverAssigned:   true,
	model.StatusGuideAssigned:    true,
}

// Project derives the overall status from the booking phase and the two
// assignment tracks. The guide track wins over the driver track because guide
// assignment is the later step of the workflow.
func Project(b *model.Booking) model.BookingStatus {
	if !preConfirmation[b.Phase] {
		return b.Phase
	}
	if StateOf(b.Guide) != TrackUnassigned {
		return model.StatusGuideAssigned
	}
	if StateOf(b.Driver) != TrackUnassigned {
		return model.StatusDriverAssigned
	}
	return b.Phase
}

// StatusOf is the status the transition rules check: the stored status, which
// may carry a staff override, or the projection for a booking never touched.
func StatusOf(b *model.Booking) model.BookingStatus {
	if b.Status != "" {
		return b.Status
	}
	return Project(b)
}

// Touch recomputes the projected status and stamps the update time. Every
// mutation in this package ends with it.
func Touch(b *model.Booking, now time.Time) {
	b.Status = Project(b)
	b.UpdatedAt = now
}
