package service

import (
	"context"
	"strings"
	"time"

	"safari/internal/bookings/events"
	"safari/internal/bookings/lifecycle"
	"safari/internal/bookings/repository"
	"safari/pkg/auth"
	apperrors "safari/pkg/errors"
	"safari/pkg/model"
)

// SelfAssign accepts the booking for the caller's own role.
func (s *bookingService) SelfAssign(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error) {
	if !lifecycle.IsAssignableRole(principal.Role) {
		return nil, apperrors.Forbidden("Only drivers and guides can accept bookings")
	}

	booking, err := s.mutate(ctx, id, func(b *model.Booking, now time.Time) error {
		return lifecycle.SelfAssign(b, principal.Role, principal.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking accepted",
		"id", id,
		"role", principal.Role,
		"assignee_id", principal.ID,
		"status", booking.Status,
	)
	s.publish(ctx, events.New(events.BookingAccepted, booking).WithActor(principal.Role, principal.ID))
	return booking, nil
}

// AdminAssign offers role on the booking to assigneeID.
func (s *bookingService) AdminAssign(ctx context.Context, principal auth.Principal, role model.Role, id, assigneeID string) (*model.Booking, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, apperrors.Validation("Invalid assignment", map[string]any{string(role) + "Id": "assignee is required"})
	}

	booking, err := s.mutate(ctx, id, func(b *model.Booking, now time.Time) error {
		return lifecycle.AdminAssign(b, role, assigneeID, principal.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking assigned",
		"id", id,
		"role", role,
		"assignee_id", assigneeID,
		"assigned_by", principal.ID,
	)
	s.publish(ctx, events.New(events.BookingAssigned, booking).
		WithActor(principal.Role, principal.ID).
		WithAssignee(assigneeID))
	return booking, nil
}

func (s *bookingService) Complete(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error) {
	if !lifecycle.IsAssignableRole(principal.Role) {
		return nil, apperrors.Forbidden("Only drivers and guides can complete bookings")
	}

	booking, err := s.mutate(ctx, id, func(b *model.Booking, now time.Time) error {
		return lifecycle.Complete(b, principal.Role, principal.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking completed", "id", id, "role", principal.Role, "by", principal.ID)
	s.publish(ctx, events.New(events.BookingCompleted, booking).WithActor(principal.Role, principal.ID))
	return booking, nil
}

func (s *bookingService) AdminComplete(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error) {
	booking, err := s.mutate(ctx, id, lifecycle.AdminComplete)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking confirmed", "id", id, "by", principal.ID)
	s.publish(ctx, events.New(events.BookingConfirmed, booking).WithActor(principal.Role, principal.ID))
	return booking, nil
}

// Queue lists the caller's pending, accepted or completed work.
func (s *bookingService) Queue(ctx context.Context, principal auth.Principal, queue repository.Queue) ([]*model.Booking, error) {
	if !lifecycle.IsAssignableRole(principal.Role) {
		return nil, apperrors.Forbidden("Only drivers and guides have booking queues")
	}
	if !queue.IsValid() {
		return nil, apperrors.InvalidInput("Unknown booking queue: " + string(queue))
	}

	bookings, err := s.repo.FindQueue(ctx, queue, principal.Role, principal.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to query booking queue",
			"queue", queue,
			"role", principal.Role,
			"user_id", principal.ID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}
