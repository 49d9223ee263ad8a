package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "safari/internal/bookings/errors"
	"safari/internal/bookings/events"
	"safari/internal/bookings/lifecycle"
	"safari/pkg/auth"
	apperrors "safari/pkg/errors"
	"safari/pkg/model"
	"safari/pkg/payment"
)

const gatewayName = "Payment gateway"

// CreateCheckout persists a pending Stripe booking and opens a hosted
// checkout session for it. When the gateway fails the booking stays pending
// without a session and is later expired by the orphan sweeper.
func (s *bookingService) CreateCheckout(ctx context.Context, principal auth.Principal, req *model.CheckoutRequest) (*model.CheckoutResult, error) {
	booking, quote, err := s.newBooking(ctx, principal, req, model.PaymentStripe)
	if err != nil {
		return nil, err
	}

	successURL, cancelURL := req.SuccessURL, req.CancelURL
	if successURL == "" {
		successURL = s.cfg.CheckoutSuccessURL
	}
	if cancelURL == "" {
		cancelURL = s.cfg.CheckoutCancelURL
	}

	items := make([]payment.LineItem, 0, len(quote.LineItems))
	for _, item := range quote.LineItems {
		items = append(items, payment.LineItem{
			Name:        item.Name,
			Description: item.Description,
			Amount:      item.Amount,
		})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		LineItems:  items,
		Currency:   s.cfg.Currency,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: map[string]string{
			"bookingId":  booking.ID,
			"customerId": booking.CustomerID,
			"packageId":  booking.PackageID,
		},
		// The hosted page closes when the orphan sweeper would expire the booking.
		ExpiresAt: booking.CreatedAt.Add(s.cfg.OrphanBookingTTL),
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create checkout session",
			"booking_id", booking.ID,
			"error", err,
		)
		return nil, apperrors.Upstream(gatewayName, err)
	}

	booking.SessionID = session.ID
	lifecycle.Touch(booking, s.now())
	if err := s.repo.Save(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to store checkout session", "booking_id", booking.ID, "session_id", session.ID, "error", err)
		return nil, s.translate(err, booking.ID)
	}

	s.cfg.Log.Info("Checkout session created",
		"booking_id", booking.ID,
		"session_id", session.ID,
		"total_price", booking.TotalPrice,
	)
	return &model.CheckoutResult{
		Success:    true,
		SessionURL: session.URL,
		BookingID:  booking.ID,
	}, nil
}

func (s *bookingService) CreateCashBooking(ctx context.Context, principal auth.Principal, req *model.CheckoutRequest) (*model.Booking, error) {
	booking, _, err := s.newBooking(ctx, principal, req, model.PaymentCOD)
	if err != nil {
		return nil, err
	}
	s.cfg.Log.Info("Cash booking created", "booking_id", booking.ID, "total_price", booking.TotalPrice)
	return booking, nil
}

// newBooking validates the request, snapshots the package and prices the
// booking, then inserts it in phase Pending.
func (s *bookingService) newBooking(ctx context.Context, principal auth.Principal, req *model.CheckoutRequest, method model.PaymentMethod) (*model.Booking, lifecycle.Quote, error) {
	s.validator.Normalize(&req.BookingDetails)
	if err := s.validator.ValidateCheckout(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "customer_id", principal.ID, "error", err)
		return nil, lifecycle.Quote{}, s.translate(err, "")
	}

	pkg, err := s.packages.FindByID(ctx, req.PackageID)
	if err != nil {
		if !errors.Is(err, bookingserrors.ErrPackageNotFound) {
			s.cfg.Log.Error("Failed to load package", "package_id", req.PackageID, "error", err)
		}
		return nil, lifecycle.Quote{}, s.translate(err, "")
	}
	if !pkg.IsActive {
		return nil, lifecycle.Quote{}, s.translate(bookingserrors.ErrPackageInactive, "")
	}
	if err := s.validator.ValidateCapacity(&req.BookingDetails, pkg); err != nil {
		return nil, lifecycle.Quote{}, s.translate(err, "")
	}

	snapshot := pkg.Snapshot()
	quote, err := lifecycle.Price(snapshot, req.BookingDetails)
	if err != nil {
		return nil, lifecycle.Quote{}, apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()})
	}

	now := s.now()
	booking := &model.Booking{
		CustomerID:     principal.ID,
		PackageID:      pkg.ID,
		PackageDetails: snapshot,
		BookingDetails: req.BookingDetails,
		TotalPrice:     quote.Total,
		Phase:          model.StatusPending,
		PaymentMethod:  method,
		CreatedAt:      now,
	}
	lifecycle.Touch(booking, now)

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "customer_id", principal.ID, "error", err)
		return nil, lifecycle.Quote{}, apperrors.Internal("Failed to create booking", err)
	}

	s.publish(ctx, events.New(events.BookingCreated, booking).WithActor(principal.Role, principal.ID))
	return booking, quote, nil
}

// VerifyPayment confirms a booking once the gateway reports its session as
// paid. Repeated calls for a paid booking return it unchanged.
func (s *bookingService) VerifyPayment(ctx context.Context, sessionID string) (*model.Booking, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("Session ID is required")
	}

	status, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			s.cfg.Log.Warn("Unknown checkout session", "session_id", sessionID)
			return nil, apperrors.PaymentVerification("Payment verification failed", err)
		}
		s.cfg.Log.Error("Failed to retrieve checkout session", "session_id", sessionID, "error", err)
		return nil, apperrors.Upstream(gatewayName, err)
	}

	if !status.Paid {
		return nil, apperrors.PaymentNotCompleted("Payment not completed")
	}

	return s.confirmPaid(ctx, status)
}

// HandleWebhook applies a signed checkout.session.completed notification.
// Other event types are acknowledged and ignored.
func (s *bookingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	status, err := s.webhooks.ParseCompletedSession(payload, signature)
	switch {
	case errors.Is(err, payment.ErrUnhandledEvent):
		return nil
	case errors.Is(err, payment.ErrInvalidSignature):
		s.cfg.Log.Warn("Rejected webhook with invalid signature")
		return apperrors.InvalidInput("Invalid webhook signature")
	case err != nil:
		s.cfg.Log.Error("Failed to parse webhook", "error", err)
		return apperrors.InvalidInput("Invalid webhook payload")
	}

	if !status.Paid {
		s.cfg.Log.Info("Checkout completed without payment yet", "session_id", status.ID)
		return nil
	}

	_, err = s.confirmPaid(ctx, status)
	return err
}

func (s *bookingService) confirmPaid(ctx context.Context, status *payment.SessionStatus) (*model.Booking, error) {
	booking, err := s.repo.FindBySessionID(ctx, status.ID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			s.cfg.Log.Error("Paid session has no booking",
				"session_id", status.ID,
				"payment_intent_id", status.PaymentIntentID,
				"metadata", status.Metadata,
			)
			return nil, apperrors.NotFound("Booking")
		}
		return nil, s.translate(err, "")
	}

	if !lifecycle.ConfirmPayment(booking, status.PaymentIntentID, s.now()) {
		return booking, nil
	}

	if err := s.repo.Save(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrVersionConflict) {
			return s.reloadPaid(ctx, booking.ID)
		}
		s.cfg.Log.Error("Failed to confirm payment", "booking_id", booking.ID, "error", err)
		return nil, s.translate(err, booking.ID)
	}

	s.cfg.Log.Info("Payment confirmed", "booking_id", booking.ID, "session_id", status.ID)
	s.publish(ctx, events.New(events.BookingPaymentConfirmed, booking))
	return booking, nil
}

// reloadPaid resolves a lost race between two confirmations of the same
// session: if the winner marked the booking paid, its result is returned.
func (s *bookingService) reloadPaid(ctx context.Context, id string) (*model.Booking, error) {
	fresh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}
	if fresh.Payment {
		return fresh, nil
	}
	return nil, s.translate(bookingserrors.ErrVersionConflict, id)
}

// ExpireOrphans cancels unpaid Stripe bookings created before cutoff.
func (s *bookingService) ExpireOrphans(ctx context.Context, cutoff time.Time) (int, error) {
	const batchSize = 100

	orphans, err := s.repo.FindOrphans(ctx, cutoff, batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, booking := range orphans {
		if ctx.Err() != nil {
			break
		}
		if err := lifecycle.Cancel(booking, s.now()); err != nil {
			continue
		}
		if err := s.repo.Save(ctx, booking); err != nil {
			if !errors.Is(err, bookingserrors.ErrVersionConflict) {
				s.cfg.Log.Error("Failed to expire booking", "booking_id", booking.ID, "error", err)
			}
			continue
		}
		expired++
		s.publish(ctx, events.New(events.BookingExpired, booking))
	}

	return expired, ctx.Err()
}
