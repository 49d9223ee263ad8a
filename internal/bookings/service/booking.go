package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "safari/internal/bookings/errors"
	"safari/internal/bookings/events"
	"safari/internal/bookings/lifecycle"
	"safari/internal/bookings/repository"
	"safari/internal/bookings/validator"
	"safari/pkg/auth"
	"safari/pkg/config"
	apperrors "safari/pkg/errors"
	"safari/pkg/model"
	"safari/pkg/payment"
)

type BookingService interface {
	CreateCheckout(ctx context.Context, principal auth.Principal, req *model.CheckoutRequest) (*model.CheckoutResult, error)
	CreateCashBooking(ctx context.Context, principal auth.Principal, req *model.CheckoutRequest) (*model.Booking, error)
	VerifyPayment(ctx context.Context, sessionID string) (*model.Booking, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error)
	ListMine(ctx context.Context, principal auth.Principal) ([]*model.Booking, error)
	ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error)
	UpdateStatusAdmin(ctx context.Context, principal auth.Principal, id string, status model.BookingStatus) (*model.Booking, error)

	SelfAssign(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error)
	AdminAssign(ctx context.Context, principal auth.Principal, role model.Role, id, assigneeID string) (*model.Booking, error)
	Complete(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error)
	AdminComplete(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error)
	Queue(ctx context.Context, principal auth.Principal, queue repository.Queue) ([]*model.Booking, error)

	ExpireOrphans(ctx context.Context, cutoff time.Time) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	packages  repository.PackageRepository
	gateway   payment.Gateway
	webhooks  payment.WebhookParser
	publisher events.Publisher
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	packages repository.PackageRepository,
	gateway payment.Gateway,
	webhooks payment.WebhookParser,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		packages:  packages,
		gateway:   gateway,
		webhooks:  webhooks,
		publisher: publisher,
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *bookingService) GetByID(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	if !canView(principal, booking) {
		s.cfg.Log.Warn("Booking read denied", "id", id, "user_id", principal.ID, "role", principal.Role)
		return nil, apperrors.Forbidden("Not authorized to view this booking")
	}

	return booking, nil
}

func canView(p auth.Principal, b *model.Booking) bool {
	switch {
	case p.IsStaff():
		return true
	case p.Role == model.RoleCustomer:
		return b.CustomerID == p.ID
	default:
		track := b.Track(p.Role)
		return track != nil && track.AssigneeID == p.ID
	}
}

func (s *bookingService) ListMine(ctx context.Context, principal auth.Principal) ([]*model.Booking, error) {
	bookings, err := s.repo.FindByCustomer(ctx, principal.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to list customer bookings", "customer_id", principal.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Cancel is open to the owning customer and to staff.
func (s *bookingService) Cancel(ctx context.Context, principal auth.Principal, id string) (*model.Booking, error) {
	booking, err := s.mutate(ctx, id, func(b *model.Booking, now time.Time) error {
		if !principal.IsStaff() && b.CustomerID != principal.ID {
			return bookingserrors.ErrNotOwner
		}
		return lifecycle.Cancel(b, now)
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "by", principal.ID, "role", principal.Role)
	s.publish(ctx, events.New(events.BookingCancelled, booking).WithActor(principal.Role, principal.ID))
	return booking, nil
}

func (s *bookingService) UpdateStatusAdmin(ctx context.Context, principal auth.Principal, id string, status model.BookingStatus) (*model.Booking, error) {
	booking, err := s.mutate(ctx, id, func(b *model.Booking, now time.Time) error {
		return lifecycle.OverrideStatus(b, status, now)
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking status overridden", "id", id, "status", status, "by", principal.ID)
	s.publish(ctx, events.New(events.BookingStatusOverridden, booking).WithActor(principal.Role, principal.ID))
	return booking, nil
}

// mutate loads the booking, applies a lifecycle rule and saves it against the
// version it was read at.
func (s *bookingService) mutate(ctx context.Context, id string, apply func(b *model.Booking, now time.Time) error) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id)
	}

	if err := apply(booking, s.now()); err != nil {
		s.cfg.Log.Warn("Booking transition rejected", "id", id, "status", booking.Status, "error", err)
		return nil, s.translate(err, id)
	}

	if err := s.repo.Save(ctx, booking); err != nil {
		if errors.Is(err, bookingserrors.ErrVersionConflict) {
			s.cfg.Log.Warn("Booking write lost a concurrent update", "id", id, "version", booking.Version)
		} else {
			s.cfg.Log.Error("Failed to save booking", "id", id, "error", err)
		}
		return nil, s.translate(err, id)
	}

	return booking, nil
}

// publish never fails the caller: the booking is already persisted.
func (s *bookingService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}
