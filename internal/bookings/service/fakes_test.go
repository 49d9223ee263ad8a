package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	bookingserrors "safari/internal/bookings/errors"
	"safari/internal/bookings/events"
	"safari/internal/bookings/repository"
	"safari/internal/bookings/validator"
	"safari/pkg/config"
	"safari/pkg/logger"
	"safari/pkg/model"
	"safari/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryBookingRepository keeps copies of bookings and enforces the version
// check the Mongo repository performs.
type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]model.Booking

	// beforeSave runs inside Save before the version check.
	beforeSave func(id string)
	saveErr    error
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: map[string]model.Booking{}}
}

func (r *memoryBookingRepository) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = primitive.NewObjectID().Hex()
	b.Version = 1
	r.bookings[b.ID] = *b
	return nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return &b, nil
}

func (r *memoryBookingRepository) FindBySessionID(_ context.Context, sessionID string) (*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if sessionID != "" && b.SessionID == sessionID {
			return &b, nil
		}
	}
	return nil, bookingserrors.ErrNotFound
}

func (r *memoryBookingRepository) Save(_ context.Context, b *model.Booking) error {
	if r.beforeSave != nil {
		r.beforeSave(b.ID)
	}
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	if stored.Version != b.Version {
		return bookingserrors.ErrVersionConflict
	}
	b.Version++
	r.bookings[b.ID] = *b
	return nil
}

// bump simulates a concurrent writer.
func (r *memoryBookingRepository) bump(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := r.bookings[id]
	b.Version++
	r.bookings[id] = b
}

func (r *memoryBookingRepository) get(id string) model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

func (r *memoryBookingRepository) put(b model.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
}

func (r *memoryBookingRepository) FindByCustomer(_ context.Context, customerID string) ([]*model.Booking, error) {
	return r.filter(func(b model.Booking) bool { return b.CustomerID == customerID }), nil
}

func (r *memoryBookingRepository) FindAll(_ context.Context, limit int, offset int64) ([]*model.Booking, error) {
	all := r.filter(func(model.Booking) bool { return true })
	if int(offset) >= len(all) {
		return []*model.Booking{}, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryBookingRepository) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bookings)), nil
}

func (r *memoryBookingRepository) FindQueue(_ context.Context, queue repository.Queue, role model.Role, actorID string) ([]*model.Booking, error) {
	return r.filter(func(b model.Booking) bool {
		track := b.Track(role)
		switch queue {
		case repository.QueueAccepted:
			return track.AssigneeID == actorID && track.Accepted
		case repository.QueueCompleted:
			return b.Phase == model.StatusCompleted && track.AssigneeID == actorID
		default:
			open := b.Status == model.StatusPaymentConfirmed && track.AssigneeID == ""
			offered := track.AssigneeID == actorID && !track.Accepted && !b.Phase.IsTerminal()
			return open || offered
		}
	}), nil
}

func (r *memoryBookingRepository) FindOrphans(_ context.Context, cutoff time.Time, limit int) ([]*model.Booking, error) {
	out := r.filter(func(b model.Booking) bool {
		return b.PaymentMethod == model.PaymentStripe && !b.Payment &&
			b.Phase == model.StatusPending && b.CreatedAt.Before(cutoff)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryBookingRepository) filter(keep func(model.Booking) bool) []*model.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memoryPackageRepository struct {
	packages map[string]*model.Package
	err      error
}

func (r *memoryPackageRepository) FindByID(_ context.Context, id string) (*model.Package, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.packages[id]
	if !ok {
		return nil, bookingserrors.ErrPackageNotFound
	}
	return p, nil
}

func (r *memoryPackageRepository) FindActive(context.Context, int, int64) ([]*model.Package, error) {
	out := []*model.Package{}
	for _, p := range r.packages {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPackageRepository) CountActive(ctx context.Context) (int64, error) {
	active, _ := r.FindActive(ctx, 0, 0)
	return int64(len(active)), nil
}

type fakeGateway struct {
	createErr error
	created   []payment.CheckoutParams
	sessions  map[string]*payment.SessionStatus
	getErr    error
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, p payment.CheckoutParams) (*payment.CheckoutSession, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, p)
	id := "cs_test_" + p.Metadata["bookingId"]
	return &payment.CheckoutSession{ID: id, URL: "https://checkout.stripe.com/c/pay/" + id}, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*payment.SessionStatus, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	s, ok := g.sessions[id]
	if !ok {
		return nil, payment.ErrSessionNotFound
	}
	return s, nil
}

type fakeWebhookParser struct {
	status *payment.SessionStatus
	err    error
}

func (p *fakeWebhookParser) ParseCompletedSession([]byte, string) (*payment.SessionStatus, error) {
	return p.status, p.err
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

const (
	testPackageID     = "6650f1f2a1b2c3d4e5f60718"
	inactivePackageID = "6650f1f2a1b2c3d4e5f60719"
)

type fixture struct {
	svc       *bookingService
	repo      *memoryBookingRepository
	gateway   *fakeGateway
	webhooks  *fakeWebhookParser
	publisher *capturePublisher
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
	cfg := &config.Config{
		Log:                log,
		Currency:           "lkr",
		CheckoutSuccessURL: config.DefaultCheckoutSuccessURL,
		CheckoutCancelURL:  config.DefaultCheckoutCancelURL,
		OrphanBookingTTL:   config.DefaultOrphanBookingTTL,
	}

	f := &fixture{
		repo:      newMemoryBookingRepository(),
		gateway:   &fakeGateway{sessions: map[string]*payment.SessionStatus{}},
		webhooks:  &fakeWebhookParser{},
		publisher: &capturePublisher{},
		now:       time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	packages := &memoryPackageRepository{packages: map[string]*model.Package{
		testPackageID: {
			ID: testPackageID, Title: "Yala Leopard Trail", Duration: "3 days", Location: "Yala",
			Category: "Wildlife", Price: 10000, Capacity: 6, IsActive: true,
		},
		inactivePackageID: {ID: inactivePackageID, Title: "Old Trail", Price: 5000, IsActive: false},
	}}

	svc := NewBookingService(f.repo, packages, f.gateway, f.webhooks, f.publisher,
		validator.NewBookingValidator(log, "LK"), cfg).(*bookingService)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func checkoutRequest() *model.CheckoutRequest {
	start := time.Now().UTC().AddDate(0, 1, 0).Truncate(24 * time.Hour)
	return &model.CheckoutRequest{
		PackageID: testPackageID,
		BookingDetails: model.BookingDetails{
			StartDate:        start,
			EndDate:          start.AddDate(0, 0, 3),
			NumberOfPeople:   2,
			EmergencyContact: "+94 77 123 4567",
			Accommodation:    model.AccommodationLuxury,
			Transportation:   model.TransportationPrivate,
		},
	}
}

// paidBooking stores a booking in phase Payment Confirmed and returns its id.
func (f *fixture) paidBooking(t *testing.T) string {
	t.Helper()
	b := &model.Booking{
		CustomerID:    "c1",
		PackageID:     testPackageID,
		Phase:         model.StatusPaymentConfirmed,
		Status:        model.StatusPaymentConfirmed,
		PaymentMethod: model.PaymentStripe,
		Payment:       true,
		TotalPrice:    36000,
		CreatedAt:     f.now,
	}
	if err := f.repo.Create(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	return b.ID
}

var errBrokerDown = errors.New("broker down")
