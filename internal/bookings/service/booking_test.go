package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"safari/internal/bookings/events"
	"safari/internal/bookings/repository"
	"safari/pkg/auth"
	"safari/pkg/config"
	apperrors "safari/pkg/errors"
	"safari/pkg/model"
	"safari/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customer      = auth.Principal{ID: "c1", Role: model.RoleCustomer}
	otherCustomer = auth.Principal{ID: "c2", Role: model.RoleCustomer}
	driverA       = auth.Principal{ID: "d-a", Role: model.RoleDriver}
	driverZ       = auth.Principal{ID: "d-z", Role: model.RoleDriver}
	guideB        = auth.Principal{ID: "g-b", Role: model.RoleGuide}
	admin         = auth.Principal{ID: "a1", Role: model.RoleAdmin}
)

func requireAppError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, code, appErr.Code, "message: %s", appErr.Message)
	assert.Equal(t, status, appErr.StatusCode())
}

func TestCreateCheckout(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.CreateCheckout(context.Background(), customer, checkoutRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.BookingID)
	assert.Contains(t, result.SessionURL, "cs_test_"+result.BookingID)

	stored := f.repo.get(result.BookingID)
	assert.Equal(t, int64(36000), stored.TotalPrice)
	assert.Equal(t, model.StatusPending, stored.Phase)
	assert.Equal(t, model.StatusPending, stored.Status)
	assert.Equal(t, model.PaymentStripe, stored.PaymentMethod)
	assert.False(t, stored.Payment)
	assert.Equal(t, "cs_test_"+result.BookingID, stored.SessionID)
	assert.Equal(t, "Yala Leopard Trail", stored.PackageDetails.Title)
	assert.Equal(t, "+94771234567", stored.BookingDetails.EmergencyContact)

	require.Len(t, f.gateway.created, 1)
	params := f.gateway.created[0]
	assert.Equal(t, "lkr", params.Currency)
	assert.Equal(t, f.now.Add(config.DefaultOrphanBookingTTL), params.ExpiresAt)
	assert.Equal(t, stored.CreatedAt.Add(config.DefaultOrphanBookingTTL), params.ExpiresAt)
	require.Len(t, params.LineItems, 3)
	assert.Equal(t, int64(20000), params.LineItems[0].Amount)
	assert.Equal(t, int64(10000), params.LineItems[1].Amount)
	assert.Equal(t, int64(6000), params.LineItems[2].Amount)
	assert.Equal(t, map[string]string{
		"bookingId":  result.BookingID,
		"customerId": "c1",
		"packageId":  testPackageID,
	}, params.Metadata)

	assert.Equal(t, []events.Type{events.BookingCreated}, f.publisher.types())
}

func TestCreateCheckout_StandardTiersSingleLineItem(t *testing.T) {
	f := newFixture(t)
	req := checkoutRequest()
	req.BookingDetails.Accommodation = ""
	req.BookingDetails.Transportation = ""
	req.SuccessURL = "https://safari.example.com/ok"

	_, err := f.svc.CreateCheckout(context.Background(), customer, req)
	require.NoError(t, err)

	params := f.gateway.created[0]
	assert.Len(t, params.LineItems, 1)
	assert.Equal(t, "https://safari.example.com/ok", params.SuccessURL)
}

func TestCreateCheckout_GatewayFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.createErr = errors.New("stripe unreachable")

	_, err := f.svc.CreateCheckout(context.Background(), customer, checkoutRequest())
	requireAppError(t, err, apperrors.CodeUpstream, http.StatusInternalServerError)

	bookings, _ := f.repo.FindByCustomer(context.Background(), "c1")
	require.Len(t, bookings, 1)
	assert.Equal(t, model.StatusPending, bookings[0].Phase)
	assert.Empty(t, bookings[0].SessionID)
}

func TestCreateCheckout_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.CheckoutRequest)
		code   string
		status int
	}{
		{"inactive package", func(r *model.CheckoutRequest) { r.PackageID = inactivePackageID }, apperrors.CodeNotFound, http.StatusNotFound},
		{"unknown package", func(r *model.CheckoutRequest) { r.PackageID = "6650f1f2a1b2c3d4e5f607ff" }, apperrors.CodeNotFound, http.StatusNotFound},
		{"over capacity", func(r *model.CheckoutRequest) { r.BookingDetails.NumberOfPeople = 7 }, apperrors.CodeValidation, http.StatusBadRequest},
		{"missing contact", func(r *model.CheckoutRequest) { r.BookingDetails.EmergencyContact = " " }, apperrors.CodeValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := checkoutRequest()
			tt.mutate(req)

			_, err := f.svc.CreateCheckout(context.Background(), customer, req)
			requireAppError(t, err, tt.code, tt.status)
			assert.Empty(t, f.gateway.created)
		})
	}
}

func TestCreateCashBooking(t *testing.T) {
	f := newFixture(t)

	booking, err := f.svc.CreateCashBooking(context.Background(), customer, checkoutRequest())
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCOD, booking.PaymentMethod)
	assert.Equal(t, model.StatusPending, booking.Phase)
	assert.Empty(t, f.gateway.created)
}

func TestVerifyPayment_UnpaidLeavesBookingUntouched(t *testing.T) {
	f := newFixture(t)
	result, err := f.svc.CreateCheckout(context.Background(), customer, checkoutRequest())
	require.NoError(t, err)
	sessionID := "cs_test_" + result.BookingID
	before := f.repo.get(result.BookingID)

	f.gateway.sessions[sessionID] = &payment.SessionStatus{ID: sessionID, Paid: false}
	_, err = f.svc.VerifyPayment(context.Background(), sessionID)
	requireAppError(t, err, apperrors.CodePaymentNotCompleted, http.StatusBadRequest)

	assert.Equal(t, before, f.repo.get(result.BookingID))
}

func TestVerifyPayment_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.VerifyPayment(context.Background(), "cs_missing")
	requireAppError(t, err, apperrors.CodePaymentVerification, http.StatusBadRequest)
}

func TestVerifyPayment_GatewayError(t *testing.T) {
	f := newFixture(t)
	f.gateway.getErr = errors.New("timeout")
	_, err := f.svc.VerifyPayment(context.Background(), "cs_any")
	requireAppError(t, err, apperrors.CodeUpstream, http.StatusInternalServerError)
}

func TestVerifyPayment_PaidIsIdempotent(t *testing.T) {
	f := newFixture(t)
	result, err := f.svc.CreateCheckout(context.Background(), customer, checkoutRequest())
	require.NoError(t, err)
	sessionID := "cs_test_" + result.BookingID
	f.gateway.sessions[sessionID] = &payment.SessionStatus{ID: sessionID, Paid: true, PaymentIntentID: "pi_1"}

	booking, err := f.svc.VerifyPayment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, booking.Payment)
	assert.Equal(t, model.StatusPaymentConfirmed, booking.Phase)
	assert.Equal(t, "pi_1", booking.PaymentIntentID)
	version := booking.Version

	again, err := f.svc.VerifyPayment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, version, again.Version)

	assert.Equal(t, []events.Type{events.BookingCreated, events.BookingPaymentConfirmed}, f.publisher.types())
}

func TestVerifyPayment_DoesNotRegressAssignedBooking(t *testing.T) {
	f := newFixture(t)
	id := f.paidBooking(t)
	b := f.repo.get(id)
	b.SessionID = "cs_done"
	f.repo.put(b)
	f.gateway.sessions["cs_done"] = &payment.SessionStatus{ID: "cs_done", Paid: true}

	_, err := f.svc.SelfAssign(context.Background(), driverA, id)
	require.NoError(t, err)

	booking, err := f.svc.VerifyPayment(context.Background(), "cs_done")
	require.NoError(t, err)
	assert.Equal(t, model.StatusDriverAssigned, booking.Status)
}

func TestVerifyPayment_LostRaceReturnsWinner(t *testing.T) {
	f := newFixture(t)
	result, err := f.svc.CreateCheckout(context.Background(), customer, checkoutRequest())
	require.NoError(t, err)
	sessionID := "cs_test_" + result.BookingID
	f.gateway.sessions[sessionID] = &payment.SessionStatus{ID: sessionID, Paid: true, PaymentIntentID: "pi_1"}

	f.repo.beforeSave = func(id string) {
		f.repo.beforeSave = nil
		b := f.repo.get(id)
		b.Payment = true
		b.Phase = model.StatusPaymentConfirmed
		b.Version++
		f.repo.put(b)
	}

	booking, err := f.svc.VerifyPayment(context.Background(), sessionID)
	require.NoError(t, err)
	assert.True(t, booking.Payment)
}

func TestHandleWebhook(t *testing.T) {
	f := newFixture(t)
	result, err := f.svc.CreateCheckout(context.Background(), customer, checkoutRequest())
	require.NoError(t, err)
	sessionID := "cs_test_" + result.BookingID

	f.webhooks.err = payment.ErrUnhandledEvent
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), nil, ""))

	f.webhooks.err = payment.ErrInvalidSignature
	requireAppError(t, f.svc.HandleWebhook(context.Background(), nil, ""), apperrors.CodeInvalidInput, http.StatusBadRequest)

	f.webhooks.err = nil
	f.webhooks.status = &payment.SessionStatus{ID: sessionID, Paid: true, PaymentIntentID: "pi_9"}
	require.NoError(t, f.svc.HandleWebhook(context.Background(), nil, "sig"))

	stored := f.repo.get(result.BookingID)
	assert.True(t, stored.Payment)
	assert.Equal(t, "pi_9", stored.PaymentIntentID)
}

func TestAssignmentWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)

	booking, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)
	assert.Equal(t, "d-a", booking.Driver.AssigneeID)
	assert.True(t, booking.Driver.Accepted)
	assert.Equal(t, model.StatusDriverAssigned, booking.Status)

	booking, err = f.svc.AdminAssign(ctx, admin, model.RoleGuide, id, "g-b")
	require.NoError(t, err)
	assert.Equal(t, "g-b", booking.Guide.AssigneeID)
	assert.False(t, booking.Guide.Accepted)
	assert.Equal(t, model.StatusGuideAssigned, booking.Status)

	_, err = f.svc.AdminComplete(ctx, admin, id)
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)

	booking, err = f.svc.SelfAssign(ctx, guideB, id)
	require.NoError(t, err)
	assert.True(t, booking.Guide.Accepted)
	assert.True(t, booking.Driver.Accepted)

	booking, err = f.svc.AdminComplete(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, booking.Status)

	booking, err = f.svc.Complete(ctx, guideB, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, booking.Status)
	assert.NotNil(t, booking.Guide.CompletedAt)

	assert.Equal(t, []events.Type{
		events.BookingAccepted,
		events.BookingAssigned,
		events.BookingAccepted,
		events.BookingConfirmed,
		events.BookingCompleted,
	}, f.publisher.types())
}

func TestSelfAssign_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.CreateCashBooking(ctx, customer, checkoutRequest())
	require.NoError(t, err)
	_, err = f.svc.SelfAssign(ctx, driverA, result.ID)
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)
	assert.Equal(t, "Booking is not available to accept", apperrors.AsAppError(err).Message)

	id := f.paidBooking(t)
	_, err = f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)
	_, err = f.svc.SelfAssign(ctx, driverZ, id)
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)

	_, err = f.svc.SelfAssign(ctx, customer, id)
	requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)

	_, err = f.svc.SelfAssign(ctx, driverA, "not-an-id")
	requireAppError(t, err, apperrors.CodeInvalidInput, http.StatusBadRequest)

	_, err = f.svc.SelfAssign(ctx, driverA, "6650f1f2a1b2c3d4e5f60000")
	requireAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestSelfAssign_ConcurrentWriteConflicts(t *testing.T) {
	f := newFixture(t)
	id := f.paidBooking(t)
	f.repo.beforeSave = f.repo.bump

	_, err := f.svc.SelfAssign(context.Background(), driverA, id)
	requireAppError(t, err, apperrors.CodeConflict, http.StatusConflict)
	assert.Empty(t, f.repo.get(id).Driver.AssigneeID)
	assert.Empty(t, f.publisher.types())
}

func TestAdminAssign_ResetsAcceptance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)

	_, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)

	_, err = f.svc.AdminAssign(ctx, admin, model.RoleDriver, id, "d-z")
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)
	assert.Equal(t, "d-a", f.repo.get(id).Driver.AssigneeID)

	booking, err := f.svc.UpdateStatusAdmin(ctx, admin, id, model.StatusPaymentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaymentConfirmed, booking.Status)

	booking, err = f.svc.AdminAssign(ctx, admin, model.RoleDriver, id, "d-z")
	require.NoError(t, err)
	assert.Equal(t, "d-z", booking.Driver.AssigneeID)
	assert.False(t, booking.Driver.Accepted)
	assert.Nil(t, booking.Driver.AcceptedAt)
	assert.Equal(t, "a1", booking.Driver.AssignedBy)
	assert.Equal(t, model.StatusDriverAssigned, booking.Status)

	_, err = f.svc.AdminAssign(ctx, admin, model.RoleGuide, id, "  ")
	requireAppError(t, err, apperrors.CodeValidation, http.StatusBadRequest)
}

func TestSelfAssign_OtherRoleAfterDriverAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)

	_, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)

	_, err = f.svc.SelfAssign(ctx, guideB, id)
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)
	assert.Empty(t, f.repo.get(id).Guide.AssigneeID)

	available, err := f.svc.Queue(ctx, guideB, repository.QueuePending)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestUpdateStatusAdmin_OverridesProjectedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)
	_, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)

	booking, err := f.svc.UpdateStatusAdmin(ctx, admin, id, model.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, model.StatusPending, f.repo.get(id).Status)
	assert.True(t, booking.Driver.Accepted)
}

func TestAdminComplete_ClosedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)
	_, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)
	_, err = f.svc.AdminAssign(ctx, admin, model.RoleGuide, id, "g-b")
	require.NoError(t, err)
	_, err = f.svc.SelfAssign(ctx, guideB, id)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, guideB, id)
	require.NoError(t, err)

	_, err = f.svc.AdminComplete(ctx, admin, id)
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)
	assert.Equal(t, model.StatusCompleted, f.repo.get(id).Status)
}

func TestComplete_NotAssignee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)
	_, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, driverZ, id)
	requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)

	_, err := f.svc.Cancel(ctx, otherCustomer, id)
	requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)

	booking, err := f.svc.Cancel(ctx, customer, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, booking.Status)

	_, err = f.svc.Cancel(ctx, admin, id)
	requireAppError(t, err, apperrors.CodeInvalidTransition, http.StatusBadRequest)
}

func TestUpdateStatusAdmin(t *testing.T) {
	f := newFixture(t)
	id := f.paidBooking(t)

	booking, err := f.svc.UpdateStatusAdmin(context.Background(), admin, id, model.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, booking.Phase)
	assert.Equal(t, model.StatusInProgress, booking.Status)

	_, err = f.svc.UpdateStatusAdmin(context.Background(), admin, id, "Archived")
	requireAppError(t, err, apperrors.CodeInvalidInput, http.StatusBadRequest)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errBrokerDown
	id := f.paidBooking(t)

	booking, err := f.svc.SelfAssign(context.Background(), driverA, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDriverAssigned, booking.Status)
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.paidBooking(t)
	_, err := f.svc.SelfAssign(ctx, driverA, id)
	require.NoError(t, err)

	for _, p := range []auth.Principal{customer, driverA, admin} {
		_, err := f.svc.GetByID(ctx, p, id)
		assert.NoError(t, err, "principal %s", p.ID)
	}
	for _, p := range []auth.Principal{otherCustomer, driverZ, guideB} {
		_, err := f.svc.GetByID(ctx, p, id)
		requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)
	}
}

func TestQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	open := f.paidBooking(t)
	mine := f.paidBooking(t)
	_, err := f.svc.SelfAssign(ctx, driverA, mine)
	require.NoError(t, err)

	pending, err := f.svc.Queue(ctx, driverZ, repository.QueuePending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, open, pending[0].ID)

	accepted, err := f.svc.Queue(ctx, driverA, repository.QueueAccepted)
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, mine, accepted[0].ID)

	_, err = f.svc.Queue(ctx, customer, repository.QueuePending)
	requireAppError(t, err, apperrors.CodeForbidden, http.StatusForbidden)

	_, err = f.svc.Queue(ctx, driverA, repository.Queue("history"))
	requireAppError(t, err, apperrors.CodeInvalidInput, http.StatusBadRequest)
}

func TestListAll(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		f.paidBooking(t)
	}

	bookings, total, err := f.svc.ListAll(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, bookings, 2)
}

func TestExpireOrphans(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gateway.createErr = errors.New("stripe unreachable")
	_, err := f.svc.CreateCheckout(ctx, customer, checkoutRequest())
	require.Error(t, err)
	f.gateway.createErr = nil

	cash, err := f.svc.CreateCashBooking(ctx, customer, checkoutRequest())
	require.NoError(t, err)
	paid := f.paidBooking(t)

	expired, err := f.svc.ExpireOrphans(ctx, f.now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	assert.Equal(t, model.StatusPending, f.repo.get(cash.ID).Phase)
	assert.Equal(t, model.StatusPaymentConfirmed, f.repo.get(paid).Phase)

	orphans, _ := f.repo.FindByCustomer(ctx, "c1")
	cancelled := 0
	for _, b := range orphans {
		if b.Phase == model.StatusCancelled {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled)
	assert.Contains(t, f.publisher.types(), events.BookingExpired)

	expired, err = f.svc.ExpireOrphans(ctx, f.now.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, expired)
}
