package validator

import (
	"errors"
	"io"
	"testing"
	"time"

	"safari/pkg/logger"
	"safari/pkg/model"
)

func newTestValidator() *BookingValidator {
	v := NewBookingValidator(logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}), "LK")
	v.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return v
}

func validRequest() *model.CheckoutRequest {
	return &model.CheckoutRequest{
		PackageID: "6650f1f2a1b2c3d4e5f60718",
		BookingDetails: model.BookingDetails{
			StartDate:        time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC),
			NumberOfPeople:   2,
			EmergencyContact: "077 123 4567",
			Accommodation:    model.AccommodationLuxury,
			Transportation:   model.TransportationPrivate,
		},
	}
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field] = e.Message
	}
	return out
}

func TestValidateCheckout(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		mutate    func(*model.CheckoutRequest)
		wantField string
	}{
		{name: "valid", mutate: func(*model.CheckoutRequest) {}},
		{name: "bad package id", mutate: func(r *model.CheckoutRequest) { r.PackageID = "pkg-1" }, wantField: "packageId"},
		{name: "no people", mutate: func(r *model.CheckoutRequest) { r.BookingDetails.NumberOfPeople = 0 }, wantField: "numberOfPeople"},
		{name: "end before start", mutate: func(r *model.CheckoutRequest) {
			r.BookingDetails.EndDate = r.BookingDetails.StartDate.Add(-time.Hour)
		}, wantField: "endDate"},
		{name: "missing contact", mutate: func(r *model.CheckoutRequest) { r.BookingDetails.EmergencyContact = "" }, wantField: "emergencyContact"},
		{name: "unknown tier", mutate: func(r *model.CheckoutRequest) { r.BookingDetails.Accommodation = "Palace" }, wantField: "accommodation"},
		{name: "relative success url", mutate: func(r *model.CheckoutRequest) { r.SuccessURL = "/done" }, wantField: "successUrl"},
		{name: "start in the past", mutate: func(r *model.CheckoutRequest) {
			r.BookingDetails.StartDate = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		}, wantField: "startDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := v.ValidateCheckout(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if _, ok := fieldErrors(t, err)[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateCheckout_TentedCampAccepted(t *testing.T) {
	v := newTestValidator()
	req := validRequest()
	req.BookingDetails.Accommodation = model.AccommodationTentedCamp
	req.BookingDetails.Transportation = model.TransportationShared
	if err := v.ValidateCheckout(req); err != nil {
		t.Fatalf("expected multi-word tiers to validate, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	v := newTestValidator()
	details := &model.BookingDetails{
		EmergencyContact: " 077 123 4567 ",
		SpecialRequests:  "  window   seat\n please ",
	}
	v.Normalize(details)

	if details.Accommodation != model.AccommodationStandard {
		t.Errorf("expected default accommodation, got %q", details.Accommodation)
	}
	if details.Transportation != model.TransportationIncluded {
		t.Errorf("expected default transportation, got %q", details.Transportation)
	}
	if details.EmergencyContact != "+94771234567" {
		t.Errorf("expected E.164 contact, got %q", details.EmergencyContact)
	}
	if details.SpecialRequests != "window seat please" {
		t.Errorf("unexpected special requests %q", details.SpecialRequests)
	}

	named := &model.BookingDetails{EmergencyContact: "  Ama   Perera "}
	v.Normalize(named)
	if named.EmergencyContact != "Ama Perera" {
		t.Errorf("expected free-text contact kept, got %q", named.EmergencyContact)
	}
}

func TestValidateCapacity(t *testing.T) {
	v := newTestValidator()
	details := &model.BookingDetails{NumberOfPeople: 6}

	if err := v.ValidateCapacity(details, &model.Package{Capacity: 0}); err != nil {
		t.Errorf("unlimited package rejected: %v", err)
	}
	if err := v.ValidateCapacity(details, &model.Package{Capacity: 6}); err != nil {
		t.Errorf("full package rejected: %v", err)
	}
	if _, ok := fieldErrors(t, v.ValidateCapacity(details, &model.Package{Capacity: 4}))["numberOfPeople"]; !ok {
		t.Error("expected numberOfPeople error")
	}
}

func TestStruct_BookingStatus(t *testing.T) {
	v := newTestValidator()

	if err := v.Struct(&model.StatusUpdateRequest{Status: model.StatusInProgress}); err != nil {
		t.Errorf("expected valid status, got %v", err)
	}
	errs := fieldErrors(t, v.Struct(&model.StatusUpdateRequest{Status: "Archived"}))
	if errs["status"] != "status is not a valid booking status" {
		t.Errorf("unexpected message %q", errs["status"])
	}
}
