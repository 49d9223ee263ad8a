package testutil

import (
	"time"

	"safari/pkg/model"
)

func NewPackage() model.Package {
	return model.Package{
		Title:    "Yala Leopard Trail",
		Category: "Wildlife",
		Duration: "3 days",
		Location: "Yala",
		Price:    15000,
		Capacity: 6,
		IsActive: true,
		Rating:   4.7,
	}
}

type CheckoutRequestBuilder struct {
	req model.CheckoutRequest
}

func NewCheckoutRequestBuilder(packageID string) *CheckoutRequestBuilder {
	start := time.Now().UTC().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	return &CheckoutRequestBuilder{
		req: model.CheckoutRequest{
			PackageID: packageID,
			BookingDetails: model.BookingDetails{
				StartDate:        start,
				EndDate:          start.AddDate(0, 0, 3),
				NumberOfPeople:   2,
				EmergencyContact: "+94771234567",
				Accommodation:    model.AccommodationStandard,
				Transportation:   model.TransportationIncluded,
			},
		},
	}
}

func (b *CheckoutRequestBuilder) WithPeople(n int) *CheckoutRequestBuilder {
	b.req.BookingDetails.NumberOfPeople = n
	return b
}

func (b *CheckoutRequestBuilder) WithAccommodation(a model.Accommodation) *CheckoutRequestBuilder {
	b.req.BookingDetails.Accommodation = a
	return b
}

func (b *CheckoutRequestBuilder) Build() model.CheckoutRequest {
	return b.req
}
