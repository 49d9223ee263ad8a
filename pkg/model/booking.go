package model

import (
	"time"
)

type BookingStatus string

const (
	StatusPending          BookingStatus = "Pending"
	StatusPaymentConfirmed BookingStatus = "Payment Confirmed"
	StatusDriverAssigned   BookingStatus = "Driver Assigned"
	StatusGuideAssigned    BookingStatus = "Guide Assigned"
	StatusConfirmed        BookingStatus = "Confirmed"
	StatusInProgress       BookingStatus = "In Progress"
	StatusCompleted        BookingStatus = "Completed"
	StatusCancelled        BookingStatus = "Cancelled"
)

var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusPaymentConfirmed,
	StatusDriverAssigned,
	StatusGuideAssigned,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func (s BookingStatus) IsValid() bool {
	for _, status := range BookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentMethod string

const (
	PaymentStripe PaymentMethod = "Stripe"
	PaymentCOD    PaymentMethod = "COD"
)

type Accommodation string

const (
	AccommodationStandard   Accommodation = "Standard"
	AccommodationLuxury     Accommodation = "Luxury"
	AccommodationTentedCamp Accommodation = "Tented Camp"
	AccommodationEcoLodge   Accommodation = "Eco Lodge"
)

type Transportation string

const (
	TransportationIncluded Transportation = "Included"
	TransportationPrivate  Transportation = "Private Vehicle"
	TransportationShared   Transportation = "Shared Vehicle"
)

// PackageSnapshot is copied from the package when the booking is created and
// never refreshed afterwards.
type PackageSnapshot struct {
	Title    string `json:"title" bson:"title"`
	Duration string `json:"duration" bson:"duration"`
	Location string `json:"location" bson:"location"`
	Category string `json:"category" bson:"category"`
	Price    int64  `json:"price" bson:"price"`
}

type BookingDetails struct {
	StartDate           time.Time      `json:"startDate" bson:"start_date" validate:"required"`
	EndDate             time.Time      `json:"endDate" bson:"end_date" validate:"required,gtfield=StartDate"`
	NumberOfPeople      int            `json:"numberOfPeople" bson:"number_of_people" validate:"required,min=1,max=100"`
	SpecialRequests     string         `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"max=1000"`
	EmergencyContact    string         `json:"emergencyContact" bson:"emergency_contact" validate:"required,min=3,max=100"`
	DietaryRestrictions string         `json:"dietaryRestrictions,omitempty" bson:"dietary_restrictions,omitempty" validate:"max=500"`
	Accommodation       Accommodation  `json:"accommodation" bson:"accommodation" validate:"required,oneof=Standard Luxury 'Tented Camp' 'Eco Lodge'"`
	Transportation      Transportation `json:"transportation" bson:"transportation" validate:"required,oneof=Included 'Private Vehicle' 'Shared Vehicle'"`
}

// Assignment is one role's track on a booking. The driver and guide tracks
// move independently of each other.
type Assignment struct {
	AssigneeID  string     `json:"assigneeId,omitempty" bson:"assignee_id,omitempty"`
	Accepted    bool       `json:"accepted" bson:"accepted"`
	AcceptedAt  *time.Time `json:"acceptedAt,omitempty" bson:"accepted_at,omitempty"`
	AssignedBy  string     `json:"assignedBy,omitempty" bson:"assigned_by,omitempty"`
	AssignedAt  *time.Time `json:"assignedAt,omitempty" bson:"assigned_at,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}

type Booking struct {
	ID             string          `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerID     string          `json:"customerId" bson:"customer_id"`
	PackageID      string          `json:"packageId" bson:"package_id"`
	PackageDetails PackageSnapshot `json:"packageDetails" bson:"package_details"`
	BookingDetails BookingDetails  `json:"bookingDetails" bson:"booking_details"`
	TotalPrice     int64           `json:"totalPrice" bson:"total_price"`

	Phase  BookingStatus `json:"phase" bson:"phase"`
	Status BookingStatus `json:"status" bson:"status"`

	Driver Assignment `json:"driver" bson:"driver"`
	Guide  Assignment `json:"guide" bson:"guide"`

	PaymentMethod   PaymentMethod `json:"paymentMethod" bson:"payment_method"`
	Payment         bool          `json:"payment" bson:"payment"`
	SessionID       string        `json:"sessionId,omitempty" bson:"session_id,omitempty"`
	PaymentIntentID string        `json:"paymentIntentId,omitempty" bson:"payment_intent_id,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
	Version   int64     `json:"version" bson:"version"`

	Customer *UserSummary `json:"customer,omitempty" bson:"customer,omitempty"`
}

// Track returns the assignment track for role. Unknown roles yield nil.
func (b *Booking) Track(role Role) *Assignment {
	switch role {
	case RoleDriver:
		return &b.Driver
	case RoleGuide:
		return &b.Guide
	}
	return nil
}

type CheckoutRequest struct {
	PackageID      string         `json:"packageId" validate:"required,mongodb"`
	BookingDetails BookingDetails `json:"bookingDetails" validate:"required"`
	SuccessURL     string         `json:"successUrl,omitempty" validate:"omitempty,url"`
	CancelURL      string         `json:"cancelUrl,omitempty" validate:"omitempty,url"`
}

type CheckoutResult struct {
	Success    bool   `json:"success"`
	SessionURL string `json:"session_url"`
	BookingID  string `json:"bookingId"`
}

type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

type AssignDriverRequest struct {
	DriverID string `json:"driverId" validate:"required"`
}

type AssignGuideRequest struct {
	GuideID string `json:"guideId" validate:"required"`
}

type StatusUpdateRequest struct {
	Status BookingStatus `json:"status" validate:"required,booking_status"`
}
