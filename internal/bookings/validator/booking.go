package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"safari/pkg/logger"
	"safari/pkg/model"
	"safari/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as field -> message for API responses.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

type BookingValidator struct {
	validate    *validator.Validate
	logger      *logger.Logger
	phoneRegion string
	now         func() time.Time
}

func NewBookingValidator(log *logger.Logger, phoneRegion string) *BookingValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		log.Fatal("Failed to register 'booking_status' validator",
			"error", err,
		)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate:    v,
		logger:      log,
		phoneRegion: phoneRegion,
		now:         time.Now,
	}
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return model.BookingStatus(fl.Field().String()).IsValid()
}

// Normalize applies tier defaults and cleans the free-text fields. The
// emergency contact becomes E.164 when it parses as a phone number.
func (v *BookingValidator) Normalize(details *model.BookingDetails) {
	if details.Accommodation == "" {
		details.Accommodation = model.AccommodationStandard
	}
	if details.Transportation == "" {
		details.Transportation = model.TransportationIncluded
	}
	details.SpecialRequests = sanitizer.TrimAndNormalize(details.SpecialRequests)
	details.DietaryRestrictions = sanitizer.TrimAndNormalize(details.DietaryRestrictions)
	details.EmergencyContact = sanitizer.NormalizeContact(details.EmergencyContact, v.phoneRegion)
}

func (v *BookingValidator) ValidateCheckout(req *model.CheckoutRequest) error {
	if err := v.Struct(req); err != nil {
		return err
	}

	today := v.now().UTC().Truncate(24 * time.Hour)
	if req.BookingDetails.StartDate.Before(today) {
		return ValidationErrors{
			ValidationError{
				Field:   "startDate",
				Message: "startDate cannot be in the past",
			},
		}
	}

	return nil
}

// ValidateCapacity checks the party size against the package. A zero
// capacity means the package is not limited.
func (v *BookingValidator) ValidateCapacity(details *model.BookingDetails, pkg *model.Package) error {
	if pkg.Capacity > 0 && details.NumberOfPeople > pkg.Capacity {
		return ValidationErrors{
			ValidationError{
				Field:   "numberOfPeople",
				Message: fmt.Sprintf("numberOfPeople (%d) exceeds package capacity (%d)", details.NumberOfPeople, pkg.Capacity),
			},
		}
	}
	return nil
}

// Struct validates any request type carrying validate tags.
func (v *BookingValidator) Struct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), lowerFirst(err.Param()))
		case "url":
			message = fmt.Sprintf("%s must be an absolute URL", err.Field())
		case "booking_status":
			message = fmt.Sprintf("%s is not a valid booking status", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
