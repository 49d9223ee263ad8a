package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "safari"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultCheckoutSuccessURL = "http://localhost:3000/booking/success?session_id={CHECKOUT_SESSION_ID}"
	DefaultCheckoutCancelURL  = "http://localhost:3000/booking/cancel"
	DefaultCurrency           = "lkr"

	DefaultPhoneRegion = "LK"

	DefaultBookingEventsTopic = "booking-events"

	// ulule/limiter formatted rate: <limit>-<period>
	DefaultRateLimit = "100-M"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultOrphanBookingTTL    = 2 * time.Hour
	DefaultOrphanSweepInterval = 10 * time.Minute

	// The orphan TTL doubles as the checkout session lifetime, which Stripe
	// bounds to 30 minutes .. 24 hours from session creation.
	MinOrphanBookingTTL = 35 * time.Minute
	MaxOrphanBookingTTL = 24 * time.Hour

	DefaultPaginationLimit = 100
)
