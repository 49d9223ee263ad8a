package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvLogFile  = "LOG_FILE"

	EnvJWTSecret = "JWT_SECRET"

	EnvStripeSecretKey     = "STRIPE_SECRET_KEY"
	EnvStripeWebhookSecret = "STRIPE_WEBHOOK_SECRET"
	EnvCheckoutSuccessURL  = "CHECKOUT_SUCCESS_URL"
	EnvCheckoutCancelURL   = "CHECKOUT_CANCEL_URL"
	EnvCurrency            = "CURRENCY"

	EnvDefaultPhoneRegion = "DEFAULT_PHONE_REGION"

	EnvRedisURL = "REDIS_URL"

	EnvKafkaBrokers       = "KAFKA_BROKERS"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"

	EnvRateLimit          = "RATE_LIMIT"
	EnvTrustForwardHeader = "TRUST_FORWARD_HEADER"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvOrphanBookingTTL    = "ORPHAN_BOOKING_TTL"
	EnvOrphanSweepInterval = "ORPHAN_SWEEP_INTERVAL"
)
