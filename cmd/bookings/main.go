package main

import (
	"safari/internal/bookings/events"
	"safari/internal/bookings/handler"
	"safari/internal/bookings/repository"
	"safari/internal/bookings/service"
	"safari/internal/bookings/validator"
	"safari/internal/bookings/worker"
	"safari/pkg/app"
	"safari/pkg/auth"
	"safari/pkg/config"
	"safari/pkg/payment"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")

	publisher := initPublisher(cfg)
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.DefaultPhoneRegion)
	bookingService, packageService := initServices(cfg, publisher, bookingValidator)

	routes := handler.NewRoutes(
		handler.NewBookingHandler(bookingService, bookingValidator, cfg.Log),
		handler.NewPackageHandler(packageService, cfg.Log),
		auth.NewGate(cfg.JWTSecret, cfg.Log),
	)

	serverApp := app.NewApplication(cfg)
	if err := serverApp.SetApp(routes); err != nil {
		cfg.Log.Fatal("Failed to configure application", "error", err)
	}
	serverApp.AddWorker(worker.NewOrphanSweeper(bookingService, cfg.OrphanBookingTTL, cfg.OrphanSweepInterval, cfg.Log))
	serverApp.AddCloser("booking events publisher", publisher)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("KAFKA_BROKERS not set, booking events are not published")
		return events.NewNoopPublisher()
	}
	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.BookingEventsTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka publisher", "error", err)
	}
	return publisher
}

func initServices(cfg *config.Config, publisher events.Publisher, bookingValidator *validator.BookingValidator) (service.BookingService, service.PackageService) {
	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	packageRepo := repository.NewMongoPackageRepository(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		packageRepo,
		gateway,
		gateway,
		publisher,
		bookingValidator,
		cfg,
	)
	packageService := service.NewPackageService(packageRepo, cfg)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, packageService
}
