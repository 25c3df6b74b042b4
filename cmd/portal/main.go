package main

import (
	bookinghandler "docportal/internal/bookings/handler"
	bookingrepo "docportal/internal/bookings/repository"
	bookingservice "docportal/internal/bookings/service"
	bookingvalidator "docportal/internal/bookings/validator"
	doctorhandler "docportal/internal/doctors/handler"
	doctorrepo "docportal/internal/doctors/repository"
	doctorservice "docportal/internal/doctors/service"
	"docportal/internal/events"
	"docportal/internal/payments/gateway"
	paymenthandler "docportal/internal/payments/handler"
	paymentrepo "docportal/internal/payments/repository"
	paymentservice "docportal/internal/payments/service"
	treatmenthandler "docportal/internal/treatments/handler"
	treatmentrepo "docportal/internal/treatments/repository"
	treatmentservice "docportal/internal/treatments/service"
	userhandler "docportal/internal/users/handler"
	userrepo "docportal/internal/users/repository"
	userservice "docportal/internal/users/service"
	"docportal/pkg/app"
	"docportal/pkg/auth"
	"docportal/pkg/config"
)

const ServiceName = "portal"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting portal service")

	tokens := auth.NewTokenMaker(cfg.AccessTokenSecret, cfg.AccessTokenTTL)
	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	// Repositories
	treatmentRepo := treatmentrepo.NewMongoTreatmentRepository(cfg)
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	userRepo := userrepo.NewMongoUserRepository(cfg)
	doctorRepo := doctorrepo.NewMongoDoctorRepository(cfg)
	paymentRepo := paymentrepo.NewMongoPaymentRepository(cfg)

	// Services
	treatmentService := treatmentservice.NewTreatmentService(treatmentRepo, bookingRepo, cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		paymentRepo,
		treatmentService,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	userService := userservice.NewUserService(userRepo, tokens, cfg)
	doctorService := doctorservice.NewDoctorService(doctorRepo, cfg)

	stripeGateway := gateway.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeBaseURL)
	paymentService := paymentservice.NewPaymentService(stripeGateway, cfg)

	cfg.Log.Info("Portal services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		treatmenthandler.NewTreatmentHandler(treatmentService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, tokens, cfg.Log),
		userhandler.NewUserHandler(userService, tokens, cfg.Log),
		doctorhandler.NewDoctorHandler(doctorService, tokens, userService, cfg.Log),
		paymenthandler.NewPaymentHandler(paymentService, tokens, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return events.NopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.BookingEventTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
	}
	return publisher
}
