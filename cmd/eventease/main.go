package main

import (
	bookingshandler "eventease/internal/bookings/handler"
	bookingsrepo "eventease/internal/bookings/repository"
	bookingsservice "eventease/internal/bookings/service"
	bookingsvalidator "eventease/internal/bookings/validator"
	eventshandler "eventease/internal/events/handler"
	eventsrepo "eventease/internal/events/repository"
	eventsservice "eventease/internal/events/service"
	eventsvalidator "eventease/internal/events/validator"
	"eventease/internal/ledger"
	"eventease/internal/notification"
	"eventease/pkg/app"
	"eventease/pkg/config"
	"eventease/pkg/kafka"
	"eventease/pkg/middleware"
)

const ServiceName = "eventease"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.ValidateServer(); err != nil {
		cfg.Log.Fatal(err.Error())
	}

	cfg.Log.Info("Starting EventEase service")

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.Log)

	eventRepo := eventsrepo.NewMongoEventRepository(cfg)
	eventService := eventsservice.NewEventService(
		eventRepo,
		eventsvalidator.NewEventValidator(cfg.Log),
		cfg,
	)

	sink, closeSink := initNotifications(cfg)
	defer closeSink()

	bookingService := bookingsservice.NewBookingService(
		bookingsrepo.NewMongoBookingRepository(cfg),
		eventRepo,
		ledger.NewMongoSeatLedger(cfg, cfg.Log),
		sink,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		eventshandler.NewEventHandler(eventService, auth, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, auth, cfg.Log),
	)
	serverApp.Run()
}

func initNotifications(cfg *config.Config) (notification.Sink, func()) {
	sinks := []notification.Sink{notification.NewEmailSink(cfg.Log)}
	closeSink := func() {}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		sinks = append(sinks, notification.NewKafkaSink(producer, cfg.Log))
		closeSink = func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
		cfg.Log.Info("Kafka booking stream enabled", "topic", cfg.KafkaTopic)
	} else {
		cfg.Log.Info("Kafka booking stream disabled, no brokers configured")
	}

	return notification.NewFanout(sinks...), closeSink
}
