package main

import (
	"context"
	"time"

	"tabletop/internal/reservations/audit"
	"tabletop/internal/reservations/handler"
	"tabletop/internal/reservations/repository"
	"tabletop/internal/reservations/rules"
	"tabletop/internal/reservations/service"
	"tabletop/internal/reservations/validator"
	"tabletop/pkg/app"
	"tabletop/pkg/config"
	"tabletop/pkg/kafka"
	kafkaconfig "tabletop/pkg/kafka/config"
)

func main() {
	cfg := config.Load("reservations")
	cfg.SetMongo()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repository.EnsureIndexes(ctx, cfg); err != nil {
		cancel()
		cfg.Log.Fatal("Failed to ensure indexes", "error", err)
	}
	cancel()

	reservationRepo := repository.NewMongoReservationRepository(cfg)
	resourceRepo := repository.NewMongoResourceRepository(cfg)
	inventoryRepo := repository.NewMongoInventoryRepository(cfg)
	memberRepo := repository.NewMongoMemberRepository(cfg)
	lockRepo := repository.NewMongoResourceLockRepository(cfg)

	policy := rules.Policy{
		SlotDuration:          time.Duration(cfg.SlotDurationMinutes) * time.Minute,
		OpeningHour:           cfg.OpeningHour,
		ClosingHour:           cfg.ClosingHour,
		MaxActiveReservations: cfg.MaxActiveReservations,
		CancellationCutoff:    time.Duration(cfg.CancellationCutoffHours) * time.Hour,
		Location:              cfg.VenueLocation,
	}

	// Auditing is best-effort: a broker that is down must not keep the
	// booking engine from serving requests.
	var publisher audit.Publisher
	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.AuditTopic)
	if err != nil {
		cfg.Log.Warn("Audit producer unavailable, events will not be published", "error", err)
	} else {
		publisher = producer
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Warn("Failed to close audit producer", "error", err)
			}
		}()
	}
	auditEmitter := audit.NewEmitter(publisher, cfg.Log)

	reservationService := service.NewReservationService(
		reservationRepo,
		resourceRepo,
		inventoryRepo,
		memberRepo,
		lockRepo,
		validator.NewReservationValidator(cfg.Log),
		policy,
		auditEmitter,
		cfg,
	)
	resourceService := service.NewResourceService(resourceRepo, reservationRepo, cfg)

	application := app.NewApplication(cfg)
	application.SetApp(
		handler.NewHealthHandler(cfg),
		handler.NewReservationHandler(reservationService, cfg),
		handler.NewResourceHandler(resourceService, cfg),
	)
	application.Run()
}
