package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tabletop"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Booking policy. Tables are booked in fixed-width slots inside the
	// venue's opening hours; members are throttled to a small number of
	// active future reservations and may cancel up to a cutoff before start.
	DefaultSlotDurationMinutes     = 90
	DefaultOpeningHour             = 15
	DefaultClosingHour             = 23
	DefaultMaxActiveReservations   = 3
	DefaultCancellationCutoffHours = 2
	DefaultVenueTimezone           = "UTC"

	DefaultAuditTopic = "reservation-audit"

	DefaultPaginationLimit = 100
)
