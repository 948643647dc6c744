package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotDurationMinutes     = "SLOT_DURATION_MINUTES"
	EnvOpeningHour             = "OPENING_HOUR"
	EnvClosingHour             = "CLOSING_HOUR"
	EnvMaxActiveReservations   = "MAX_ACTIVE_RESERVATIONS"
	EnvCancellationCutoffHours = "CANCELLATION_CUTOFF_HOURS"
	EnvVenueTimezone           = "VENUE_TIMEZONE"

	EnvAuditTopic = "AUDIT_TOPIC"
)
