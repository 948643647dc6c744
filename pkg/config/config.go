package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"tabletop/pkg/client"
	"tabletop/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SlotDurationMinutes     int
	OpeningHour             int
	ClosingHour             int
	MaxActiveReservations   int
	CancellationCutoffHours int
	VenueTimezone           string
	VenueLocation           *time.Location

	AuditTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SlotDurationMinutes:     getEnvNum(EnvSlotDurationMinutes, DefaultSlotDurationMinutes),
		OpeningHour:             getEnvNum(EnvOpeningHour, DefaultOpeningHour),
		ClosingHour:             getEnvNum(EnvClosingHour, DefaultClosingHour),
		MaxActiveReservations:   getEnvNum(EnvMaxActiveReservations, DefaultMaxActiveReservations),
		CancellationCutoffHours: getEnvNum(EnvCancellationCutoffHours, DefaultCancellationCutoffHours),
		VenueTimezone:           getEnvStr(EnvVenueTimezone, DefaultVenueTimezone),

		AuditTopic: getEnvStr(EnvAuditTopic, DefaultAuditTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	loc, err := time.LoadLocation(cfg.VenueTimezone)
	if err != nil {
		cfg.Log.Fatal("Invalid venue timezone", "timezone", cfg.VenueTimezone, "error", err)
	}
	cfg.VenueLocation = loc

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.SlotDurationMinutes <= 0 {
		errs = append(errs, fmt.Sprintf("SlotDurationMinutes must be positive, got: %d", cfg.SlotDurationMinutes))
	}
	if cfg.OpeningHour < 0 || cfg.OpeningHour > 23 {
		errs = append(errs, fmt.Sprintf("OpeningHour must be between 0 and 23, got: %d", cfg.OpeningHour))
	}
	if cfg.ClosingHour < 1 || cfg.ClosingHour > 23 {
		errs = append(errs, fmt.Sprintf("ClosingHour must be between 1 and 23, got: %d", cfg.ClosingHour))
	}
	if cfg.ClosingHour <= cfg.OpeningHour {
		errs = append(errs, fmt.Sprintf("ClosingHour (%d) must be after OpeningHour (%d)", cfg.ClosingHour, cfg.OpeningHour))
	} else if cfg.SlotDurationMinutes > (cfg.ClosingHour-cfg.OpeningHour)*60 {
		errs = append(errs, fmt.Sprintf("SlotDurationMinutes (%d) does not fit inside the operating window (%d:00-%d:00)", cfg.SlotDurationMinutes, cfg.OpeningHour, cfg.ClosingHour))
	}
	if cfg.MaxActiveReservations <= 0 {
		errs = append(errs, fmt.Sprintf("MaxActiveReservations must be positive, got: %d", cfg.MaxActiveReservations))
	}
	if cfg.CancellationCutoffHours < 0 {
		errs = append(errs, fmt.Sprintf("CancellationCutoffHours cannot be negative, got: %d", cfg.CancellationCutoffHours))
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"slot_duration_minutes", cfg.SlotDurationMinutes,
		"opening_hour", cfg.OpeningHour,
		"closing_hour", cfg.ClosingHour,
		"max_active_reservations", cfg.MaxActiveReservations,
		"cancellation_cutoff_hours", cfg.CancellationCutoffHours,
		"venue_timezone", cfg.VenueTimezone,
		"audit_topic", cfg.AuditTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
