package config // package config loads application configuration from environment variables

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values. Each field is bound to an
// environment variable through its envconfig tag.
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"` // development, test, production
	Port     string `envconfig:"PORT" default:"3000"`           // HTTP port to listen on
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver      string `envconfig:"DB_DRIVER" default:"mysql"` // mysql or memory
	DBUser        string `envconfig:"DB_USER" default:"root"`
	DBPass        string `envconfig:"DB_PASS"`
	DBHost        string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort        string `envconfig:"DB_PORT" default:"3306"`
	DBName        string `envconfig:"DB_NAME" default:"codegate"`
	DBAutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:3001,http://localhost:5173"`
	BodyLimit      string   `envconfig:"BODY_LIMIT" default:"10M"`

	// JWTSecret verifies staff bearer tokens on check-in. Empty disables them.
	JWTSecret string `envconfig:"JWT_SECRET"`
	// CodeSecret keys the ticket scan-code derivation.
	CodeSecret string `envconfig:"CODE_SECRET"`

	OrganizerEmail        string `envconfig:"ORGANIZER_EMAIL" default:"organizer@example.com"`
	OrganizerName         string `envconfig:"ORGANIZER_NAME" default:"Event Organizer"`
	PlaceholderStaffEmail string `envconfig:"PLACEHOLDER_STAFF_EMAIL" default:"staff@example.com"`
	PlaceholderStaffName  string `envconfig:"PLACEHOLDER_STAFF_NAME" default:"Event Staff"`
	CheckInRequireStaff   bool   `envconfig:"CHECKIN_REQUIRE_STAFF" default:"false"`

	AMQPURL              string `envconfig:"RABBITMQ_URL"`
	AMQPExchange         string `envconfig:"RABBITMQ_EXCHANGE" default:"codegate.events"`
	AuditConsumerEnabled bool   `envconfig:"AUDIT_CONSUMER_ENABLED" default:"false"`
	AuditLogPath         string `envconfig:"AUDIT_LOG_PATH" default:"logs/audit.log"`

	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"codegate-events"`
}

// Load reads the environment into a Config and rejects unknown drivers.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "mysql", "memory":
	default:
		return Config{}, fmt.Errorf("load config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// IsProduction reports whether the app runs with production defaults
// (JSON logs, no debug output).
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}
