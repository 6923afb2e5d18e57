package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string `env:"CORS_ORIGINS"`

	// TrustedProxies lists CIDR ranges allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Mail  MailConfig
	Kafka KafkaConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET, required"`
	JWTTTL             time.Duration `env:"JWT_TTL, default=24h"`
	BcryptCost         int           `env:"BCRYPT_COST, default=10"`
	ConfirmEmailURL    string        `env:"CONFIRM_EMAIL_URL, default=http://localhost:8080/api/users/confirmation/"`
	ResetPasswordURL   string        `env:"RESET_PASSWORD_URL, default=http://localhost:3000/reset-password/"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE, default=30"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,  default=caregiving"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type MailConfig struct {
	Transport          string        `env:"MAIL_TRANSPORT, default=log"`
	From               string        `env:"MAIL_FROM, default=no-reply@caregiving.local"`
	Host               string        `env:"MAIL_HOST"`
	Port               int           `env:"MAIL_PORT, default=587"`
	User               string        `env:"MAIL_USER"`
	Password           string        `env:"MAIL_PASSWORD"`
	Workers            int           `env:"MAIL_WORKERS, default=4"`
	DedupTTL           time.Duration `env:"MAIL_DEDUP_TTL, default=1m"`
	BreakerMaxFailures uint32        `env:"MAIL_BREAKER_MAX_FAILURES, default=5"`
	BreakerTimeout     time.Duration `env:"MAIL_BREAKER_TIMEOUT, default=30s"`
}

type KafkaConfig struct {
	Brokers   []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	MailTopic string   `env:"KAFKA_MAIL_TOPIC, default=mail.outbound"`
}

// IsDevelopment reports whether the service runs with ENV=development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l. Tests pass an envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
