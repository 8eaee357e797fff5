package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	CORS      CORSConfig
	Email     EmailConfig
	Payment   PaymentConfig
	Draft     DraftConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
	// AutoMigrate applies the embedded migrations at server start.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds admin session token settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds attachment storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings. File enables a rotating log file in
// addition to stderr.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds notification delivery settings.
type EmailConfig struct {
	Provider     string `mapstructure:"provider"`
	Region       string `mapstructure:"region"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
	AdminAddress string `mapstructure:"admin_address"`
	FrontendURL  string `mapstructure:"frontend_url"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
}

// PaymentConfig holds hosted checkout settings. An empty SecretKey selects
// the mock provider.
type PaymentConfig struct {
	SecretKey       string `mapstructure:"secret_key"`
	WebhookSecret   string `mapstructure:"webhook_secret"`
	Currency        string `mapstructure:"currency"`
	ServiceFeeCents int64  `mapstructure:"service_fee_cents"`
	ProductName     string `mapstructure:"product_name"`
	FrontendURL     string `mapstructure:"frontend_url"`
}

// ServiceFee returns the service fee in currency units.
func (p *PaymentConfig) ServiceFee() float64 {
	return float64(p.ServiceFeeCents) / 100
}

// DraftConfig holds wizard draft and session settings.
type DraftConfig struct {
	Backend    string        `mapstructure:"backend"`
	TTL        time.Duration `mapstructure:"ttl"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// RateLimitConfig holds per-client limits for public write endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
}

// Load reads configuration from environment variables with the NR6_ prefix.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NR6")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "nr6")
	v.SetDefault("db.password", "nr6_secret")
	v.SetDefault("db.name", "nr6_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.auto_migrate", true)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "30m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "nr6")

	// S3 defaults
	v.SetDefault("s3.region", "ca-central-1")
	v.SetDefault("s3.bucket", "nr6-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 900)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ca-central-1")
	v.SetDefault("email.from_address", "noreply@nr6.ca")
	v.SetDefault("email.from_name", "NR6.ca")
	v.SetDefault("email.admin_address", "support@nr6.ca")
	v.SetDefault("email.frontend_url", "http://localhost:3000")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)

	// Payment defaults
	v.SetDefault("payment.secret_key", "")
	v.SetDefault("payment.webhook_secret", "")
	v.SetDefault("payment.currency", "usd")
	v.SetDefault("payment.service_fee_cents", 99900)
	v.SetDefault("payment.product_name", "NR6 Filing Service")
	v.SetDefault("payment.frontend_url", "http://localhost:3000")

	// Draft defaults
	v.SetDefault("draft.backend", "memory")
	v.SetDefault("draft.ttl", "720h")
	v.SetDefault("draft.session_ttl", "2h")

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "nr6:changes")

	// Rate limit defaults
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 20)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "NR6_SERVER_PORT",
		"server.read_timeout":       "NR6_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "NR6_SERVER_WRITE_TIMEOUT",
		"server.environment":        "NR6_SERVER_ENVIRONMENT",
		"db.host":                   "NR6_DB_HOST",
		"db.port":                   "NR6_DB_PORT",
		"db.user":                   "NR6_DB_USER",
		"db.password":               "NR6_DB_PASSWORD",
		"db.name":                   "NR6_DB_NAME",
		"db.sslmode":                "NR6_DB_SSLMODE",
		"db.max_open":               "NR6_DB_MAX_OPEN",
		"db.max_idle":               "NR6_DB_MAX_IDLE",
		"db.auto_migrate":           "NR6_DB_AUTO_MIGRATE",
		"jwt.secret":                "NR6_JWT_SECRET",
		"jwt.access_expiry":         "NR6_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":        "NR6_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                "NR6_JWT_ISSUER",
		"s3.region":                 "NR6_S3_REGION",
		"s3.bucket":                 "NR6_S3_BUCKET",
		"s3.endpoint":               "NR6_S3_ENDPOINT",
		"s3.access_key":             "NR6_S3_ACCESS_KEY",
		"s3.secret_key":             "NR6_S3_SECRET_KEY",
		"s3.presign_expiry":         "NR6_S3_PRESIGN_EXPIRY",
		"log.level":                 "NR6_LOG_LEVEL",
		"log.format":                "NR6_LOG_FORMAT",
		"log.file":                  "NR6_LOG_FILE",
		"log.max_size_mb":           "NR6_LOG_MAX_SIZE_MB",
		"log.max_backups":           "NR6_LOG_MAX_BACKUPS",
		"log.max_age_days":          "NR6_LOG_MAX_AGE_DAYS",
		"cors.allowed_origins":      "NR6_CORS_ALLOWED_ORIGINS",
		"email.provider":            "NR6_EMAIL_PROVIDER",
		"email.region":              "NR6_EMAIL_REGION",
		"email.from_address":        "NR6_EMAIL_FROM_ADDRESS",
		"email.from_name":           "NR6_EMAIL_FROM_NAME",
		"email.admin_address":       "NR6_EMAIL_ADMIN_ADDRESS",
		"email.frontend_url":        "NR6_EMAIL_FRONTEND_URL",
		"email.smtp_host":           "NR6_EMAIL_SMTP_HOST",
		"email.smtp_port":           "NR6_EMAIL_SMTP_PORT",
		"email.smtp_user":           "NR6_EMAIL_SMTP_USER",
		"email.smtp_password":       "NR6_EMAIL_SMTP_PASSWORD",
		"payment.secret_key":        "NR6_PAYMENT_SECRET_KEY",
		"payment.webhook_secret":    "NR6_PAYMENT_WEBHOOK_SECRET",
		"payment.currency":          "NR6_PAYMENT_CURRENCY",
		"payment.service_fee_cents": "NR6_PAYMENT_SERVICE_FEE_CENTS",
		"payment.product_name":      "NR6_PAYMENT_PRODUCT_NAME",
		"payment.frontend_url":      "NR6_PAYMENT_FRONTEND_URL",
		"draft.backend":             "NR6_DRAFT_BACKEND",
		"draft.ttl":                 "NR6_DRAFT_TTL",
		"draft.session_ttl":         "NR6_DRAFT_SESSION_TTL",
		"redis.addr":                "NR6_REDIS_ADDR",
		"redis.password":            "NR6_REDIS_PASSWORD",
		"redis.db":                  "NR6_REDIS_DB",
		"redis.channel":             "NR6_REDIS_CHANNEL",
		"rate_limit.rps":            "NR6_RATE_LIMIT_RPS",
		"rate_limit.burst":          "NR6_RATE_LIMIT_BURST",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if NR6_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("NR6_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),

		AutoMigrate: v.GetBool("db.auto_migrate"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:      v.GetString("log.level"),
		Format:     v.GetString("log.format"),
		File:       v.GetString("log.file"),
		MaxSizeMB:  v.GetInt("log.max_size_mb"),
		MaxBackups: v.GetInt("log.max_backups"),
		MaxAgeDays: v.GetInt("log.max_age_days"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:     v.GetString("email.provider"),
		Region:       v.GetString("email.region"),
		FromAddress:  v.GetString("email.from_address"),
		FromName:     v.GetString("email.from_name"),
		AdminAddress: v.GetString("email.admin_address"),
		FrontendURL:  v.GetString("email.frontend_url"),
		SMTPHost:     v.GetString("email.smtp_host"),
		SMTPPort:     v.GetInt("email.smtp_port"),
		SMTPUser:     v.GetString("email.smtp_user"),
		SMTPPassword: v.GetString("email.smtp_password"),
	}
	cfg.Payment = PaymentConfig{
		SecretKey:       v.GetString("payment.secret_key"),
		WebhookSecret:   v.GetString("payment.webhook_secret"),
		Currency:        v.GetString("payment.currency"),
		ServiceFeeCents: v.GetInt64("payment.service_fee_cents"),
		ProductName:     v.GetString("payment.product_name"),
		FrontendURL:     strings.TrimRight(v.GetString("payment.frontend_url"), "/"),
	}
	cfg.Draft = DraftConfig{
		Backend:    v.GetString("draft.backend"),
		TTL:        v.GetDuration("draft.ttl"),
		SessionTTL: v.GetDuration("draft.session_ttl"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		Channel:  v.GetString("redis.channel"),
	}
	cfg.RateLimit = RateLimitConfig{
		RequestsPerSecond: v.GetFloat64("rate_limit.rps"),
		Burst:             v.GetInt("rate_limit.burst"),
	}

	if cfg.Draft.Backend == "redis" && cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("draft backend redis requires NR6_REDIS_ADDR")
	}

	return cfg, nil
}
