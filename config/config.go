package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// MaxDedupTTL bounds how long a notification dedup entry may live.
const MaxDedupTTL = time.Hour

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Payment      PaymentConfig
	Mail         MailConfig
	Notification NotificationConfig
	Booking      BookingConfig
}

type AppConfig struct {
	Port               string
	Env                string
	Timezone           string
	AllowedOrigins     []string
	RateLimitPerMinute int
}

type DBConfig struct {
	URL         string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type PaymentConfig struct {
	BaseURL       string
	SecretKey     string
	CallbackURL   string
	ReturnURL     string
	WebhookSecret string
	Currency      string
	Timeout       time.Duration
}

type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

type NotificationConfig struct {
	DedupBackend string
	DedupTTL     time.Duration
}

type BookingConfig struct {
	RegistrationFee decimal.Decimal
	ClinicName      string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine, the process environment is enough.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	paymentTimeout, err := time.ParseDuration(viper.GetString("PAYMENT_TIMEOUT"))
	if err != nil {
		paymentTimeout = 15 * time.Second
	}

	dedupTTL, err := time.ParseDuration(viper.GetString("NOTIFICATION_DEDUP_TTL"))
	if err != nil || dedupTTL <= 0 || dedupTTL > MaxDedupTTL {
		dedupTTL = MaxDedupTTL
	}

	fee, err := decimal.NewFromString(viper.GetString("BOOKING_REGISTRATION_FEE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_REGISTRATION_FEE: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:               viper.GetString("APP_PORT"),
			Env:                viper.GetString("APP_ENV"),
			Timezone:           viper.GetString("APP_TIMEZONE"),
			AllowedOrigins:     splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		DB: DBConfig{
			URL:         viper.GetString("DATABASE_URL"),
			AutoMigrate: viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Payment: PaymentConfig{
			BaseURL:       strings.TrimRight(viper.GetString("PAYMENT_BASE_URL"), "/"),
			SecretKey:     viper.GetString("PAYMENT_SECRET_KEY"),
			CallbackURL:   viper.GetString("PAYMENT_CALLBACK_URL"),
			ReturnURL:     viper.GetString("PAYMENT_RETURN_URL"),
			WebhookSecret: viper.GetString("PAYMENT_WEBHOOK_SECRET"),
			Currency:      viper.GetString("PAYMENT_CURRENCY"),
			Timeout:       paymentTimeout,
		},
		Mail: MailConfig{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			Username:   viper.GetString("SMTP_USERNAME"),
			Password:   viper.GetString("SMTP_PASSWORD"),
			From:       viper.GetString("SMTP_FROM"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
		},
		Notification: NotificationConfig{
			DedupBackend: strings.ToLower(viper.GetString("NOTIFICATION_DEDUP_BACKEND")),
			DedupTTL:     dedupTTL,
		},
		Booking: BookingConfig{
			RegistrationFee: fee,
			ClinicName:      viper.GetString("CLINIC_NAME"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports mandatory settings that are missing. The server must not
// start without them.
func (c *Config) Validate() error {
	var missing []string
	if c.DB.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.App.Port == "" {
		missing = append(missing, "APP_PORT")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	switch c.Notification.DedupBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported NOTIFICATION_DEDUP_BACKEND %q", c.Notification.DedupBackend)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	return nil
}

// Location returns the clinic timezone used to judge appointment dates.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_TIMEZONE", "Africa/Addis_Ababa")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("PAYMENT_BASE_URL", "https://api.chapa.co/v1")
	viper.SetDefault("PAYMENT_CURRENCY", "ETB")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("NOTIFICATION_DEDUP_BACKEND", "memory")
	viper.SetDefault("NOTIFICATION_DEDUP_TTL", "1h")
	viper.SetDefault("BOOKING_REGISTRATION_FEE", "300")
	viper.SetDefault("CLINIC_NAME", "Medical Center")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
