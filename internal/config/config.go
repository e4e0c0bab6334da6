package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	Port        string
	DatabaseURL string

	AllowedOrigins []string

	JWT       JWTConfig
	Admin     AdminConfig
	Email     EmailConfig
	SMS       SMSConfig
	Scheduler SchedulerConfig
	Logger    LoggerConfig
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type AdminConfig struct {
	// Email matching this address is auto-promoted to admin at signup and login.
	Email string
	// Code allowing admin self-signup when supplied with role=admin.
	SignupCode string
}

type EmailConfig struct {
	SendGridKey string
	FromName    string
	FromAddress string
}

type SMSConfig struct {
	TwilioSID   string
	TwilioToken string
	FromNumber  string
}

type SchedulerConfig struct {
	// Tick is the reminder scan cadence; Window is how far ahead a due date
	// may be to count as due soon.
	Tick   time.Duration
	Window time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:        getString("APP_NAME", "taskhive"),
		Environment:    getString("APP_ENV", "development"),
		Port:           getString("PORT", "3000"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: getOrigins(),
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			TTL:    getDuration("JWT_TTL", 168*time.Hour),
		},
		Admin: AdminConfig{
			Email:      strings.ToLower(os.Getenv("ADMIN_EMAIL")),
			SignupCode: os.Getenv("ADMIN_SIGNUP_CODE"),
		},
		Email: EmailConfig{
			SendGridKey: os.Getenv("SENDGRID_API_KEY"),
			FromName:    getString("EMAIL_FROM_NAME", "TaskHive"),
			FromAddress: getString("EMAIL_FROM_ADDRESS", "no-reply@taskhive.dev"),
		},
		SMS: SMSConfig{
			TwilioSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioToken: os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber:  os.Getenv("TWILIO_FROM_NUMBER"),
		},
		Scheduler: SchedulerConfig{
			Tick:   getDuration("REMINDER_TICK", 5*time.Minute),
			Window: getDuration("REMINDER_WINDOW", time.Hour),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	return cfg, nil
}

func getOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, strings.TrimSuffix(clientURL, "/"))
	}

	if allowed := os.Getenv("ALLOWED_ORIGINS"); allowed != "" {
		for _, origin := range strings.Split(allowed, ",") {
			trimmed := strings.TrimSuffix(strings.TrimSpace(origin), "/")
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
