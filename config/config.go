package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// WhatsApp Cloud API configuration.
	WhatsAppToken   string `mapstructure:"WHATSAPP_TOKEN"`
	WhatsAppPhoneID string `mapstructure:"WHATSAPP_PHONE_ID"`
	WhatsAppAPIBase string `mapstructure:"WHATSAPP_API_BASE"`
	VerifyToken     string `mapstructure:"VERIFY_TOKEN"`

	// Clinic number that receives booking/cancellation notices.
	// Empty disables the notices.
	NotifyNumber string `mapstructure:"NOTIFY_NUMBER"`

	// Google Calendar OAuth configuration.
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	CalendarID         string `mapstructure:"CALENDAR_ID"`

	// Public URL of the calendar connect endpoint, offered to users
	// who send the "conectar agenda" trigger phrase.
	ConnectURL string `mapstructure:"CONNECT_URL"`

	// Store backend: "memory" (default) or "redis".
	StoreBackend string `mapstructure:"STORE_BACKEND"`

	// Appointment reminder worker (requires Redis).
	RemindersEnabled bool `mapstructure:"REMINDERS_ENABLED"`

	// Redis configuration (used when STORE_BACKEND=redis or the
	// reminder worker is enabled).
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCredentialDB    int    `mapstructure:"REDIS_CREDENTIAL_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("WHATSAPP_API_BASE", "https://graph.facebook.com/v19.0")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REMINDERS_ENABLED", false)
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CREDENTIAL_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
