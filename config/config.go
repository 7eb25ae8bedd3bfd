package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StoreBaseURL string
	StoreID      string
	ZipCode      string

	MinSavingsDollar  float64
	MinSavingsPercent float64
	MaxOriginalPrice  float64
	DedupWindowDays   int

	MaxRetries    int
	RateLimitMs   int
	TimeoutSec    int
	CheckInterval time.Duration

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	CSVOutputPath string
	ChromeBin     string

	TelegramBotToken string
	TelegramChatID   int64

	SMTPServer     string
	SMTPPort       string
	SenderEmail    string
	SenderPassword string
	RecipientEmail string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		StoreBaseURL: getEnv("STORE_BASE_URL", "https://giantfood.com"),
		StoreID:      getEnv("STORE_ID", "0774"),
		ZipCode:      getEnv("ZIP_CODE", "20715"),

		MinSavingsDollar:  getEnvFloat("MIN_SAVINGS_DOLLAR", 1.50),
		MinSavingsPercent: getEnvFloat("MIN_SAVINGS_PERCENT", 25),
		MaxOriginalPrice:  getEnvFloat("MAX_ORIGINAL_PRICE", 100.00),
		DedupWindowDays:   getEnvInt("DEDUP_WINDOW_DAYS", 3),

		MaxRetries:    getEnvInt("MAX_RETRIES", 3),
		RateLimitMs:   getEnvInt("RATE_LIMIT_MS", 2000),
		TimeoutSec:    getEnvInt("TIMEOUT_SEC", 30),
		CheckInterval: time.Duration(getEnvInt("CHECK_INTERVAL_HOURS", 12)) * time.Hour,

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "deals"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "deals123"),
		PostgresDB:       getEnv("POSTGRES_DB", "deals_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/deals.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		SMTPServer:     getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SenderEmail:    getEnv("SENDER_EMAIL", ""),
		SenderPassword: getEnv("SENDER_PASSWORD", ""),
		RecipientEmail: getEnv("RECIPIENT_EMAIL", ""),
	}
}

// Validate fails fast on settings that would make every run useless.
func (c *Config) Validate() error {
	if c.MinSavingsDollar < 0 {
		return fmt.Errorf("config: MIN_SAVINGS_DOLLAR must not be negative")
	}
	if c.MinSavingsPercent < 0 || c.MinSavingsPercent > 100 {
		return fmt.Errorf("config: MIN_SAVINGS_PERCENT must be within 0-100")
	}
	if c.MaxOriginalPrice < 0 {
		return fmt.Errorf("config: MAX_ORIGINAL_PRICE must not be negative")
	}
	if c.DedupWindowDays < 0 {
		return fmt.Errorf("config: DEDUP_WINDOW_DAYS must not be negative")
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("config: CHECK_INTERVAL_HOURS must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// DedupWindow returns the recency window as a duration.
func (c *Config) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowDays) * 24 * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.ParseInt(val, 10, 64)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
