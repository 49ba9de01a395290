package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the bot needs from the environment.
type Config struct {
	TelegramToken string

	// Planno backend credentials.
	APIURL      string
	APIEmail    string
	APIPassword string

	// Classifier settings.
	AnthropicKey    string
	ClassifierModel string

	// ReplyTimeout bounds how long a flow waits for the user's next
	// message (account selection). PendingTTL expires stale yes/no
	// confirmations; zero means they never expire.
	ReplyTimeout time.Duration
	PendingTTL   time.Duration

	// StatePath points at a bolt file for conversation state. Empty
	// keeps state in memory only.
	StatePath string

	// KeywordsFile optionally overrides the built-in category keyword
	// table (YAML, keyword -> category title).
	KeywordsFile string

	// ReconcileSchedule is a cron spec for the balance drift check.
	ReconcileSchedule string
}

func LoadConfig() (*Config, error) {
	// A missing .env file is fine in production; env vars win anyway.
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		APIURL:            os.Getenv("API_URL"),
		APIEmail:          os.Getenv("API_EMAIL"),
		APIPassword:       os.Getenv("API_PASSWORD"),
		AnthropicKey:      os.Getenv("ANTHROPIC_API_KEY"),
		ClassifierModel:   os.Getenv("CLASSIFIER_MODEL"),
		StatePath:         os.Getenv("STATE_PATH"),
		KeywordsFile:      os.Getenv("KEYWORDS_FILE"),
		ReconcileSchedule: os.Getenv("RECONCILE_SCHEDULE"),
		ReplyTimeout:      durationEnv("REPLY_TIMEOUT", 30*time.Second),
		PendingTTL:        durationEnv("PENDING_TTL", 0),
	}

	if cfg.ReconcileSchedule == "" {
		cfg.ReconcileSchedule = "@every 10m"
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
