package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Port string

	// Storage selects the durable backend: memory, sqlite, or mongo.
	Storage    string
	SQLitePath string
	MongoURI   string
	MongoDB    string

	// RedisAddr is empty when the service runs cacheless.
	RedisAddr string
	CacheTTL  time.Duration

	// Batch job tuning.
	UserChunkSize       int
	MaxAssignAttempts   int
	AssignRetryPause    time.Duration
	CacheWriteBatchSize int
	AssignCron          string
	WarmCron            string

	// Alerting.
	SlackToken   string
	AlertChannel string

	LocalTimezone *time.Location
}

// Load reads configuration values and prepares defaults where applicable.
func Load() *Config {
	_ = godotenv.Load()

	timezoneName := getenvDefault("TIMEZONE", "Local")
	location, err := time.LoadLocation(timezoneName)
	if err != nil {
		log.Printf("config: invalid TIMEZONE %q, defaulting to system local: %v", timezoneName, err)
		location = time.Local
	}

	return &Config{
		Port:       getenvDefault("PORT", "8080"),
		Storage:    getenvDefault("STORAGE", "sqlite"),
		SQLitePath: getenvDefault("SQLITE_PATH", "reminders.db"),
		MongoURI:   getenvDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenvDefault("MONGO_DB", "okebari"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		CacheTTL:  time.Duration(parseIntEnv("CACHE_TTL_HOURS", 24)) * time.Hour,

		UserChunkSize:       parseIntEnv("USER_CHUNK_SIZE", 1000),
		MaxAssignAttempts:   parseIntEnv("ASSIGN_MAX_ATTEMPTS", 3),
		AssignRetryPause:    time.Duration(parseIntEnv("ASSIGN_RETRY_PAUSE_MS", 500)) * time.Millisecond,
		CacheWriteBatchSize: parseIntEnv("CACHE_WRITE_BATCH_SIZE", 5000),
		AssignCron:          getenvDefault("ASSIGN_CRON", "0 23 * * *"),
		WarmCron:            getenvDefault("WARM_CRON", "0 0 * * *"),

		SlackToken:   os.Getenv("SLACK_TOKEN"),
		AlertChannel: getenvDefault("ALERT_CHANNEL", "#reminder-alerts"),

		LocalTimezone: location,
	}
}

func getenvDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func parseIntEnv(key string, def int) int {
	value := os.Getenv(key)
	if value == "" {
		return def
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("config: unable to parse %s=%q as int: %v", key, value, err)
		return def
	}
	return parsed
}
