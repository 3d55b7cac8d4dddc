package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"fmt"
	"net/url"
)

type Config struct {
	JWTSecret      string
	PublicBaseURL  string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPass         string
	DBName         string
	DBNameTest     string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	MinioHost      string
	MinioPort      string
	MinioUsername  string
	MinioPassword  string
	BucketName     string
	BucketNameTest string

	// Upload policy. Policy, not core logic: both knobs are externally
	// configurable and checked before any storage write.
	MaxUploadBytes    int64
	AllowedUploadExts []string

	PreviewURLTTL time.Duration

	RabbitMQURL      string
	RabbitMQPrefetch int

	ImportWorkerConcurrency int
	ImportRate              float64
	ImportBurst             int
	ImportRetryMax          int
	ImportRetryDelays       []time.Duration
	ImportHTTPTimeout       time.Duration
	ImportAllowPrivate      bool
	ImportAllowedHosts      []string
	ImportMaxBytes          int64
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDurationList(key string, defaultValue []time.Duration) []time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// InitConfig loads configuration from the environment.
func InitConfig() {
	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(rabbitUser),
			url.PathEscape(rabbitPass),
			rabbitHost,
			rabbitPort,
			url.PathEscape(rabbitVhost),
		)
	}
	retryDelays := getEnvDurationList(
		"IMPORT_RETRY_DELAYS",
		[]time.Duration{10 * time.Second, 30 * time.Second, 2 * time.Minute, 10 * time.Minute, 30 * time.Minute},
	)
	AppConfig = Config{
		JWTSecret:      getEnv("JWT_SECRET", "l=ax+b"),
		PublicBaseURL:  getEnv("APP_BASE_URL", ""),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPass:         getEnv("DB_PASS", "root"),
		DBName:         getEnv("DB_NAME", "NetVault"),
		DBNameTest:     getEnv("DB_NAME_TEST", "NetVault_Test"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		MinioHost:      getEnv("MINIO_HOST", "localhost"),
		MinioPort:      getEnv("MINIO_PORT", "9000"),
		MinioUsername:  getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword:  getEnv("MINIO_PASSWORD", "minioadmin"),
		BucketName:     getEnv("BUCKET_NAME", "netvault"),
		BucketNameTest: getEnv("BUCKET_NAME_TEST", "netvault-test"),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 1<<30), // 1GB
		AllowedUploadExts: getEnvList("ALLOWED_UPLOAD_EXTS", []string{
			".jpg", ".jpeg", ".png", ".gif", ".txt", ".md", ".pdf",
			".zip", ".tar", ".gz", ".mp3", ".mp4", ".doc", ".docx",
			".xls", ".xlsx", ".ppt", ".pptx", ".csv", ".json",
		}),

		PreviewURLTTL: getEnvDuration("PREVIEW_URL_TTL", time.Hour),

		RabbitMQURL:      rabbitURL,
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 8),

		ImportWorkerConcurrency: getEnvInt("IMPORT_WORKER_CONCURRENCY", 4),
		ImportRate:              getEnvFloat("IMPORT_RATE", 2),
		ImportBurst:             getEnvInt("IMPORT_BURST", 4),
		ImportRetryMax:          getEnvInt("IMPORT_RETRY_MAX", 5),
		ImportRetryDelays:       retryDelays,
		ImportHTTPTimeout:       getEnvDuration("IMPORT_HTTP_TIMEOUT", 30*time.Minute),
		ImportAllowPrivate:      getEnvBool("IMPORT_ALLOW_PRIVATE", false),
		ImportAllowedHosts:      getEnvList("IMPORT_ALLOW_HOSTS", nil),
		ImportMaxBytes:          getEnvInt64("IMPORT_MAX_BYTES", 0),
	}
}
