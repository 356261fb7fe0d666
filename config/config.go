package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	DBUrl       string
	JWTSecret   string
	JWTTTL      time.Duration
	FrontendURL string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	FeedCacheTTL         time.Duration
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	UploadsPerMinute         int
	UploadsPerDay            int
	// Object storage
	StorageDriver   string // "s3" or "local"
	S3Endpoint      string // empty for AWS, set for Wasabi/MinIO
	S3Region        string
	S3Bucket        string
	S3AccessKeyID   string
	S3SecretKey     string
	S3PublicBaseURL string
	LocalStorageDir string
	LocalStorageURL string
	MaxVideoSizeMB  int
	MaxImageSizeMB  int
	// Interview analysis
	GeminiAPIKey     string
	GeminiModel      string
	AnalysisWorkers  int
	AnalysisQueue    int
	QuestionBankPath string
	SwaggerEnabled   bool
	SecurityLogToDB  bool
}

func LoadConfig() (*Config, error) {
	// .env is optional; production reads the real environment
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		JWTTTL:      getEnvDuration("JWT_TTL", 24*time.Hour),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@agroskills.com.br"),
		// Redis Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		FeedCacheTTL:         getEnvDuration("FEED_CACHE_TTL", 5*time.Minute),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		UploadsPerMinute:         getEnvInt("UPLOADS_PER_MINUTE", 10),
		UploadsPerDay:            getEnvInt("UPLOADS_PER_DAY", 100),
		// Object storage
		StorageDriver:   getEnv("STORAGE_DRIVER", "local"),
		S3Endpoint:      strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3Region:        getEnv("S3_REGION", "sa-east-1"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3AccessKeyID:   getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:     getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL: strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		LocalStorageDir: getEnv("LOCAL_STORAGE_DIR", "./uploads"),
		LocalStorageURL: strings.TrimRight(getEnv("LOCAL_STORAGE_URL", "/uploads"), "/"),
		MaxVideoSizeMB:  getEnvInt("MAX_VIDEO_SIZE_MB", 100),
		MaxImageSizeMB:  getEnvInt("MAX_IMAGE_SIZE_MB", 5),
		// Interview analysis
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		AnalysisWorkers:  getEnvInt("ANALYSIS_WORKERS", 2),
		AnalysisQueue:    getEnvInt("ANALYSIS_QUEUE_SIZE", 64),
		QuestionBankPath: getEnv("QUESTION_BANK_PATH", ""),
		SwaggerEnabled:   getEnvBool("SWAGGER_ENABLED", true),
		SecurityLogToDB:  getEnvBool("SECURITY_LOG_TO_DB", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Tokens cannot be issued.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not configured. Interview answers will be scored heuristically.")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s", "24h")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
