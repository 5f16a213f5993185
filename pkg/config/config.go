package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Fraud    FraudConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration for the admin API
type JWTConfig struct {
	Secret     string
	Expiration int // in hours
}

// FraudConfig holds the fraud rule settings. Loaded once at startup and handed
// to the detectors as an immutable snapshot per evaluation; algorithms never
// read the environment directly.
type FraudConfig struct {
	PhoneCooldownEnabled    bool
	PhoneCooldownHours      int // [1,720]
	IPCooldownEnabled       bool
	IPCooldownHours         int // [1,720]
	CooldownWarnOnly        bool
	MaxOrdersPerAddress     int
	AddressWindowHours      int
	DuplicateWarnOnly       bool
	NameSimilarityThreshold int // [0,100]
	NameWindowHours         int
	CacheTTLSeconds         int
	CandidateLimit          int
	BatchSize               int
	BlocklistFailClosed     bool
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "fraudguard"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiration: getEnvAsInt("JWT_EXPIRATION", 24),
		},
		Fraud: FraudConfig{
			PhoneCooldownEnabled:    getEnvAsBool("PHONE_COOLDOWN_ENABLED", true),
			PhoneCooldownHours:      clampInt(getEnvAsInt("PHONE_COOLDOWN_HOURS", 24), 1, 720),
			IPCooldownEnabled:       getEnvAsBool("IP_COOLDOWN_ENABLED", false),
			IPCooldownHours:         clampInt(getEnvAsInt("IP_COOLDOWN_HOURS", 24), 1, 720),
			CooldownWarnOnly:        getEnvAsBool("COOLDOWN_WARN_ONLY", false),
			MaxOrdersPerAddress:     getEnvAsInt("MAX_ORDERS_PER_ADDRESS", 3),
			AddressWindowHours:      clampInt(getEnvAsInt("ADDRESS_WINDOW_HOURS", 24), 1, 720),
			DuplicateWarnOnly:       getEnvAsBool("DUPLICATE_WARN_ONLY", false),
			NameSimilarityThreshold: clampInt(getEnvAsInt("NAME_SIMILARITY_THRESHOLD", 80), 0, 100),
			NameWindowHours:         clampInt(getEnvAsInt("NAME_WINDOW_HOURS", 24), 1, 720),
			CacheTTLSeconds:         getEnvAsInt("SCORE_CACHE_TTL_SECONDS", 3600),
			CandidateLimit:          getEnvAsInt("CANDIDATE_LIMIT", 200),
			BatchSize:               getEnvAsInt("BATCH_SIZE", 10),
			BlocklistFailClosed:     getEnvAsBool("BLOCKLIST_FAIL_CLOSED", false),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
