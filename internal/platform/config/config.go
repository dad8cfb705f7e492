package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort     string
	CORSOrigins string
	JWTKey      []byte
	JWTExp      time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string

	PistonURL      string
	LeetCodeAPIURL string

	PresenceTTL       time.Duration
	HeartbeatInterval time.Duration
	ReapInterval      time.Duration

	CompileTimeoutMs        int
	RunTimeoutMs            int
	ExecuteDelayMs          int
	DefaultCountdownSeconds int
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort:     getEnv("API_PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		JWTKey:      []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:      time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "user"),
		DBPassword:  getEnv("DB_PASSWORD", "password"),
		DBName:      getEnv("DB_NAME", "codeclash_db"),
		DBSslMode:   getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:   getEnv("OPENROUTER_MODEL", "openai/gpt-4o-mini"),

		PistonURL:      getEnv("PISTON_URL", "https://emkc.org/api/v2/piston"),
		LeetCodeAPIURL: getEnv("LEETCODE_API_URL", "https://alfa-leetcode-api.onrender.com"),

		PresenceTTL:       time.Duration(getEnvAsInt("PRESENCE_TTL_MS", 15000)) * time.Millisecond,
		HeartbeatInterval: time.Duration(getEnvAsInt("HEARTBEAT_INTERVAL_MS", 10000)) * time.Millisecond,
		ReapInterval:      time.Duration(getEnvAsInt("PRESENCE_REAP_INTERVAL_MS", 30000)) * time.Millisecond,

		CompileTimeoutMs:        getEnvAsInt("COMPILE_TIMEOUT_MS", 10000),
		RunTimeoutMs:            getEnvAsInt("RUN_TIMEOUT_MS", 5000),
		ExecuteDelayMs:          getEnvAsInt("EXECUTE_DELAY_MS", 250),
		DefaultCountdownSeconds: getEnvAsInt("DEFAULT_COUNTDOWN_SECONDS", 5),
	}

	AppConfig.DBConnStr = "host=" + AppConfig.DBHost +
		" port=" + AppConfig.DBPort +
		" user=" + AppConfig.DBUser +
		" password=" + AppConfig.DBPassword +
		" dbname=" + AppConfig.DBName +
		" sslmode=" + AppConfig.DBSslMode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
