package configs

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type RESTconfig struct {
	PORT               string
	CORSAllowedOrigins []string
}

// CatalogAPIConfig - клиент каталог-сервера
type CatalogAPIConfig struct {
	URL     string
	Timeout time.Duration
	Retries int
}

type MediaConfig struct {
	BaseURL string
	// UploadDir - временное хранилище файлов черновиков до отправки
	UploadDir string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KV_BACKEND: redis | postgres | memory
const (
	KVBackendRedis    = "redis"
	KVBackendPostgres = "postgres"
	KVBackendMemory   = "memory"
)

type KVConfig struct {
	Backend        string
	LookupCacheTTL time.Duration
}

type RabbitMQConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level  string
	Format string // text | json
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig - вся конфигурация приложения
type AppConfig struct {
	AppName      string
	Rest         RESTconfig
	CatalogAPI   CatalogAPIConfig
	Media        MediaConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	KV           KVConfig
	RabbitMQ     RabbitMQConfig
	DraftPolicy  string
	StdoutLogger StdoutLogConfig
	FluentBit    FluentBitConfig
}

// LoadConfig читает .env (если есть) и переменные окружения.
// Отсутствие .env не ошибка: в контейнере все приходит из окружения.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "korx-catalog")

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})

	cfg.CatalogAPI.URL = strings.TrimRight(getEnvAsString("CATALOG_API_URL", "http://localhost:8000"), "/")
	cfg.CatalogAPI.Timeout = getEnvAsDuration("CATALOG_API_TIMEOUT", 15*time.Second)
	cfg.CatalogAPI.Retries = getEnvAsInt("CATALOG_API_RETRIES", 2)

	cfg.Media.BaseURL = getEnvAsString("MEDIA_BASE_URL", cfg.CatalogAPI.URL)
	cfg.Media.UploadDir = getEnvAsString("UPLOAD_DIR", filepath.Join(os.TempDir(), "korx-uploads"))

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	cfg.KV.Backend = strings.ToLower(getEnvAsString("KV_BACKEND", defaultKVBackend(cfg)))
	switch cfg.KV.Backend {
	case KVBackendRedis, KVBackendPostgres, KVBackendMemory:
	default:
		log.Printf("Warning: unknown KV_BACKEND %q, falling back to %q\n", cfg.KV.Backend, KVBackendMemory)
		cfg.KV.Backend = KVBackendMemory
	}
	if cfg.KV.Backend == KVBackendRedis && cfg.Redis.Addr == "" {
		log.Println("Warning: KV_BACKEND is redis, but REDIS_ADDR is not set. Using memory.")
		cfg.KV.Backend = KVBackendMemory
	}
	if cfg.KV.Backend == KVBackendPostgres && cfg.Database.URL == "" {
		log.Println("Warning: KV_BACKEND is postgres, but DATABASE_URL is not set. Using memory.")
		cfg.KV.Backend = KVBackendMemory
	}
	cfg.KV.LookupCacheTTL = getEnvAsDuration("LOOKUP_CACHE_TTL", 10*time.Minute)

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.DraftPolicy = getEnvAsString("DRAFT_VISIBILITY_POLICY", "owner_only")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")
	cfg.StdoutLogger.Format = strings.ToLower(getEnvAsString("STDOUT_LOG_FORMAT", "text"))

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

func defaultKVBackend(cfg *AppConfig) string {
	switch {
	case cfg.Redis.Addr != "":
		return KVBackendRedis
	case cfg.Database.URL != "":
		return KVBackendPostgres
	default:
		return KVBackendMemory
	}
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную как int; при ошибке разбора пишет предупреждение
// и возвращает значение по умолчанию.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration понимает "15s", "2m", а голое число считает секундами.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
