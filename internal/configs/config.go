package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
}

type RabbitMQConfig struct {
	URL     string
	Enabled bool
}

type RESTconfig struct {
	PORT string
}

type FileStorageConfig struct {
	UploadDir           string
	PublicPrefix        string
	AllowedContentTypes []string
	MaxFileSize         int64
}

type ParserConfig struct {
	Command    string
	ScriptPath string
	Timeout    time.Duration
}

type CatalogConfig struct {
	MaxPageSize int
}

type MigrationsConfig struct {
	Enabled bool
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Database     DatabaseConfig
	RabbitMQ     RabbitMQConfig
	Rest         RESTconfig
	FileStorage  FileStorageConfig
	Parser       ParserConfig
	Catalog      CatalogConfig
	Migrations   MigrationsConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из .env (если он есть) и переменных окружения
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath...)
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
		}
		log.Printf("Info: .env file not found (path: %v), using process environment only\n", envPath)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "catalog-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)
	cfg.Database.MinConns = getEnvAsInt("DATABASE_MIN_CONNS", 1)
	cfg.Database.MaxConnLifetime = getEnvAsDuration("DATABASE_MAX_CONN_LIFETIME", time.Hour)
	cfg.Database.ConnectTimeout = getEnvAsDuration("DATABASE_CONNECT_TIMEOUT", 10*time.Second)

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")

	cfg.FileStorage.UploadDir = getEnvAsString("UPLOAD_DIR", "uploads")
	cfg.FileStorage.PublicPrefix = getEnvAsString("UPLOAD_PUBLIC_PREFIX", "/uploads")
	cfg.FileStorage.AllowedContentTypes = getEnvAsList("UPLOAD_ALLOWED_CONTENT_TYPES", []string{"image/jpeg", "image/png", "image/webp"})
	cfg.FileStorage.MaxFileSize = int64(getEnvAsInt("UPLOAD_MAX_FILE_SIZE", 10<<20))

	cfg.Parser.Command = getEnvAsString("PARSER_COMMAND", "node")
	cfg.Parser.ScriptPath = getEnvAsString("PARSER_SCRIPT", "parser/autoru.js")
	cfg.Parser.Timeout = time.Duration(getEnvAsInt("PARSER_TIMEOUT_MS", 60000)) * time.Millisecond

	cfg.Catalog.MaxPageSize = getEnvAsInt("CATALOG_MAX_PAGE_SIZE", 100)
	if cfg.Catalog.MaxPageSize <= 0 {
		log.Printf("Warning: CATALOG_MAX_PAGE_SIZE must be positive, using 100\n")
		cfg.Catalog.MaxPageSize = 100
	}

	cfg.Migrations.Enabled = getEnvAsBool("MIGRATIONS_ENABLED", true)

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

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную как int, при ошибке разбора пишет предупреждение и берет значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
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
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
