package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/bytes"
)

const (
	StorageTypePostgres = "postgres"
	StorageTypeMemory   = "memory"

	AssetSinkLocal = "local"
	AssetSinkS3    = "s3"
)

type Config struct {
	Port        string
	Env         string
	StorageType string
	Database    DatabaseConfig

	AssetSink string
	Local     LocalSinkConfig
	S3        S3SinkConfig

	AllowedOrigins      []string
	MaxUploadSize       string
	CommentTransactions bool

	OTLPEndpoint string
	ServiceName  string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns the lib/pq style connection string understood by the gorm postgres driver
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type LocalSinkConfig struct {
	Dir       string
	URLPrefix string
}

type S3SinkConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL     bool
	Region     string
	MaxRetries int
	PublicURL  string
}

// Load reads configuration from the environment, loading .env first if present.
// Missing or malformed required values are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}

	var errs []string
	require := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			errs = append(errs, key+" is required")
		}
		return v
	}
	getInt := func(key string, def int) int {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		}
		return n
	}
	getBool := func(key string, def bool) bool {
		v := os.Getenv(key)
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: invalid bool %q", key, v))
		}
		return b
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Env:                 getEnv("ENV", "development"),
		StorageType:         getEnv("STORAGE_TYPE", StorageTypePostgres),
		AssetSink:           getEnv("ASSET_SINK", AssetSinkLocal),
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		MaxUploadSize:       getEnv("MAX_UPLOAD_SIZE", "500M"),
		CommentTransactions: getBool("COMMENT_TRANSACTIONS", false),
		OTLPEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:         getEnv("OTEL_SERVICE_NAME", "media-share"),
	}

	switch cfg.StorageType {
	case StorageTypePostgres:
		cfg.Database = DatabaseConfig{
			Host:         require("DB_HOST"),
			Port:         getInt("DB_PORT", 5432),
			User:         require("DB_USER"),
			Password:     require("DB_PASSWORD"),
			Name:         require("DB_NAME"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
		}
	case StorageTypeMemory:
	default:
		errs = append(errs, fmt.Sprintf("STORAGE_TYPE: unknown value %q", cfg.StorageType))
	}

	switch cfg.AssetSink {
	case AssetSinkLocal:
		cfg.Local = LocalSinkConfig{
			Dir:       getEnv("UPLOAD_DIR", "uploads"),
			URLPrefix: getEnv("UPLOAD_URL_PREFIX", "/uploads"),
		}
	case AssetSinkS3:
		cfg.S3 = S3SinkConfig{
			Endpoint:   require("ASSET_ENDPOINT"),
			AccessKey:  require("ASSET_ACCESS_KEY"),
			SecretKey:  require("ASSET_SECRET_KEY"),
			Bucket:     require("ASSET_BUCKET"),
			UseSSL:     getBool("ASSET_USE_SSL", true),
			Region:     os.Getenv("ASSET_REGION"),
			MaxRetries: getInt("ASSET_MAX_RETRIES", 0),
			PublicURL:  os.Getenv("ASSET_PUBLIC_URL"),
		}
	default:
		errs = append(errs, fmt.Sprintf("ASSET_SINK: unknown value %q", cfg.AssetSink))
	}

	// echo's BodyLimit parses the string itself; only validate here.
	if n, err := bytes.Parse(cfg.MaxUploadSize); err != nil || n <= 0 {
		errs = append(errs, fmt.Sprintf("MAX_UPLOAD_SIZE: invalid size %q", cfg.MaxUploadSize))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
