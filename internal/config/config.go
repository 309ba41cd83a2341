package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string

	// StoreBackend selects the store adapter: postgres, mongodb or local
	StoreBackend string

	Database DatabaseConfig
	Mongo    MongoConfig

	// DataDir holds the durable local store (cart, offline catalog)
	DataDir string

	// SyncTimeout bounds every store adapter call
	SyncTimeout time.Duration

	Image ImageConfig

	// WhatsAppNumber is the fallback contact channel used until the admin
	// saves one through the settings store
	WhatsAppNumber string

	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type ImageConfig struct {
	Backend         string
	LocalDir        string
	URLPrefix       string
	S3Region        string
	S3Bucket        string
	S3Prefix        string
	S3PublicBaseURL string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("STORE_BACKEND", "local")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("SYNC_TIMEOUT", "10s")
	viper.SetDefault("IMAGE_STORAGE", "none")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	syncTimeout, err := time.ParseDuration(getEnvOrViper("SYNC_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:         getEnvOrViper("PORT", "8080"),
		Environment:  getEnvOrViper("ENVIRONMENT", "development"),
		StoreBackend: getEnvOrViper("STORE_BACKEND", "local"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnvOrViper("MONGO_URI", ""),
			Database: getEnvOrViper("MONGO_DATABASE", "storefront"),
		},
		DataDir:     getEnvOrViper("DATA_DIR", "./data"),
		SyncTimeout: syncTimeout,
		Image: ImageConfig{
			Backend:         getEnvOrViper("IMAGE_STORAGE", "none"),
			LocalDir:        getEnvOrViper("IMAGE_LOCAL_DIR", "./data/images"),
			URLPrefix:       getEnvOrViper("IMAGE_URL_PREFIX", "/images"),
			S3Region:        getEnvOrViper("IMAGE_S3_REGION", ""),
			S3Bucket:        getEnvOrViper("IMAGE_S3_BUCKET", ""),
			S3Prefix:        getEnvOrViper("IMAGE_S3_PREFIX", "images"),
			S3PublicBaseURL: getEnvOrViper("IMAGE_S3_PUBLIC_BASE_URL", ""),
		},
		WhatsAppNumber: getEnvOrViper("WHATSAPP_NUMBER", "6281234567890"),
		LogLevel:       getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	switch cfg.StoreBackend {
	case "postgres", "local":
	case "mongodb":
		if cfg.Mongo.URI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongodb")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND: %s", cfg.StoreBackend)
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
