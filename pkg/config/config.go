package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Supported media providers
const (
	MediaCloudinary = "cloudinary"
	MediaLocal      = "local"
)

// DBConfig holds database configuration
type DBConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Path            string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        logger.LogLevel
}

// GetDSN returns the connection string for the configured driver
func (c *DBConfig) GetDSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// MediaConfig holds the media host configuration shared by every upload
type MediaConfig struct {
	Provider  string
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string
	Folder    string
	Timeout   time.Duration

	// MaxUploadSize is a human-readable limit such as "10MB"
	MaxUploadSize  string
	MaxUploadBytes int64

	// Local provider only
	LocalDir      string
	LocalURLPath  string
	PublicBaseURL string
}

// TxConfig holds transaction limits for multi-record writes
type TxConfig struct {
	Timeout     time.Duration
	MaxAttempts int
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowOrigins []string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Media       MediaConfig
	Tx          TxConfig
	CORS        CORSConfig
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Not returning error as .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: getEnv("SERVICE_NAME", "property-service"),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "password"),
			DBName:          getEnv("DB_NAME", "property_service"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			Path:            getEnv("DB_PATH", "property-service.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "property"),
		},
		Media: MediaConfig{
			Provider:      strings.ToLower(getEnv("MEDIA_PROVIDER", MediaCloudinary)),
			CloudName:     getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:        getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:     getEnv("CLOUDINARY_API_SECRET", ""),
			BaseURL:       getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com"),
			Folder:        getEnv("CLOUDINARY_FOLDER", ""),
			Timeout:       getEnvAsDuration("MEDIA_UPLOAD_TIMEOUT", 30*time.Second),
			MaxUploadSize: getEnv("MEDIA_MAX_UPLOAD_SIZE", "10MB"),
			LocalDir:      getEnv("MEDIA_LOCAL_DIR", "./uploads"),
			LocalURLPath:  getEnv("MEDIA_LOCAL_URL_PATH", "/media"),
			PublicBaseURL: getEnv("MEDIA_PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Tx: TxConfig{
			Timeout:     getEnvAsDuration("DB_TX_TIMEOUT", 10*time.Second),
			MaxAttempts: getEnvAsInt("DB_TX_MAX_ATTEMPTS", 3),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the combinations the service cannot start with
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	switch c.Media.Provider {
	case MediaCloudinary:
		if c.Media.CloudName == "" || c.Media.APIKey == "" || c.Media.APISecret == "" {
			return errors.New("cloudinary provider requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	case MediaLocal:
		if c.Media.LocalDir == "" {
			return errors.New("local media provider requires MEDIA_LOCAL_DIR")
		}
	default:
		return fmt.Errorf("unsupported MEDIA_PROVIDER %q", c.Media.Provider)
	}

	size, err := units.FromHumanSize(c.Media.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid MEDIA_MAX_UPLOAD_SIZE: %w", err)
	}
	if size <= 0 {
		return errors.New("MEDIA_MAX_UPLOAD_SIZE must be positive")
	}
	c.Media.MaxUploadBytes = size

	if c.Tx.MaxAttempts < 1 {
		return errors.New("DB_TX_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.DBName),
		zap.String("server_port", c.Server.Port),
		zap.String("media_provider", c.Media.Provider),
		zap.String("media_max_upload_size", c.Media.MaxUploadSize),
		zap.Duration("tx_timeout", c.Tx.Timeout),
		zap.Int("tx_max_attempts", c.Tx.MaxAttempts),
	}
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as integers
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get comma separated environment variables
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

// Helper function to get environment variables as log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	valueStr := getEnv(key, "")
	switch valueStr {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}
