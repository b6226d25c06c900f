package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func setCloudinaryEnv(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setCloudinaryEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "property-service", cfg.ServiceName)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, logger.Warn, cfg.DB.LogLevel)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, MediaCloudinary, cfg.Media.Provider)
	assert.Equal(t, 30*time.Second, cfg.Media.Timeout)
	assert.Equal(t, int64(10_000_000), cfg.Media.MaxUploadBytes)
	assert.Equal(t, 10*time.Second, cfg.Tx.Timeout)
	assert.Equal(t, 3, cfg.Tx.MaxAttempts)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/listing.db")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("DB_TX_TIMEOUT", "2s")
	t.Setenv("DB_TX_MAX_ATTEMPTS", "5")
	t.Setenv("MEDIA_PROVIDER", "local")
	t.Setenv("MEDIA_UPLOAD_TIMEOUT", "not-a-duration")
	t.Setenv("MEDIA_MAX_UPLOAD_SIZE", "2MB")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/listing.db", cfg.DB.GetDSN())
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.Tx.Timeout)
	assert.Equal(t, 5, cfg.Tx.MaxAttempts)
	assert.Equal(t, MediaLocal, cfg.Media.Provider)
	assert.Equal(t, 30*time.Second, cfg.Media.Timeout, "invalid duration keeps the default")
	assert.Equal(t, int64(2_000_000), cfg.Media.MaxUploadBytes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowOrigins)
}

func TestLoad_CloudinaryRequiresCredentials(t *testing.T) {
	t.Setenv("MEDIA_PROVIDER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("CLOUDINARY_API_KEY", "")
	t.Setenv("CLOUDINARY_API_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DB:    DBConfig{Driver: DriverSQLite},
			Media: MediaConfig{Provider: MediaLocal, LocalDir: "uploads", MaxUploadSize: "1MB"},
			Tx:    TxConfig{MaxAttempts: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }, true},
		{"unknown provider", func(c *Config) { c.Media.Provider = "s3" }, true},
		{"local without dir", func(c *Config) { c.Media.LocalDir = "" }, true},
		{"zero attempts", func(c *Config) { c.Tx.MaxAttempts = 0 }, true},
		{"unparsable upload size", func(c *Config) { c.Media.MaxUploadSize = "lots" }, true},
		{"zero upload size", func(c *Config) { c.Media.MaxUploadSize = "0" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetDSN_Postgres(t *testing.T) {
	c := DBConfig{
		Driver:   DriverPostgres,
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		DBName:   "n",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", c.GetDSN())
}
