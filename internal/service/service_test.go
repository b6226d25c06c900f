package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"property-service/internal/model"
	"property-service/pkg/config"
	"property-service/pkg/database"
	"property-service/pkg/media"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeUploader struct {
	url      string
	err      error
	payloads []string
}

func (f *fakeUploader) Upload(ctx context.Context, payload string) (media.Result, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return media.Result{}, f.err
	}
	return media.Result{SecureURL: f.url}, nil
}

func (f *fakeUploader) Name() string {
	return "fake"
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.InitDB(&config.DBConfig{
		Driver:   config.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(db, &model.User{}, &model.Property{}, &model.UserProperty{}))
	return db
}

func testConfig() Config {
	return Config{
		UploadTimeout: time.Second,
		Tx:            config.TxConfig{Timeout: 5 * time.Second, MaxAttempts: 2},
	}
}

func seedUser(t *testing.T, db *gorm.DB, email string) model.User {
	user := model.User{Name: email, Email: email}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedProperty inserts a property and its owner link directly
func seedProperty(t *testing.T, db *gorm.DB, owner model.User, p model.Property) model.Property {
	p.CreatorID = owner.ID
	require.NoError(t, db.Create(&p).Error)
	require.NoError(t, db.Create(&model.UserProperty{UserID: owner.ID, PropertyID: p.ID}).Error)
	return p
}

func countRows(t *testing.T, db *gorm.DB, value interface{}) int64 {
	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}
