package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"property-service/internal/model"
	"property-service/pkg/config"
	"property-service/pkg/database"
	"property-service/pkg/logger"
	"property-service/pkg/media"
	"property-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds the limits applied to property writes
type Config struct {
	UploadTimeout time.Duration
	Tx            config.TxConfig
}

// PropertyService reads and writes properties, keeping each owner's
// reverse references in step with the property rows.
type PropertyService struct {
	db       *gorm.DB
	uploader media.Uploader
	cfg      Config
}

// CreatePropertyInput holds the fields of a new property and its owner's email
type CreatePropertyInput struct {
	Title        string
	Description  string
	PropertyType string
	Location     string
	Price        float64
	Photo        string
	Email        string
}

// UpdatePropertyInput holds the fields to change. Nil fields are left untouched.
type UpdatePropertyInput struct {
	Title        *string
	Description  *string
	PropertyType *string
	Location     *string
	Price        *float64
	Photo        *string
}

// ListResult is a page of properties and the number of records matching the filters
type ListResult struct {
	Properties []model.Property
	Total      int64
}

// NewPropertyService creates a property service
func NewPropertyService(db *gorm.DB, uploader media.Uploader, cfg Config) *PropertyService {
	return &PropertyService{
		db:       db,
		uploader: uploader,
		cfg:      cfg,
	}
}

// List returns the page of properties selected by params along with the
// pre-pagination match count. The count and the page are separate reads.
func (s *PropertyService) List(ctx context.Context, params ListParams) (*ListResult, error) {
	log := logger.FromContext(ctx)
	defer prometheus.TrackDBOperation("query")(time.Now())

	db := s.db.WithContext(ctx)

	var total int64
	if err := params.Apply(db.Model(&model.Property{})).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	skip, limit := params.Window(total)
	log.Debug("Property list query",
		zap.String("title_like", params.TitleLike),
		zap.String("property_type", params.PropertyType),
		zap.Int64("total", total),
		zap.Int("skip", skip),
		zap.Int("limit", limit))

	properties := []model.Property{}
	if limit > 0 {
		err := params.Apply(db.Model(&model.Property{})).
			Order(params.OrderBy()).
			Offset(skip).
			Limit(limit).
			Find(&properties).Error
		if err != nil {
			return nil, fmt.Errorf("find properties: %w", err)
		}
	}

	return &ListResult{Properties: properties, Total: total}, nil
}

// Get returns one property with its creator expanded
func (s *PropertyService) Get(ctx context.Context, id uint) (*model.Property, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var property model.Property
	err := s.db.WithContext(ctx).Preload("Creator").First(&property, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

// Create stores a new property owned by the user with the given email.
// The photo is uploaded before the transaction opens and is not removed if
// the transaction later fails.
func (s *PropertyService) Create(ctx context.Context, in CreatePropertyInput) (property *model.Property, err error) {
	log := logger.FromContext(ctx)
	defer func() { prometheus.RecordPropertyOperation("create", err) }()

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Photo) == "" {
		return nil, fmt.Errorf("%w: photo is required", ErrInvalidInput)
	}

	var owner model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find owner: %w", err)
	}

	photoURL, err := s.upload(ctx, in.Photo)
	if err != nil {
		return nil, err
	}

	property = &model.Property{
		Title:        in.Title,
		Description:  in.Description,
		PropertyType: in.PropertyType,
		Location:     in.Location,
		Price:        in.Price,
		Photo:        photoURL,
		CreatorID:    owner.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = database.RunInTransaction(ctx, s.db, s.cfg.Tx, func(tx *gorm.DB) error {
		property.ID = 0

		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", owner.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}

		if err := tx.Create(property).Error; err != nil {
			return fmt.Errorf("create property: %w", err)
		}

		link := model.UserProperty{UserID: owner.ID, PropertyID: property.ID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("link property to owner: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Warn("Property transaction failed, uploaded photo is orphaned",
			zap.String("photo", photoURL),
			zap.Uint("owner_id", owner.ID),
			zap.Error(err))
		return nil, err
	}

	log.Info("Property created",
		zap.Uint("property_id", property.ID),
		zap.Uint("owner_id", owner.ID))
	return property, nil
}

// Update applies the supplied fields to an existing property. A supplied
// photo is always re-uploaded; when the host returns no URL the raw value is stored.
func (s *PropertyService) Update(ctx context.Context, id uint, in UpdatePropertyInput) (property *model.Property, err error) {
	log := logger.FromContext(ctx)
	defer func() { prometheus.RecordPropertyOperation("update", err) }()

	var existing int64
	if err := s.db.WithContext(ctx).Model(&model.Property{}).Where("id = ?", id).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing == 0 {
		return nil, ErrPropertyNotFound
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
		updates["title_key"] = model.SearchKey(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.PropertyType != nil {
		updates["property_type"] = *in.PropertyType
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Photo != nil && strings.TrimSpace(*in.Photo) != "" {
		photoURL, err := s.upload(ctx, *in.Photo)
		if err != nil {
			return nil, err
		}
		if photoURL == "" {
			photoURL = *in.Photo
		}
		updates["photo"] = photoURL
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	property = &model.Property{}
	err = database.RunInTransaction(ctx, s.db, s.cfg.Tx, func(tx *gorm.DB) error {
		if err := tx.First(property, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&model.Property{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("update property: %w", err)
		}
		return tx.First(property, id).Error
	})
	if err != nil {
		return nil, err
	}

	log.Info("Property updated",
		zap.Uint("property_id", id),
		zap.Int("fields", len(updates)))
	return property, nil
}

// Delete removes a property and its owner's reference to it in one transaction
func (s *PropertyService) Delete(ctx context.Context, id uint) (err error) {
	log := logger.FromContext(ctx)
	defer func() { prometheus.RecordPropertyOperation("delete", err) }()

	var property model.Property
	if err := s.db.WithContext(ctx).First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err = database.RunInTransaction(ctx, s.db, s.cfg.Tx, func(tx *gorm.DB) error {
		result := tx.Delete(&model.Property{}, property.ID)
		if result.Error != nil {
			return fmt.Errorf("delete property: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPropertyNotFound
		}

		err := tx.Where("user_id = ? AND property_id = ?", property.CreatorID, property.ID).
			Delete(&model.UserProperty{}).Error
		if err != nil {
			return fmt.Errorf("unlink property from owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Property deleted",
		zap.Uint("property_id", property.ID),
		zap.Uint("owner_id", property.CreatorID))
	return nil
}

// upload sends the photo to the media host under the configured timeout
func (s *PropertyService) upload(ctx context.Context, payload string) (string, error) {
	if s.cfg.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.UploadTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.uploader.Upload(ctx, payload)
	prometheus.RecordMediaUpload(s.uploader.Name(), start, err)
	if err != nil {
		logger.FromContext(ctx).Error("Photo upload failed",
			zap.String("provider", s.uploader.Name()),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return res.Location(), nil
}

// BackfillTitleKeys fills the title search key of rows stored before the
// column existed. It returns the number of rows updated.
func BackfillTitleKeys(ctx context.Context, db *gorm.DB) (int64, error) {
	var updated int64
	var batch []model.Property

	db = db.WithContext(ctx)
	err := db.Where("(title_key IS NULL OR title_key = '') AND title <> ''").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, p := range batch {
				err := db.Model(&model.Property{}).Where("id = ?", p.ID).
					UpdateColumn("title_key", model.SearchKey(p.Title)).Error
				if err != nil {
					return err
				}
				updated++
			}
			return nil
		}).Error
	if err != nil {
		return updated, fmt.Errorf("backfill title keys: %w", err)
	}
	return updated, nil
}
