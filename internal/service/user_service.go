package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"property-service/internal/model"
	"property-service/pkg/logger"
	"property-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService looks up and creates users
type UserService struct {
	db *gorm.DB
}

// CreateUserInput holds the profile fields of a new user
type CreateUserInput struct {
	Name   string
	Email  string
	Avatar string
}

// NewUserService creates a user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns users in id order, each with their properties expanded.
// A positive limit caps the number of users returned.
func (s *UserService) List(ctx context.Context, limit int) ([]model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	users := []model.User{}
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	if err := s.expandProperties(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one user with their properties expanded
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("select")(time.Now())

	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	users := []model.User{user}
	if err := s.expandProperties(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// Create inserts a user, or returns the existing user with the same email.
// The boolean reports whether a new user was stored.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, bool, error) {
	log := logger.FromContext(ctx)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, false, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	existing, err := s.findByEmail(ctx, email)
	if err == nil {
		log.Info("User already exists", zap.Uint("user_id", existing.ID))
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user := model.User{
		Name:   in.Name,
		Email:  email,
		Avatar: in.Avatar,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent create may have won the unique index
		if existing, findErr := s.findByEmail(ctx, email); findErr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create user: %w", err)
	}

	user.AllProperties = []model.Property{}
	log.Info("User created", zap.Uint("user_id", user.ID))
	return &user, true, nil
}

func (s *UserService) findByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// expandProperties fills AllProperties for every user from the stored
// reverse references, keeping insertion order.
func (s *UserService) expandProperties(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}

	userIDs := make([]uint, len(users))
	for i := range users {
		userIDs[i] = users[i].ID
		users[i].AllProperties = []model.Property{}
	}

	db := s.db.WithContext(ctx)

	var links []model.UserProperty
	if err := db.Where("user_id IN ?", userIDs).Order("id").Find(&links).Error; err != nil {
		return fmt.Errorf("find user properties: %w", err)
	}
	if len(links) == 0 {
		return nil
	}

	propertyIDs := make([]uint, len(links))
	for i, link := range links {
		propertyIDs[i] = link.PropertyID
	}

	var properties []model.Property
	if err := db.Where("id IN ?", propertyIDs).Find(&properties).Error; err != nil {
		return fmt.Errorf("find properties: %w", err)
	}

	byID := make(map[uint]model.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}

	index := make(map[uint]int, len(users))
	for i := range users {
		index[users[i].ID] = i
	}

	for _, link := range links {
		p, ok := byID[link.PropertyID]
		if !ok {
			continue
		}
		i := index[link.UserID]
		users[i].AllProperties = append(users[i].AllProperties, p)
	}
	return nil
}
