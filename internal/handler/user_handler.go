package handler

import (
	"net/http"
	"strconv"

	"property-service/internal/service"
	"property-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateUserRequest defines the structure for user creation requests
type CreateUserRequest struct {
	Name   string `json:"name" form:"name"`
	Email  string `json:"email" form:"email"`
	Avatar string `json:"avatar" form:"avatar"`
}

// UserHandler serves the user endpoints
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a user handler
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers handles retrieving users, optionally capped by _end
func (h *UserHandler) ListUsers(c echo.Context) error {
	log := logger.FromEcho(c)

	limit := 0
	if raw := c.QueryParam("_end"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			log.Warn("Invalid user list limit", zap.String("_end", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"message": service.ErrInvalidRange.Error()})
		}
		limit = v
	}

	users, err := h.users.List(c.Request().Context(), limit)
	if err != nil {
		log.Error("Failed to list users", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Users retrieved successfully", zap.Int("count", len(users)))
	return c.JSON(http.StatusOK, users)
}

// GetUser handles retrieving one user with their properties
func (h *UserHandler) GetUser(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		log.Warn("User lookup failed", zap.Uint("user_id", id), zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

// CreateUser handles registering a user, returning the stored user when the email is taken
func (h *UserHandler) CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	user, created, err := h.users.Create(c.Request().Context(), service.CreateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
	})
	if err != nil {
		log.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		return respondError(c, err)
	}

	if !created {
		return c.JSON(http.StatusOK, user)
	}
	log.Info("User created successfully", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, user)
}
