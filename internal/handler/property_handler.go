package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"property-service/internal/service"
	"property-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HeaderTotalCount carries the pre-pagination match count of list responses
const HeaderTotalCount = "x-total-count"

// Price accepts a JSON number or a numeric string
type Price float64

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*p = Price(v)
	return nil
}

// CreatePropertyRequest defines the structure for property creation requests
type CreatePropertyRequest struct {
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	PropertyType string `json:"propertyType" form:"propertyType"`
	Location     string `json:"location" form:"location"`
	Price        Price  `json:"price" form:"price"`
	Photo        string `json:"photo" form:"photo"`
	Email        string `json:"email" form:"email"`
}

// UpdatePropertyRequest defines the structure for partial property updates
type UpdatePropertyRequest struct {
	Title        *string `json:"title" form:"title"`
	Description  *string `json:"description" form:"description"`
	PropertyType *string `json:"propertyType" form:"propertyType"`
	Location     *string `json:"location" form:"location"`
	Price        *Price  `json:"price" form:"price"`
	Photo        *string `json:"photo" form:"photo"`
}

// PropertyHandler serves the property endpoints
type PropertyHandler struct {
	properties *service.PropertyService
}

// NewPropertyHandler creates a property handler
func NewPropertyHandler(properties *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{properties: properties}
}

// ListProperties handles retrieving properties with filters, sorting and a pagination window
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	log := logger.FromEcho(c)

	params, err := service.ParseListParams(c.QueryParams())
	if err != nil {
		log.Warn("Invalid list parameters", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Listing properties",
		zap.String("title_like", params.TitleLike),
		zap.String("property_type", params.PropertyType),
		zap.Int("start", params.Start),
		zap.String("sort", params.Sort),
		zap.String("order", params.Order))

	result, err := h.properties.List(c.Request().Context(), params)
	if err != nil {
		log.Error("Failed to list properties", zap.Error(err))
		return respondError(c, err)
	}

	c.Response().Header().Set(HeaderTotalCount, strconv.FormatInt(result.Total, 10))
	c.Response().Header().Set(echo.HeaderAccessControlExposeHeaders, HeaderTotalCount)

	log.Info("Properties retrieved successfully",
		zap.Int("count", len(result.Properties)),
		zap.Int64("total", result.Total))
	return c.JSON(http.StatusOK, result.Properties)
}

// GetProperty handles retrieving a single property with its creator
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	property, err := h.properties.Get(c.Request().Context(), id)
	if err != nil {
		log.Warn("Property lookup failed", zap.Uint("property_id", id), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Property retrieved successfully", zap.Uint("property_id", id))
	return c.JSON(http.StatusOK, property)
}

// CreateProperty handles creating a property for the user identified by email
func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	log.Info("Property creation request",
		zap.String("title", req.Title),
		zap.String("property_type", req.PropertyType),
		zap.String("email", req.Email))

	property, err := h.properties.Create(c.Request().Context(), service.CreatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Location:     req.Location,
		Price:        float64(req.Price),
		Photo:        req.Photo,
		Email:        req.Email,
	})
	if err != nil {
		log.Error("Failed to create property", zap.String("email", req.Email), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Property created successfully", zap.Uint("property_id", property.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Property created successfully"})
}

// UpdateProperty handles partial updates of an existing property
func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("property_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request data"})
	}

	in := service.UpdatePropertyInput{
		Title:        req.Title,
		Description:  req.Description,
		PropertyType: req.PropertyType,
		Location:     req.Location,
		Photo:        req.Photo,
	}
	if req.Price != nil {
		price := float64(*req.Price)
		in.Price = &price
	}

	if _, err := h.properties.Update(c.Request().Context(), id, in); err != nil {
		log.Error("Failed to update property", zap.Uint("property_id", id), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Property updated successfully", zap.Uint("property_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Property updated successfully"})
}

// DeleteProperty handles deleting a property and unlinking it from its creator
func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.properties.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete property", zap.Uint("property_id", id), zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Property deleted successfully", zap.Uint("property_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully"})
}
