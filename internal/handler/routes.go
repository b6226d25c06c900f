package handler

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the property and user endpoints on the API group
func RegisterRoutes(api *echo.Group, properties *PropertyHandler, users *UserHandler) {
	propertyAPI := api.Group("/properties")
	propertyAPI.GET("", properties.ListProperties)
	propertyAPI.POST("", properties.CreateProperty)
	propertyAPI.GET("/:id", properties.GetProperty)
	propertyAPI.PUT("/:id", properties.UpdateProperty)
	propertyAPI.PATCH("/:id", properties.UpdateProperty)
	propertyAPI.DELETE("/:id", properties.DeleteProperty)

	userAPI := api.Group("/users")
	userAPI.GET("", users.ListUsers)
	userAPI.POST("", users.CreateUser)
	userAPI.GET("/:id", users.GetUser)
}
