// Package api wires the duplicate-as handlers into the HTTP server.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infrajwt "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/handler"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
)

// SetupRoutes configures all API routes.
// Health routes are registered by the infrastructure gin builder.
func SetupRoutes(router *gin.Engine, h *handler.Handler, jwtSecret string, tel *telemetry.Provider) {
	router.Use(tel.MetricsOrNil().GinMiddleware())

	if tel != nil {
		metrics := tel.Handler()
		router.GET("/metrics", func(c *gin.Context) {
			metrics.ServeHTTP(c.Writer, c.Request)
		})
	}

	authMiddleware := infrajwt.Middleware(jwtSecret)

	v1 := router.Group("/duplicate-as/v1", authMiddleware)
	v1.POST("/duplicate/:id", h.Duplicate)
	v1.GET("/actions/:id", h.Actions)

	admin := router.Group("/admin", authMiddleware)
	admin.GET("/duplicate", h.AdminDuplicate)
	admin.GET("/transform", h.AdminTransform)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{
			Code:    "rest_no_route",
			Message: "No route was found matching the URL and request method.",
			Data:    handler.ErrorData{Status: http.StatusNotFound},
		})
	})
}
