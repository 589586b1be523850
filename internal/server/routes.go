package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(NewEchoLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))))
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("assetledger"))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.GET("/api/health", s.healthHandler)
	e.GET("/api/events", s.eventsHandler)

	var authGroup = e.Group("/api/v1/auth")
	authGroup.POST("/register", s.RegisterUser)

	var userGroup = e.Group("/api/v1/users")
	userGroup.POST("", s.CreateUser)

	var assetGroup = e.Group("/api/v1/assets", s.UserIdentityMiddleware)
	assetGroup.GET("", s.ListDigitalAssets)
	assetGroup.POST("", s.CreateDigitalAsset)
	assetGroup.GET("/:id", s.ReadDigitalAsset)
	assetGroup.PUT("/:id", s.UpdateDigitalAsset)
	assetGroup.DELETE("/:id", s.DeleteDigitalAsset)
	assetGroup.POST("/:id/ownership", s.ChangeOwnership)
	assetGroup.GET("/:id/history", s.GetAssetHistory)
	assetGroup.GET("/:id/download", s.DownloadDigitalAsset)
	assetGroup.POST("/:id/modifications/:modId", s.ProcessModificationRequest)

	var modGroup = e.Group("/api/v1/modifications", s.UserIdentityMiddleware)
	modGroup.GET("", s.ListModificationRequests)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "up"})
}
