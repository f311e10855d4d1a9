// Package router contains routing setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"plantcare/internal/delivery/http/middleware"
	"plantcare/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	UserHandler        *handler.UserHandler
	PlantHandler       *handler.PlantHandler
	AccessTokenHandler *handler.AccessTokenHandler
	UploadHandler      *handler.UploadHandler
	AuthMiddleware     *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler        *handler.UserHandler
	plantHandler       *handler.PlantHandler
	accessTokenHandler *handler.AccessTokenHandler
	uploadHandler      *handler.UploadHandler
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:        params.UserHandler,
		plantHandler:       params.PlantHandler,
		accessTokenHandler: params.AccessTokenHandler,
		uploadHandler:      params.UploadHandler,
		authMiddleware:     params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Public routes.
	e.GET("/", handler.Root)
	e.GET("/health", handler.HealthCheck)
	e.POST("/register", r.userHandler.Register)
	e.POST("/login", r.userHandler.Login)
	e.GET("/all-diseases", r.plantHandler.ListAllDiseases)

	// Public guest exchange: the opaque secret in the path is the credential.
	e.GET("/access-tokens/authorize/:token", r.accessTokenHandler.Authorize)

	// Everything below requires a session token. The guest gate then narrows
	// guest-audience tokens to their route allowlist.
	authed := e.Group("", r.authMiddleware.Authenticate, r.authMiddleware.GuestGate)

	authed.GET("/me", r.userHandler.Me)
	authed.PATCH("/me", r.userHandler.UpdateMe)

	authed.GET("/my-plants", r.plantHandler.List)
	authed.POST("/my-plants", r.plantHandler.Create)
	authed.POST("/my-plants/watering", r.plantHandler.WaterMany)
	authed.GET("/my-plants/:id", r.plantHandler.Get)
	authed.PATCH("/my-plants/:id", r.plantHandler.Update)
	authed.DELETE("/my-plants/:id", r.plantHandler.Delete)
	authed.POST("/my-plants/:id/watering", r.plantHandler.Water)
	authed.POST("/my-plants/:id/fertilizing", r.plantHandler.Fertilize)
	authed.POST("/my-plants/:id/plant-disease", r.plantHandler.AddDisease)
	authed.GET("/my-plants/:id/diseases", r.plantHandler.ListDiseases)

	authed.GET("/access-tokens", r.accessTokenHandler.List)
	authed.POST("/access-tokens", r.accessTokenHandler.Create)
	authed.DELETE("/access-tokens/:id", r.accessTokenHandler.Delete)
	authed.GET("/access-tokens/:id/qr", r.accessTokenHandler.InviteQR)

	authed.POST("/upload/:category", r.uploadHandler.Upload)
}
