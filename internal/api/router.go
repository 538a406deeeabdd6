package api

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/socialconnect/social-api/internal/api/handler"
	"github.com/socialconnect/social-api/internal/core/ports"
)

// Services are the use cases the HTTP surface delegates to.
type Services struct {
	Users ports.UserService
	Posts ports.PostService
	// Activity is optional; without it the activity route is not registered.
	Activity ports.ActivityService
}

// Register installs the validator, the error envelope and every /api route
// on e.
func Register(e *echo.Echo, svc Services, maxUploadBytes int64, log zerolog.Logger) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	authHandler := handler.NewAuthHandler(svc.Users, maxUploadBytes)
	userHandler := handler.NewUserHandler(svc.Users, maxUploadBytes)
	postHandler := handler.NewPostHandler(svc.Posts, maxUploadBytes)

	g := e.Group("/api")

	// --- Auth ---
	g.POST("/auth/signup", authHandler.Signup)
	g.POST("/auth/login", authHandler.Login)
	g.POST("/auth/logout", authHandler.Logout)

	// --- Users ---
	g.GET("/users/:id", userHandler.Get)
	g.PUT("/users/:id", userHandler.Update)
	g.GET("/users/:id/posts", postHandler.ListByUser)
	if svc.Activity != nil {
		g.GET("/users/:id/activity", handler.NewActivityHandler(svc.Activity).ListByUser)
	}

	// --- Posts ---
	g.GET("/posts", postHandler.List)
	g.POST("/posts", postHandler.Create)
	g.DELETE("/posts/:postId", postHandler.Delete)
	g.POST("/posts/:postId/like", postHandler.ToggleLike)
	g.POST("/posts/:postId/comments", postHandler.AddComment)
	g.GET("/posts/:postId/comments", postHandler.ListComments)
}
