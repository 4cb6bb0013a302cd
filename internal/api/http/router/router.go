package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/shehanaraph-lab/Finnacle/internal/api/http/handler"
	"github.com/shehanaraph-lab/Finnacle/internal/api/http/middleware"
	"github.com/shehanaraph-lab/Finnacle/internal/logger"
	"github.com/shehanaraph-lab/Finnacle/internal/model"
	"github.com/shehanaraph-lab/Finnacle/internal/service"
)

// Options tunes the HTTP surface.
type Options struct {
	Version      string
	Environment  string
	AllowOrigins []string
	BodyLimit    string
}

// Router wires the account services onto echo routes.
type Router struct {
	account        *service.Account
	reconciler     *service.Reconciler
	profile        *service.Profile
	avatar         *service.Avatar
	health         *service.Health
	contextManager model.ContextManager
	logger         *logger.Logger
	options        Options
}

// New creates a new Router. avatar may be nil when no object storage is
// configured; the avatar routes are then not registered.
func New(
	account *service.Account,
	reconciler *service.Reconciler,
	profile *service.Profile,
	avatar *service.Avatar,
	health *service.Health,
	contextManager model.ContextManager,
	logger *logger.Logger,
	options Options,
) *Router {
	return &Router{
		account:        account,
		reconciler:     reconciler,
		profile:        profile,
		avatar:         avatar,
		health:         health,
		contextManager: contextManager,
		logger:         logger,
		options:        options,
	}
}

// Register builds the echo instance with middleware and all routes.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(r.logger)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.NewLogging(r.logger).Handle)
	e.Use(echomw.Recover())
	e.Use(echomw.SecureWithConfig(echomw.SecureConfig{
		XFrameOptions:      "DENY",
		ContentTypeNosniff: "nosniff",
		XSSProtection:      "1; mode=block",
		HSTSMaxAge:         31536000,
	}))

	origins := r.options.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderContentType},
		MaxAge:       300,
	}))
	if r.options.BodyLimit != "" {
		e.Use(echomw.BodyLimit(r.options.BodyLimit))
	}

	api := e.Group("/api/v1")
	r.registerHealthRoutes(api)
	r.registerAuthRoutes(api.Group("/auth"))

	return e
}

func (r *Router) registerHealthRoutes(g *echo.Group) {
	h := handler.NewHealth(r.health, r.options.Version, r.options.Environment)
	g.GET("/health", h.Health)
	g.GET("/ready", h.Ready)
	g.GET("/alive", h.Alive)
}

func (r *Router) registerAuthRoutes(g *echo.Group) {
	authenticate := middleware.NewAuthenticate(r.account, r.contextManager, r.logger)
	auth := handler.NewAuth(r.account, r.reconciler, r.contextManager, r.logger)
	profile := handler.NewProfile(r.profile, r.contextManager, r.logger)

	g.POST("/verify", auth.Verify)
	g.POST("/register", auth.Register)
	g.POST("/forgot-password", auth.ForgotPassword)

	requireUser := authenticate.Handle
	g.GET("/me", profile.Get, requireUser)
	g.PUT("/me", profile.Update, requireUser)
	g.GET("/status", auth.Status, requireUser)
	g.POST("/logout", auth.Logout, requireUser)

	if r.avatar != nil {
		avatar := handler.NewAvatar(r.avatar, r.contextManager, r.logger)
		g.PUT("/me/avatar", avatar.Upload, requireUser)
		g.GET("/me/avatar", avatar.Get, requireUser)
		g.DELETE("/me/avatar", avatar.Delete, requireUser)
	}
}
