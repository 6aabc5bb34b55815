package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rcsnext/crm-api/internal/api/handler"
	"github.com/rcsnext/crm-api/internal/api/middleware"
	"github.com/rcsnext/crm-api/internal/core/domain"
	"github.com/rcsnext/crm-api/internal/core/ports"
	"github.com/rcsnext/crm-api/internal/core/service"
	crmmongo "github.com/rcsnext/crm-api/internal/infrastructure/db/mongo"
	crmredis "github.com/rcsnext/crm-api/internal/infrastructure/db/redis"
	"github.com/rcsnext/crm-api/internal/pkg/config"
)

// Deps carries the externally constructed dependencies the router wires
// together. SyncMailer is used where a send failure must surface to the
// caller (registration); AsyncMailer for fire-and-forget notifications.
type Deps struct {
	DB          *mongo.Database
	Redis       *redis.Client
	Config      *config.Config
	Tokens      *service.TokenService
	SyncMailer  ports.Mailer
	AsyncMailer ports.Mailer
	Provider    ports.OAuthProvider
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("crm"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.Config.AppURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))

	// --- Repositories ---
	userRepo := crmmongo.NewUserRepository(deps.DB)
	agentRepo := crmmongo.NewAgentRepository(deps.DB)
	clientRepo := crmmongo.NewClientRepository(deps.DB)
	movementRepo := crmmongo.NewMovementRepository(deps.DB)
	visitRepo := crmmongo.NewVisitRepository(deps.DB)
	promoRepo := crmmongo.NewPromoRepository(deps.DB)
	alertRepo := crmmongo.NewAlertRepository(deps.DB)

	limiter := crmredis.NewResetLimiter(deps.Redis, 0, 0)

	// --- Services ---
	authService := service.NewAuthService(userRepo, deps.Tokens, deps.SyncMailer, limiter, deps.Log)
	oauthService := service.NewOAuthService(deps.Provider, userRepo, deps.Tokens, deps.Log)
	userService := service.NewUserService(userRepo, deps.AsyncMailer, deps.Log)
	agentService := service.NewAgentService(agentRepo, deps.Log)
	clientService := service.NewClientService(clientRepo, deps.Log)
	movementService := service.NewMovementService(movementRepo, deps.Log)
	visitService := service.NewVisitService(visitRepo, deps.Log)
	promoService := service.NewPromoService(promoRepo, deps.Log)
	alertService := service.NewAlertService(alertRepo, userRepo, deps.AsyncMailer, deps.Log)
	statsService := service.NewStatsService(movementRepo, deps.Log)

	// --- Handlers ---
	sessionTTL := deps.Tokens.SessionTTL()
	authHandler := handler.NewAuthHandler(authService, sessionTTL)
	oauthHandler := handler.NewOAuthHandler(oauthService, sessionTTL, deps.Config.AppURL)
	userHandler := handler.NewUserHandler(userService)
	agentHandler := handler.NewAgentHandler(agentService)
	clientHandler := handler.NewClientHandler(clientService)
	movementHandler := handler.NewMovementHandler(movementService)
	visitHandler := handler.NewVisitHandler(visitService)
	promoHandler := handler.NewPromoHandler(promoService)
	alertHandler := handler.NewAlertHandler(alertService)
	statsHandler := handler.NewStatsHandler(statsService)

	auth := middleware.Auth(deps.Tokens, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleAgent)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleAgent, domain.RoleClient)
	anyUser := middleware.RBAC(domain.RoleAdmin, domain.RoleAgent, domain.RoleClient, domain.RoleGuest)

	// --- Auth routes (public) ---
	e.POST("/auth/register", authHandler.Register)
	e.GET("/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.POST("/auth/request-password-reset", authHandler.ForgotPassword)
	e.POST("/auth/verify-reset-code", authHandler.VerifyResetCode)
	e.POST("/auth/update-password", authHandler.UpdatePassword)
	e.GET("/oauth2/login", oauthHandler.Start)
	e.GET("/oauth2/callback", oauthHandler.Callback)

	// --- User routes ---
	users := e.Group("/users", auth)
	users.GET("/me", userHandler.Me, anyUser)
	users.GET("", userHandler.List, adminOnly)
	users.POST("/query", userHandler.Query, anyRole)
	users.GET("/:id", userHandler.Get, anyRole)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.DELETE("/:id", userHandler.Delete, adminOnly)
	users.PUT("/:id/email", userHandler.UpdateEmail, anyUser)
	users.PUT("/:id/password", userHandler.UpdatePassword, anyUser)

	// --- Agent routes ---
	agents := e.Group("/agents", auth)
	agents.GET("", agentHandler.List, adminOnly)
	agents.GET("/me", agentHandler.Mine, anyRole)
	agents.GET("/:code", agentHandler.Get, anyRole)
	agents.PUT("/:code", agentHandler.Update, adminOnly)

	// --- Client routes ---
	clients := e.Group("/clients", auth)
	clients.GET("", clientHandler.List, staff)
	clients.GET("/me", clientHandler.Mine, anyRole)
	clients.GET("/:code", clientHandler.Get, anyRole)
	clients.PUT("/:code", clientHandler.Update, adminOnly)

	// --- Movement routes ---
	movements := e.Group("/movements", auth)
	movements.GET("", movementHandler.List, anyRole)
	movements.PUT("/:listNumber", movementHandler.Replace, adminOnly)
	movements.PATCH("/:listNumber", movementHandler.Patch, adminOnly)

	// --- Visit routes ---
	visits := e.Group("/visits", auth)
	visits.GET("", visitHandler.List, anyRole)
	visits.POST("", visitHandler.Create, staff)
	visits.PUT("/:id", visitHandler.Update, staff)
	visits.DELETE("/:id", visitHandler.Delete, staff)

	// --- Promo routes ---
	promos := e.Group("/promos", auth)
	promos.GET("", promoHandler.List, anyRole)
	promos.POST("", promoHandler.Create, adminOnly)
	promos.PUT("/:id", promoHandler.Update, adminOnly)

	// --- Alert routes ---
	alerts := e.Group("/alerts", auth)
	alerts.GET("", alertHandler.List, anyRole)
	alerts.POST("", alertHandler.Create, staff)
	alerts.PUT("/:id", alertHandler.Update, staff)
	alerts.DELETE("/:id", alertHandler.Delete, adminOnly)

	// --- Stats ---
	e.GET("/stats", statsHandler.Dashboard, auth, anyRole)

	// --- Observability (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandler())

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	return e
}
