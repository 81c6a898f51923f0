package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/handler"
	"github.com/sakec/hms-backend/internal/middleware"
	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/response"
	"github.com/sakec/hms-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Student *handler.StudentHandler
	Payment *handler.PaymentHandler
	Chat    *handler.ChatHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokens *service.TokenService,
	authLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", handler.SignatureHeader}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(response.RequestLogger(log))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authenticated := middleware.Authenticate(tokens)

	// ─── 1. Auth ───────────────────────────────────────────────────────
	auth := api.Group("/auth")
	auth.Use(middleware.NoStore())
	{
		auth.POST("/register", authLimiter.Middleware(), handlers.Auth.Register)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)
		auth.GET("/me", authenticated, handlers.Auth.Me)
	}

	// ─── 2. Students ───────────────────────────────────────────────────
	students := api.Group("/students")
	students.Use(middleware.NoStore())
	{
		students.POST("/register", authLimiter.Middleware(), handlers.Student.Register)
		students.GET("/me", authenticated, middleware.RequireRole(model.RoleStudent), handlers.Student.Me)

		admin := students.Group("")
		admin.Use(authenticated, middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("", handlers.Student.List)
			admin.PUT("/:id/status", handlers.Student.UpdateStatus)
		}
	}

	// ─── 3. Payments ───────────────────────────────────────────────────
	payment := api.Group("/payment")
	{
		payment.POST("/create-payment-intent", authenticated, middleware.RequireRole(model.RoleStudent), handlers.Payment.CreateIntent)
		payment.POST("/webhook", handlers.Payment.Webhook)
	}

	// ─── 4. Assistant ──────────────────────────────────────────────────
	chat := api.Group("/chat")
	chat.Use(authenticated)
	{
		chat.POST("/generate", handlers.Chat.Generate)
	}

	// ─── 5. WebSocket (query token) ────────────────────────────────────
	ws := router.Group("/ws/v1/student")
	ws.Use(middleware.AuthenticateWS(tokens), middleware.RequireRole(model.RoleStudent))
	{
		ws.GET("/status", handlers.WS.StatusStream)
	}

	return router
}
