// Package server contains HTTP handlers for the deliberation API.
package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"vayam/cache"
	"vayam/config"
	"vayam/database"
	"vayam/middleware"
	"vayam/models"
	"vayam/moderation"
	"vayam/notifications"
	"vayam/participation"
	"vayam/repository"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	promMiddleware  *fiberprometheus.FiberPrometheus
	userRepo        repository.UserRepository
	convRepo        repository.ConversationRepository
	commentRepo     repository.CommentRepository
	voteRepo        repository.VoteRepository
	participantRepo repository.ParticipantRepository
	subRepo         repository.SubscriptionRepository
	accountant      *participation.Accountant
	flags           *moderation.Service
	notifier        *notifications.Notifier
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDB(cfg, db, redisClient), nil
}

// NewServerWithDB wires a server over existing connections. Tests use this
// with an in-memory SQLite database and a nil Redis client.
func NewServerWithDB(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	notifier := notifications.NewNotifier(redisClient)

	return &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("vayam-api"),
		userRepo:        userRepo,
		convRepo:        convRepo,
		commentRepo:     commentRepo,
		voteRepo:        voteRepo,
		participantRepo: participantRepo,
		subRepo:         subRepo,
		accountant:      participation.NewAccountant(commentRepo),
		flags: moderation.NewService(
			commentRepo, convRepo, userRepo, notifier, cfg.AdminEmail, middleware.Logger),
		notifier: notifier,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// OpenTelemetry span per request
	app.Use(middleware.TracingMiddleware())

	// Prometheus request metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Vayam Backend Metrics Dashboard",
	}))

	v1 := api.Group("/v1", s.AuthRequired())

	// Conversations
	v1.Get("/conversations", s.ListConversations)
	v1.Post("/conversations", middleware.RateLimit(s.redis, 3, 10*time.Minute, "create_conversation"), s.CreateConversation)
	v1.Get("/conversations/:zid", s.GetConversation)

	// Votes
	v1.Post("/votes", s.SubmitVote)

	// Comments
	v1.Post("/comments", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.SubmitComment)
	v1.Get("/comments/flag/reasons", s.GetFlagReasons)
	v1.Put("/comments/flag/:tid", s.FlagComment)

	// Per-user reads and preferences
	v1.Get("/user/conversations/skipped-comments", s.GetSkippedComments)
	v1.Get("/user/subscribe", s.GetSubscription)
	v1.Post("/user/subscribe", s.SetSubscription)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Vayam",
		"status":  "healthy",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Identity itself comes
// from an external provider; this only verifies the bearer token it issued
// and extracts the numeric uid.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthorizationError("Authorization required"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthorizationError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthorizationError("Invalid token claims"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthorizationError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewAuthorizationError("Invalid user ID in token"))
		}

		c.Locals("userID", uint(userID))

		return c.Next()
	}
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}
	return nil
}

// userID extracts the authenticated user's id set by AuthRequired.
func userID(c *fiber.Ctx) uint {
	uid, _ := c.Locals("userID").(uint)
	return uid
}
