// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"arbor/internal/cache"
	"arbor/internal/config"
	"arbor/internal/database"
	"arbor/internal/media"
	"arbor/internal/middleware"
	"arbor/internal/repository"
	"arbor/internal/service"
)

// Version is the reported service version, set at build time via
// -ldflags.
var Version = "dev"

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	authService      *service.AuthService
	userService      *service.UserService
	postService      *service.PostService
	groupService     *service.GroupService
	membershipService *service.MembershipService
	followService    *service.FollowService
	groupPostService *service.GroupPostService
	mediaService     *service.MediaService
}

// NewServer creates a server with all dependencies initialized from
// configuration.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	var store service.BlobStore
	if cfg.MediaEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s, err := media.NewStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = s
	}

	return NewServerWithDeps(cfg, db, redisClient, store)
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests and bootstrap layers use this to inject their own
// database, cache, and object store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store service.BlobStore) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupPostRepo := repository.NewGroupPostRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	followRepo := repository.NewFollowRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	configRepo := repository.NewServerConfigurationRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("arbor-api"),
	}
	s.authService = service.NewAuthService(cfg, userRepo, tokenRepo, configRepo)
	s.userService = service.NewUserService(userRepo, followRepo, mediaRepo)
	s.postService = service.NewPostService(postRepo, userRepo)
	s.groupService = service.NewGroupService(groupRepo, membershipRepo)
	s.membershipService = service.NewMembershipService(membershipRepo, groupRepo, userRepo)
	s.followService = service.NewFollowService(followRepo, userRepo)
	s.groupPostService = service.NewGroupPostService(groupPostRepo, groupRepo, postRepo, membershipRepo)
	s.mediaService = service.NewMediaService(mediaRepo, store)

	return s, nil
}

// SetupMiddleware configures the middleware chain for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/version", s.GetVersion)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	authRequired := middleware.AuthRequired(s.authService)
	authOptional := middleware.AuthOptional(s.authService)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Get("/me", authRequired, s.Me)

	// User routes
	users := api.Group("/users", authOptional)
	users.Get("/", s.ListUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", authRequired, s.UpdateUser)
	users.Post("/:id/follow", authRequired, s.CreateFollow)
	users.Delete("/:id/follow", authRequired, s.DeleteFollow)
	users.Get("/:id/follow", authRequired, s.GetFollow)
	users.Post("/:id/followers/:followerId/decide", authRequired, s.DecideFollow)

	// Post routes
	posts := api.Group("/posts", authOptional)
	posts.Get("/", s.GetPosts)
	posts.Post("/", authRequired, middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", authRequired, s.UpdatePost)
	posts.Delete("/:id", authRequired, s.DeletePost)
	posts.Post("/:id/decide", authRequired, s.DecidePost)

	// Group routes
	groups := api.Group("/groups", authOptional)
	groups.Get("/", s.ListGroups)
	groups.Post("/", authRequired, s.CreateGroup)
	groups.Get("/:id", s.GetGroup)
	groups.Put("/:id", authRequired, s.UpdateGroup)

	// Membership routes, nested under groups
	groups.Get("/:id/members", s.ListMembers)
	groups.Post("/:id/members", authRequired, s.CreateMembership)
	groups.Put("/:id/members/:userId", authRequired, s.UpdateMembership)
	groups.Delete("/:id/members/:userId", authRequired, s.DeleteMembership)
	groups.Post("/:id/members/:userId/decide", authRequired, s.DecideMembership)

	// Group post routes, nested under groups
	groups.Get("/:id/posts", s.ListGroupPosts)
	groups.Post("/:id/posts/:postId", authRequired, s.CreateGroupPost)
	groups.Delete("/:id/posts/:postId", authRequired, s.DeleteGroupPost)
	groups.Post("/:id/posts/:postId/decide", authRequired, s.DecideGroupPost)

	// Media routes
	mediaGroup := api.Group("/media")
	mediaGroup.Post("/", middleware.AuthRequired(s.authService), middleware.RateLimit(s.redis, 20, 10*time.Minute, "upload_media"), s.UploadMedia)
	mediaGroup.Get("/:id", s.DownloadMedia)
	mediaGroup.Delete("/:id", middleware.AuthRequired(s.authService), s.DeleteMedia)
}

// GetVersion reports the running service version.
func (s *Server) GetVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": Version})
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
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
		// The cache is optional; its absence degrades but does not fail
		// readiness.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":  overall,
		"version": Version,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Arbor API",
		BodyLimit: 20 << 20,
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server and its connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}
	slog.Info("server shutdown complete")
	return nil
}
