package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/handlers"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/accounts"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
	certrepo "github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates/repository"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/config"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/database"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/sessions"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/storage"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/syncer"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/logger"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/metrics"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v storage=%s", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Backend)

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery
	r.Use(gin.Logger(), gin.Recovery())

	ctx := context.Background()

	// Connect to Redis early so sessions and the rate limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter, keyed by client IP
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
			mongoClient = nil
		} else {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
		}
	}

	// Repositories: Mongo-backed when available, in-memory otherwise
	var accountRepo accounts.Repository
	var certRepo certificates.Repository
	var sessionRepo sessions.Repository
	if mongoClient != nil {
		db := mongoClient.Database(cfg.MongoDB.Database)
		accountRepo = accounts.NewMongoRepository(db.Collection("accounts"))
		certRepo = certrepo.NewMongoRepo(db.Collection("certificates"))
		sessionRepo = sessions.NewMongoRepository(db.Collection("sessions"))
	} else {
		logger.Warnf("running with in-memory stores; data will not survive a restart")
		accountRepo = accounts.NewMemoryRepository()
		certRepo = certrepo.NewMemoryRepo()
		sessionRepo = sessions.NewMemoryRepository()
	}
	// Prefer Redis-based sessions when available (fast, TTL handled by Redis)
	if redisClient != nil {
		sessionRepo = sessions.NewRedisRepository(redisClient, "session:")
		logger.Infof("using Redis for session storage")
	}

	accountSvc := accounts.NewService(accountRepo, cfg.Auth.AdminUsername)
	sessionSvc := sessions.NewService(sessionRepo)
	certSvc := certificates.NewService(certRepo)

	// Document store: MinIO in production, a fixed directory otherwise
	var docStore storage.DocumentStore
	if cfg.Storage.Backend == "minio" {
		s, err := storage.NewMinIOStore(storage.LoadMinIOConfig())
		if err != nil {
			logger.Fatalf("failed to initialize MinIO storage: %v", err)
		}
		docStore = s
	} else {
		s, err := storage.NewFSStore(cfg.Storage.UploadDir)
		if err != nil {
			logger.Fatalf("failed to initialize upload directory %s: %v", cfg.Storage.UploadDir, err)
		}
		docStore = s
	}

	// Bootstrap the administrator account when a password is provided
	if cfg.Auth.AdminPassword != "" {
		if existing, err := accountRepo.GetByUsername(ctx, cfg.Auth.AdminUsername); err == nil && existing == nil {
			if _, err := accountSvc.Create(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
				logger.Warnf("failed to bootstrap admin account: %v", err)
			} else {
				logger.Infof("bootstrapped administrator account %q", cfg.Auth.AdminUsername)
			}
		}
	}

	mirror := syncer.New(certSvc, docStore, cfg.Sync.ObjectKey)

	// Basic health endpoint
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint - 200 only when the persistent stores are usable
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"storage": docStore != nil,
			"mongo":   mongoClient != nil,
			"redis":   redisClient != nil || cfg.Redis.Host == "",
		}
		ready := deps["storage"] && deps["redis"]
		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	auth := middleware.SessionAuth(sessionSvc)
	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(cfg, accountSvc, sessionSvc)
	authHandler.Register(api)

	certHandler := handlers.NewCertificateHandler(cfg, certSvc, accountSvc, docStore)
	certHandler.Register(api, auth)
	certHandler.RegisterPublic(&r.RouterGroup)

	adminHandler := handlers.NewAdminHandler(mirror)
	adminHandler.Register(api, auth)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting inspection portal on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
