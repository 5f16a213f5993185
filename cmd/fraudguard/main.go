package main

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/fraudguard/internal/blocklist"
	"github.com/richxcame/fraudguard/internal/checkout"
	"github.com/richxcame/fraudguard/internal/cooldown"
	"github.com/richxcame/fraudguard/internal/orders"
	"github.com/richxcame/fraudguard/internal/score"
	"github.com/richxcame/fraudguard/internal/similarity"
	"github.com/richxcame/fraudguard/pkg/common"
	"github.com/richxcame/fraudguard/pkg/config"
	"github.com/richxcame/fraudguard/pkg/database"
	"github.com/richxcame/fraudguard/pkg/logger"
	"github.com/richxcame/fraudguard/pkg/middleware"
	"github.com/richxcame/fraudguard/pkg/redis"
)

const (
	serviceName = "fraudguard"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := database.RunMigrations(&cfg.Database, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// pgxpool for the blocklist store
	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(pool)

	// database/sql handle for the order history store
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to open order history connection: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping order history connection: %v", err)
	}

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	orderHistory := orders.NewRepository(db)

	cooldownService := cooldown.NewService(cooldown.NewRepository(redisClient.Client))
	blocklistService := blocklist.NewService(blocklist.NewRepository(pool), orderHistory)
	similarityService := similarity.NewService(orderHistory)
	scoreService := score.NewService(
		cooldownService,
		blocklistService,
		similarityService,
		orderHistory,
		score.NewCache(redisClient.Client),
	)
	checkoutService := checkout.NewService(
		blocklistService,
		cooldownService,
		similarityService,
		orderHistory,
	)

	checkoutHandler := checkout.NewHandler(checkoutService, cfg.Fraud)
	scoreHandler := score.NewHandler(scoreService, cfg.Fraud)
	blocklistHandler := blocklist.NewHandler(blocklistService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Correlation-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, version, map[string]func() error{
		"postgres": func() error {
			return pool.Ping(context.Background())
		},
		"orders": db.Ping,
		"redis": func() error {
			return redisClient.Ping(context.Background()).Err()
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg.JWT.Secret))

	checkoutHandler.RegisterRoutes(api)
	scoreHandler.RegisterRoutes(api, admin)
	blocklistHandler.RegisterRoutes(admin)

	addr := ":" + cfg.Server.Port
	logger.Info("fraudguard listening on " + addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
