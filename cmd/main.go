package main

import (
  "context"
  "fmt"
  "os"
  "time"
  "github.com/yungbote/fincompass-backend/internal/logger"
  "github.com/yungbote/fincompass-backend/internal/utils"
  "github.com/yungbote/fincompass-backend/internal/db"
  "github.com/yungbote/fincompass-backend/internal/cache"
  "github.com/yungbote/fincompass-backend/internal/clients/redis"
  "github.com/yungbote/fincompass-backend/internal/jobs"
  "github.com/yungbote/fincompass-backend/internal/observability"
  "github.com/yungbote/fincompass-backend/internal/repos"
  "github.com/yungbote/fincompass-backend/internal/services"
  "github.com/yungbote/fincompass-backend/internal/handlers"
  "github.com/yungbote/fincompass-backend/internal/middleware"
  "github.com/yungbote/fincompass-backend/internal/server"
  "github.com/yungbote/fincompass-backend/internal/temporalx"
  "github.com/yungbote/fincompass-backend/internal/temporalx/temporalworker"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  adminToken := utils.GetEnv("ADMIN_TOKEN", "", log)
  batchConcurrency := utils.GetEnvAsInt("BATCH_CONCURRENCY", 4, log)

  ctx := context.Background()

  // Tracing
  otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
    ServiceName: "fincompass-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
    Version:     utils.GetEnv("APP_VERSION", "dev", log),
  })
  if otelShutdown != nil {
    defer otelShutdown(context.Background())
  }

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  relationshipRepo := repos.NewRelationshipStatusRepo(thePG, log)
  outlookRepo := repos.NewDailyOutlookRepo(thePG, log)
  userEventRepo := repos.NewUserEventRepo(thePG, log)

  // Cache
  log.Info("Setting up outlook cache from main...")
  var cacheStore cache.Store
  redisStore, err := redis.NewOutlookStore(log)
  if err != nil {
    log.Warn("Redis unavailable, falling back to in-memory cache", "error", err)
    cacheStore = cache.NewMemoryStore()
  } else {
    cacheStore = redisStore
  }
  outlookCache := cache.NewOutlookCache(log, cacheStore, cache.DefaultTTL)

  // Event bus
  var publisher services.EventPublisher
  eventBus, err := redis.NewEventBus(log)
  if err != nil {
    log.Warn("Redis event bus unavailable, events persist only", "error", err)
  } else {
    publisher = eventBus
  }

  // Services
  log.Info("Setting up Services from main...")
  eventService := services.NewEventService(log, userEventRepo, publisher)
  tierGateService := services.NewTierGateService(log)
  weightingService := services.NewWeightingService(log)
  contentService := services.NewContentService(log, tierGateService, eventService)
  streakService := services.NewStreakService(log, outlookRepo)
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo, relationshipRepo, outlookCache)
  relationshipService := services.NewRelationshipService(thePG, log, relationshipRepo, outlookCache)
  outlookService := services.NewOutlookService(
    thePG,
    log,
    outlookRepo,
    userService,
    weightingService,
    contentService,
    streakService,
    tierGateService,
    eventService,
    outlookCache,
  )
  batchService := services.NewBatchService(thePG, log, userService, outlookService, outlookRepo, eventService, batchConcurrency)

  // Scheduling: Temporal when configured, in-process ticker otherwise
  tc, err := temporalx.NewClient(log)
  if err != nil {
    log.Error("Temporal client init failed", "error", err)
    os.Exit(1)
  }
  if tc != nil {
    defer tc.Close()
    runner, err := temporalworker.NewRunner(log, tc, batchService)
    if err != nil {
      log.Error("Temporal worker init failed", "error", err)
      os.Exit(1)
    }
    if err := runner.Start(ctx); err != nil {
      log.Error("Temporal worker start failed", "error", err)
      os.Exit(1)
    }
  } else {
    jobs.NewScheduler(log, batchService).Start(ctx)
  }

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  relationshipHandler := handlers.NewRelationshipHandler(relationshipService)
  outlookHandler := handlers.NewOutlookHandler(outlookService)
  batchHandler := handlers.NewBatchHandler(batchService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  adminMiddleware := middleware.NewAdminMiddleware(log, adminToken)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AuthMiddleware:      authMiddleware,
    AdminMiddleware:     adminMiddleware,
    UserHandler:         userHandler,
    OutlookHandler:      outlookHandler,
    RelationshipHandler: relationshipHandler,
    BatchHandler:        batchHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed: %v", err)
  }
}
