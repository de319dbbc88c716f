package main

import (
  "context"
  "flag"
  "fmt"
  "os"
  "time"
  "github.com/yungbote/fincompass-backend/internal/logger"
  "github.com/yungbote/fincompass-backend/internal/utils"
  "github.com/yungbote/fincompass-backend/internal/db"
  "github.com/yungbote/fincompass-backend/internal/cache"
  "github.com/yungbote/fincompass-backend/internal/repos"
  "github.com/yungbote/fincompass-backend/internal/services"
)

// One-shot runner for the daily outlook batch, for operators and cron
// environments without Temporal.
func main() {
  dateFlag := flag.String("date", "", "target date (YYYY-MM-DD), defaults to today UTC")
  forceFlag := flag.Bool("force", false, "regenerate even when an outlook already exists")
  flag.Parse()

  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "production"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  date := time.Now().UTC()
  if *dateFlag != "" {
    parsed, err := time.Parse("2006-01-02", *dateFlag)
    if err != nil {
      log.Error("Invalid -date value", "value", *dateFlag, "error", err)
      os.Exit(2)
    }
    date = parsed
  }

  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  userRepo := repos.NewUserRepo(thePG, log)
  relationshipRepo := repos.NewRelationshipStatusRepo(thePG, log)
  outlookRepo := repos.NewDailyOutlookRepo(thePG, log)
  userEventRepo := repos.NewUserEventRepo(thePG, log)

  outlookCache := cache.NewOutlookCache(log, cache.NewMemoryStore(), cache.DefaultTTL)

  eventService := services.NewEventService(log, userEventRepo, nil)
  tierGateService := services.NewTierGateService(log)
  weightingService := services.NewWeightingService(log)
  contentService := services.NewContentService(log, tierGateService, eventService)
  streakService := services.NewStreakService(log, outlookRepo)
  userService := services.NewUserService(thePG, log, userRepo, relationshipRepo, outlookCache)
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
  concurrency := utils.GetEnvAsInt("BATCH_CONCURRENCY", 4, log)
  batchService := services.NewBatchService(thePG, log, userService, outlookService, outlookRepo, eventService, concurrency)

  summary, err := batchService.RunDaily(context.Background(), date, *forceFlag)
  if err != nil {
    log.Error("Batch run failed", "error", err)
    os.Exit(1)
  }
  fmt.Printf("batch %s: %d succeeded, %d failed\n", summary.Date, summary.Succeeded, summary.Failed)
  if summary.Failed > 0 {
    os.Exit(1)
  }
}
