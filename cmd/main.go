package main

import (
  "context"
  "fmt"
  "os"
  "strings"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/utils"
  "github.com/retroclock/retroclock-backend/internal/db"
  "github.com/retroclock/retroclock-backend/internal/repos"
  "github.com/retroclock/retroclock-backend/internal/services"
  "github.com/retroclock/retroclock-backend/internal/handlers"
  "github.com/retroclock/retroclock-backend/internal/middleware"
  "github.com/retroclock/retroclock-backend/internal/server"
  "github.com/retroclock/retroclock-backend/internal/sse"
  redisclient "github.com/retroclock/retroclock-backend/internal/clients/redis"
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
  listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)
  categoriesPath := utils.GetEnv("EXPENSE_CATEGORIES_PATH", "configs/expense_categories.yaml", log)
  allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "", log), ",")
  if len(allowOrigins) == 1 && allowOrigins[0] == "" {
    allowOrigins = nil
  }

  // Database
  dbService, err := db.NewDatabaseService(log)
  if err != nil {
    log.Fatal("Database init failed", "error", err)
  }
  if err = dbService.AutoMigrateAll(); err != nil {
    log.Fatal("Database auto migration failed", "error", err)
  }
  theDB := dbService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(theDB, log)
  companyRepo := repos.NewCompanyRepo(theDB, log)
  projectRepo := repos.NewProjectRepo(theDB, log)
  worklogRepo := repos.NewWorklogRepo(theDB, log)
  expenseRepo := repos.NewExpenseRepo(theDB, log)
  paymentRepo := repos.NewPaymentRepo(theDB, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)
  watcher := services.NewWorklogWatcher(log)

  ctx, cancel := context.WithCancel(context.Background())
  defer cancel()

  var emitter services.SSEEmitter = &services.HubEmitter{Hub: sseHub}
  if os.Getenv("REDIS_ADDR") != "" {
    bus, err := redisclient.NewSSEBus(log)
    if err != nil {
      log.Fatal("Redis SSE bus init failed", "error", err)
    }
    defer bus.Close()
    // Everything routes through redis; the forwarder feeds the local hub and
    // the active-worklog watcher, including transitions made on other
    // instances.
    err = bus.StartForwarder(ctx, func(m sse.SSEMessage) {
      sseHub.Broadcast(m)
      switch m.Event {
      case sse.SSEEventTimerStarted, sse.SSEEventTimerPaused, sse.SSEEventTimerResumed, sse.SSEEventTimerStopped:
        record, err := services.DecodeWorklog(m.Data)
        if err != nil {
          log.Warn("Could not decode worklog from SSE payload", "error", err)
          return
        }
        if record.UserID != uuid.Nil {
          watcher.Notify(record.UserID, record)
        }
      }
    })
    if err != nil {
      log.Fatal("Redis SSE forwarder failed", "error", err)
    }
    emitter = &services.RedisEmitter{Bus: bus}
  }

  // Services
  log.Info("Setting up Services from main...")
  timerService := services.NewTimerService(log, worklogRepo, companyRepo, projectRepo, watcher, emitter)
  worklogService := services.NewWorklogService(log, worklogRepo, companyRepo, projectRepo, emitter)
  companyService := services.NewCompanyService(log, companyRepo, worklogRepo)
  projectService := services.NewProjectService(log, projectRepo, companyRepo)
  statsService := services.NewStatsService(log, worklogRepo)
  reportService := services.NewReportService(log, worklogRepo, companyRepo, projectRepo, expenseRepo, paymentRepo)
  expenseService := services.NewExpenseService(log, expenseRepo)
  paymentService := services.NewPaymentService(log, paymentRepo, companyRepo)
  userService := services.NewUserService(log, userRepo)

  if err := expenseService.SeedCategoriesFromFile(ctx, categoriesPath); err != nil {
    log.Warn("Expense category seeding failed", "error", err)
  }

  // Elapsed ticker
  ticker := services.NewElapsedTicker(log, sseHub, worklogRepo, watcher)
  ticker.Start(ctx)
  defer ticker.Stop()

  // Handlers
  log.Info("Setting up Handlers from main...")
  timerHandler := handlers.NewTimerHandler(timerService)
  worklogHandler := handlers.NewWorklogHandler(worklogService)
  companyHandler := handlers.NewCompanyHandler(companyService)
  projectHandler := handlers.NewProjectHandler(projectService)
  statsHandler := handlers.NewStatsHandler(statsService)
  reportHandler := handlers.NewReportHandler(reportService)
  expenseHandler := handlers.NewExpenseHandler(expenseService)
  paymentHandler := handlers.NewPaymentHandler(paymentService)
  userHandler := handlers.NewUserHandler(userService)
  sseHandler := handlers.NewSSEHandler(log, sseHub)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

  // Router
  router := server.NewRouter(server.RouterConfig{
    AuthMiddleware: authMiddleware,
    TimerHandler:   timerHandler,
    WorklogHandler: worklogHandler,
    CompanyHandler: companyHandler,
    ProjectHandler: projectHandler,
    StatsHandler:   statsHandler,
    ReportHandler:  reportHandler,
    ExpenseHandler: expenseHandler,
    PaymentHandler: paymentHandler,
    UserHandler:    userHandler,
    SSEHandler:     sseHandler,
    AllowOrigins:   allowOrigins,
  })

  log.Info("Starting server...", "addr", listenAddr)
  if err := router.Run(listenAddr); err != nil {
    log.Fatal("Server exited", "error", err)
  }
}
