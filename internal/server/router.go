package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/retroclock/retroclock-backend/internal/handlers"
  "github.com/retroclock/retroclock-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware    *middleware.AuthMiddleware
  TimerHandler      *handlers.TimerHandler
  WorklogHandler    *handlers.WorklogHandler
  CompanyHandler    *handlers.CompanyHandler
  ProjectHandler    *handlers.ProjectHandler
  StatsHandler      *handlers.StatsHandler
  ReportHandler     *handlers.ReportHandler
  ExpenseHandler    *handlers.ExpenseHandler
  PaymentHandler    *handlers.PaymentHandler
  UserHandler       *handlers.UserHandler
  SSEHandler        *handlers.SSEHandler
  AllowOrigins      []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{
      "http://localhost:3000",
      "http://localhost:5173",
    }
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Timer
  protected.GET("/timer/active", cfg.TimerHandler.Active)
  protected.POST("/timer/start", cfg.TimerHandler.Start)
  protected.POST("/timer/pause", cfg.TimerHandler.Pause)
  protected.POST("/timer/resume", cfg.TimerHandler.Resume)
  protected.POST("/timer/stop", cfg.TimerHandler.Stop)
  // Worklogs
  protected.GET("/worklogs", cfg.WorklogHandler.List)
  protected.POST("/worklogs/manual", cfg.WorklogHandler.UpsertManual)
  protected.DELETE("/worklogs/:id", cfg.WorklogHandler.Delete)
  // Companies
  protected.GET("/companies", cfg.CompanyHandler.List)
  protected.POST("/companies", cfg.CompanyHandler.Create)
  protected.PUT("/companies/:id", cfg.CompanyHandler.Update)
  protected.DELETE("/companies/:id", cfg.CompanyHandler.Delete)
  // Projects
  protected.GET("/projects", cfg.ProjectHandler.List)
  protected.POST("/projects", cfg.ProjectHandler.Create)
  protected.PUT("/projects/:id", cfg.ProjectHandler.Update)
  protected.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
  // Stats
  protected.GET("/stats/summary", cfg.StatsHandler.Summary)
  protected.GET("/stats/daily", cfg.StatsHandler.Daily)
  protected.GET("/stats/weekly", cfg.StatsHandler.Weekly)
  // Reports
  protected.GET("/reports/monthly", cfg.ReportHandler.Monthly)
  // Expenses
  protected.GET("/expenses", cfg.ExpenseHandler.List)
  protected.POST("/expenses", cfg.ExpenseHandler.Create)
  protected.DELETE("/expenses/:id", cfg.ExpenseHandler.Delete)
  protected.GET("/expenses/categories", cfg.ExpenseHandler.Categories)
  // Payments
  protected.GET("/payments", cfg.PaymentHandler.List)
  protected.POST("/payments", cfg.PaymentHandler.Create)
  protected.DELETE("/payments/:id", cfg.PaymentHandler.Delete)
  // SSE
  protected.GET("/sse/stream", cfg.SSEHandler.SSEStream)
  protected.POST("/sse/subscribe", cfg.SSEHandler.SSESubscribe)
  protected.POST("/sse/unsubscribe", cfg.SSEHandler.SSEUnsubscribe)
  // User
  protected.GET("/user", cfg.UserHandler.GetMe)
  protected.POST("/user/pin", cfg.UserHandler.SetPin)
  protected.POST("/user/pin/verify", cfg.UserHandler.VerifyPin)
  protected.PUT("/user/preferences", cfg.UserHandler.UpdatePreferences)

  return router
}
