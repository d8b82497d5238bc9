package handlers

import (
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type StatsHandler struct {
  statsService    services.StatsService
}

func NewStatsHandler(statsService services.StatsService) *StatsHandler {
  return &StatsHandler{statsService: statsService}
}

func (sh *StatsHandler) Summary(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  summary, err := sh.statsService.Summary(c.Request.Context(), uid)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, summary)
}

func (sh *StatsHandler) Daily(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  days, _ := strconv.Atoi(c.Query("days"))
  totals, err := sh.statsService.DailyTotals(c.Request.Context(), uid, days)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"daily": totals})
}

func (sh *StatsHandler) Weekly(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  totals, err := sh.statsService.WeeklyHours(c.Request.Context(), uid)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"weekly": totals})
}
