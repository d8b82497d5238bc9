package handlers

import (
  "net/http"
  "strconv"
  "time"
  "github.com/gin-gonic/gin"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type ReportHandler struct {
  reportService    services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
  return &ReportHandler{reportService: reportService}
}

func (rh *ReportHandler) Monthly(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }

  now := time.Now().UTC()
  year := now.Year()
  month := int(now.Month())
  if raw := c.Query("year"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
    year = parsed
  }
  if raw := c.Query("month"); raw != "" {
    parsed, err := strconv.Atoi(raw)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "bad_request", err)
      return
    }
    month = parsed
  }

  report, err := rh.reportService.Monthly(c.Request.Context(), uid, year, month)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, report)
}
