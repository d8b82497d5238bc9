package handlers

import (
  "net/http"
  "strconv"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type WorklogHandler struct {
  worklogService    services.WorklogService
}

func NewWorklogHandler(worklogService services.WorklogService) *WorklogHandler {
  return &WorklogHandler{worklogService: worklogService}
}

func (wh *WorklogHandler) List(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  fromMs := parseMsQuery(c, "from")
  toMs := parseMsQuery(c, "to")
  records, err := wh.worklogService.ListCompleted(c.Request.Context(), uid, fromMs, toMs)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"worklogs": records})
}

func (wh *WorklogHandler) UpsertManual(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req services.ManualWorklogInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  record, err := wh.worklogService.UpsertManual(c.Request.Context(), uid, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"worklog": record})
}

func (wh *WorklogHandler) Delete(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  worklogID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := wh.worklogService.Delete(c.Request.Context(), uid, worklogID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": worklogID})
}

func parseMsQuery(c *gin.Context, key string) int64 {
  raw := c.Query(key)
  if raw == "" {
    return 0
  }
  ms, err := strconv.ParseInt(raw, 10, 64)
  if err != nil {
    return 0
  }
  return ms
}
