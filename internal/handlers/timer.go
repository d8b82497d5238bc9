package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type TimerHandler struct {
  timerService    services.TimerService
}

func NewTimerHandler(timerService services.TimerService) *TimerHandler {
  return &TimerHandler{timerService: timerService}
}

type timerTransitionRequest struct {
  WorklogID     uuid.UUID     `json:"worklog_id"`
  CompanyID     uuid.UUID     `json:"company_id"`
  ProjectID     *uuid.UUID    `json:"project_id,omitempty"`
  Description   string        `json:"description,omitempty"`
}

func (th *TimerHandler) Active(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  record, err := th.timerService.Active(c.Request.Context(), uid)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"active": record})
}

func (th *TimerHandler) Start(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req timerTransitionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  record, err := th.timerService.Start(c.Request.Context(), uid, req.CompanyID, req.ProjectID, req.Description)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"worklog": record})
}

func (th *TimerHandler) Pause(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req timerTransitionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  record, err := th.timerService.Pause(c.Request.Context(), uid, req.WorklogID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"worklog": record})
}

func (th *TimerHandler) Resume(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req timerTransitionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  record, err := th.timerService.Resume(c.Request.Context(), uid, req.WorklogID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"worklog": record})
}

func (th *TimerHandler) Stop(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req timerTransitionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  record, err := th.timerService.Stop(c.Request.Context(), uid, req.WorklogID, req.CompanyID, req.ProjectID, req.Description)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"worklog": record})
}
