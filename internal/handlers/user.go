package handlers

import (
  "io"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type UserHandler struct {
  userService     services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
  return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  me, err := uh.userService.Get(c.Request.Context(), uid)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}

func (uh *UserHandler) SetPin(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req struct {
    Pin         string        `json:"pin"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := uh.userService.SetPin(c.Request.Context(), uid, req.Pin); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "pin updated"})
}

func (uh *UserHandler) VerifyPin(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req struct {
    Pin         string        `json:"pin"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  valid, err := uh.userService.VerifyPin(c.Request.Context(), uid, req.Pin)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"valid": valid})
}

func (uh *UserHandler) UpdatePreferences(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  raw, err := io.ReadAll(c.Request.Body)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  me, err := uh.userService.UpdatePreferences(c.Request.Context(), uid, raw)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"me": me})
}
