package handlers

import (
  "net/http"
  "sync"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/requestdata"
  "github.com/retroclock/retroclock-backend/internal/sse"
)

type SSEHandler struct {
  Log *logger.Logger
  Hub *sse.SSEHub

  mu      sync.RWMutex
  clients map[uuid.UUID]*sse.SSEClient // key: session id (user id when no sid claim)
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
  return &SSEHandler{
    Log:     log,
    Hub:     hub,
    clients: make(map[uuid.UUID]*sse.SSEClient),
  }
}

func sessionKey(rd *requestdata.RequestData) uuid.UUID {
  if rd.SessionID != uuid.Nil {
    return rd.SessionID
  }
  return rd.UserID
}

func (h *SSEHandler) SSEStream(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return
  }
  key := sessionKey(rd)
  h.Log.Info("SSEStream open", "user_id", rd.UserID.String(), "session_key", key.String())

  h.mu.Lock()
  // A reconnecting session replaces its previous client.
  if existing, ok := h.clients[key]; ok {
    h.Hub.CloseClient(existing)
    delete(h.clients, key)
  }
  client := h.Hub.NewSSEClient(rd.UserID)
  h.clients[key] = client
  h.mu.Unlock()

  // Every session follows its user's timer channel.
  h.Hub.AddChannel(client, sse.TimerChannel(rd.UserID))

  h.Hub.ServeHTTP(c.Writer, c.Request, client)

  h.mu.Lock()
  delete(h.clients, key)
  h.mu.Unlock()
  h.Hub.CloseClient(client)
}

func (h *SSEHandler) SSESubscribe(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return
  }

  var req struct {
    Channel string `json:"channel"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
    return
  }

  h.mu.RLock()
  client, exists := h.clients[sessionKey(rd)]
  h.mu.RUnlock()
  if !exists {
    c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this session"})
    return
  }

  h.Hub.AddChannel(client, req.Channel)
  c.JSON(http.StatusOK, gin.H{"message": "subscribed", "channel": req.Channel})
}

func (h *SSEHandler) SSEUnsubscribe(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return
  }

  var req struct {
    Channel string `json:"channel"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Channel == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel"})
    return
  }

  h.mu.RLock()
  client, exists := h.clients[sessionKey(rd)]
  h.mu.RUnlock()
  if !exists {
    c.JSON(http.StatusConflict, gin.H{"error": "no active SSE connection for this session"})
    return
  }

  h.Hub.RemoveChannel(client, req.Channel)
  c.JSON(http.StatusOK, gin.H{"message": "unsubscribed", "channel": req.Channel})
}
