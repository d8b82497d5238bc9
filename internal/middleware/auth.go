package middleware

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/logger"
  "github.com/retroclock/retroclock-backend/internal/requestdata"
)

// AuthMiddleware verifies the bearer token issued by the identity frontend
// and scopes the request to its user. Token issuance itself lives outside
// this service.
type AuthMiddleware struct {
  log           *logger.Logger
  secret        []byte
}

func NewAuthMiddleware(log *logger.Logger, secret string) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, secret: []byte(secret)}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }

    rd, err := am.parseToken(tokenString)
    if err != nil {
      am.log.Debug("Token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
      return
    }

    ctx := requestdata.WithRequestData(c.Request.Context(), rd)
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}

func (am *AuthMiddleware) parseToken(tokenString string) (*requestdata.RequestData, error) {
  token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
    }
    return am.secret, nil
  })
  if err != nil || !token.Valid {
    return nil, fmt.Errorf("parse token: %w", err)
  }

  claims, ok := token.Claims.(jwt.MapClaims)
  if !ok {
    return nil, fmt.Errorf("unexpected claims type")
  }
  sub, _ := claims["sub"].(string)
  userID, err := uuid.Parse(sub)
  if err != nil || userID == uuid.Nil {
    return nil, fmt.Errorf("missing or invalid sub claim")
  }

  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
  }
  if sid, _ := claims["sid"].(string); sid != "" {
    if sessionID, err := uuid.Parse(sid); err == nil {
      rd.SessionID = sessionID
    }
  }
  return rd, nil
}

func extractToken(c *gin.Context) string {
  // EventSource cannot set headers, so the SSE stream passes the token as a
  // query parameter.
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  return ""
}
