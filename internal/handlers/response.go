package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/apierr"
  "github.com/retroclock/retroclock-backend/internal/requestdata"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
  Field	      string	`json:"field,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

// RespondServiceError maps a typed service failure onto its HTTP status.
func RespondServiceError(c *gin.Context, err error) {
  ae := apierr.From(err)
  c.JSON(ae.Status, ErrorEnvelope{
    Error: APIError{
      Message: ae.Error(),
      Code:    ae.Code,
      Field:   ae.Field,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// userID pulls the authenticated user out of the request context; a zero
// result means the auth middleware did not run.
func userID(c *gin.Context) (uuid.UUID, bool) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
    return uuid.Nil, false
  }
  return rd.UserID, true
}
