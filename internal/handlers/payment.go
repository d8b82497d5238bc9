package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type PaymentHandler struct {
  paymentService    services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
  return &PaymentHandler{paymentService: paymentService}
}

func (ph *PaymentHandler) List(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  payments, err := ph.paymentService.List(c.Request.Context(), uid, parseMsQuery(c, "from"), parseMsQuery(c, "to"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"payments": payments})
}

func (ph *PaymentHandler) Create(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req services.PaymentInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  payment, err := ph.paymentService.Create(c.Request.Context(), uid, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"payment": payment})
}

func (ph *PaymentHandler) Delete(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  paymentID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := ph.paymentService.Delete(c.Request.Context(), uid, paymentID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": paymentID})
}
