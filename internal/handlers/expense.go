package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type ExpenseHandler struct {
  expenseService    services.ExpenseService
}

func NewExpenseHandler(expenseService services.ExpenseService) *ExpenseHandler {
  return &ExpenseHandler{expenseService: expenseService}
}

func (eh *ExpenseHandler) List(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  expenses, err := eh.expenseService.List(c.Request.Context(), uid, parseMsQuery(c, "from"), parseMsQuery(c, "to"))
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"expenses": expenses})
}

func (eh *ExpenseHandler) Create(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req services.ExpenseInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  expense, err := eh.expenseService.Create(c.Request.Context(), uid, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"expense": expense})
}

func (eh *ExpenseHandler) Delete(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  expenseID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := eh.expenseService.Delete(c.Request.Context(), uid, expenseID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": expenseID})
}

func (eh *ExpenseHandler) Categories(c *gin.Context) {
  if _, ok := userID(c); !ok {
    return
  }
  categories, err := eh.expenseService.Categories(c.Request.Context())
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"categories": categories})
}
