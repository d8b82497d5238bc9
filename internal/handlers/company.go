package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type CompanyHandler struct {
  companyService    services.CompanyService
}

func NewCompanyHandler(companyService services.CompanyService) *CompanyHandler {
  return &CompanyHandler{companyService: companyService}
}

func (ch *CompanyHandler) List(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  companies, err := ch.companyService.List(c.Request.Context(), uid)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"companies": companies})
}

func (ch *CompanyHandler) Create(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req services.CompanyInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  company, err := ch.companyService.Create(c.Request.Context(), uid, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"company": company})
}

func (ch *CompanyHandler) Update(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  companyID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  var req services.CompanyInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  company, err := ch.companyService.Update(c.Request.Context(), uid, companyID, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"company": company})
}

func (ch *CompanyHandler) Delete(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  companyID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := ch.companyService.Delete(c.Request.Context(), uid, companyID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": companyID})
}
