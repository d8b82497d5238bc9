package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/retroclock/retroclock-backend/internal/services"
)

type ProjectHandler struct {
  projectService    services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
  return &ProjectHandler{projectService: projectService}
}

func (ph *ProjectHandler) List(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  projects, err := ph.projectService.List(c.Request.Context(), uid)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"projects": projects})
}

func (ph *ProjectHandler) Create(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  var req services.ProjectInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  project, err := ph.projectService.Create(c.Request.Context(), uid, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"project": project})
}

func (ph *ProjectHandler) Update(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  var req services.ProjectInput
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  project, err := ph.projectService.Update(c.Request.Context(), uid, projectID, req)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"project": project})
}

func (ph *ProjectHandler) Delete(c *gin.Context) {
  uid, ok := userID(c)
  if !ok {
    return
  }
  projectID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", err)
    return
  }
  if err := ph.projectService.Delete(c.Request.Context(), uid, projectID); err != nil {
    RespondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"deleted": projectID})
}
