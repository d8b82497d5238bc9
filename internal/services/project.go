package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/retroclock/retroclock-backend/internal/apierr"
	"github.com/retroclock/retroclock-backend/internal/logger"
	"github.com/retroclock/retroclock-backend/internal/repos"
	"github.com/retroclock/retroclock-backend/internal/types"
)

type ProjectInput struct {
	Name        string     `json:"name"`
	CompanyID   *uuid.UUID `json:"company_id,omitempty"`
	IsCompleted bool       `json:"is_completed"`
}

type ProjectService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*types.Project, error)
	Create(ctx context.Context, userID uuid.UUID, in ProjectInput) (*types.Project, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, in ProjectInput) (*types.Project, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
}

type projectService struct {
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	companyRepo repos.CompanyRepo
}

func NewProjectService(log *logger.Logger, projectRepo repos.ProjectRepo, companyRepo repos.CompanyRepo) ProjectService {
	serviceLog := log.With("service", "ProjectService")
	return &projectService{log: serviceLog, projectRepo: projectRepo, companyRepo: companyRepo}
}

func (ps *projectService) List(ctx context.Context, userID uuid.UUID) ([]*types.Project, error) {
	projects, err := ps.projectRepo.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("list projects: %w", err))
	}
	return projects, nil
}

func (ps *projectService) Create(ctx context.Context, userID uuid.UUID, in ProjectInput) (*types.Project, error) {
	if err := ps.validateInput(ctx, userID, &in); err != nil {
		return nil, err
	}

	project := &types.Project{
		UserID:      userID,
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		IsCompleted: in.IsCompleted,
		CreatedAt:   time.Now().UnixMilli(),
	}
	created, err := ps.projectRepo.Create(ctx, nil, project)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("create project: %w", err))
	}

	ps.log.Info("Project created", "project_id", created.ID, "user_id", userID)
	return created, nil
}

func (ps *projectService) Update(ctx context.Context, userID, projectID uuid.UUID, in ProjectInput) (*types.Project, error) {
	if err := ps.validateInput(ctx, userID, &in); err != nil {
		return nil, err
	}

	project, err := ps.projectRepo.GetByID(ctx, nil, userID, projectID)
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("load project: %w", err))
	}
	if project == nil {
		return nil, apierr.NotFound(fmt.Errorf("project not found"))
	}

	err = ps.projectRepo.Update(ctx, nil, userID, projectID, map[string]interface{}{
		"name":         in.Name,
		"company_id":   in.CompanyID,
		"is_completed": in.IsCompleted,
	})
	if err != nil {
		return nil, apierr.StoreUnavailable(fmt.Errorf("update project: %w", err))
	}

	project.Name = in.Name
	project.CompanyID = in.CompanyID
	project.IsCompleted = in.IsCompleted
	return project, nil
}

func (ps *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	ok, err := ps.projectRepo.Delete(ctx, nil, userID, projectID)
	if err != nil {
		return apierr.StoreUnavailable(fmt.Errorf("delete project: %w", err))
	}
	if !ok {
		return apierr.NotFound(fmt.Errorf("project not found"))
	}

	ps.log.Info("Project deleted", "project_id", projectID, "user_id", userID)
	return nil
}

func (ps *projectService) validateInput(ctx context.Context, userID uuid.UUID, in *ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apierr.Validation("name", fmt.Errorf("a project name is required"))
	}
	if in.CompanyID != nil && *in.CompanyID != uuid.Nil {
		company, err := ps.companyRepo.GetByID(ctx, nil, userID, *in.CompanyID)
		if err != nil {
			return apierr.StoreUnavailable(fmt.Errorf("load company: %w", err))
		}
		if company == nil {
			return apierr.Validation("companyId", fmt.Errorf("company does not exist"))
		}
	}
	return nil
}
