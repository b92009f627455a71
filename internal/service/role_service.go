package service

import (
	"context"
	"errors"

	"aegisai/internal/model"
	"aegisai/internal/repository"

	"gorm.io/gorm"
)

// RoleResponse is the access-policy record for one role. UserCount is a
// denormalized convenience recomputed on read, never authoritative.
type RoleResponse struct {
	ID          string         `json:"id"`
	Name        model.UserRole `json:"name"`
	Label       string         `json:"label"`
	Description string         `json:"description"`
	Permissions []string       `json:"permissions"`
	UserCount   int64          `json:"userCount"`
}

// UpdateRoleRequest mutates presentation metadata and the permission set.
// The role name is part of the closed role set and cannot change.
type UpdateRoleRequest struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
}

type roleService struct {
	roles repository.RoleRepository
	users repository.UserRepository
}

// NewRoleService returns a new instance of RoleService
func NewRoleService(roles repository.RoleRepository, users repository.UserRepository) RoleService {
	return &roleService{roles: roles, users: users}
}

func (s *roleService) mapRole(ctx context.Context, role *model.Role) (*RoleResponse, error) {
	count, err := s.users.CountByRole(ctx, role.Name)
	if err != nil {
		return nil, err
	}
	return &RoleResponse{
		ID:          role.ID.String(),
		Name:        role.Name,
		Label:       role.Label,
		Description: role.Description,
		Permissions: role.PermissionCodes(),
		UserCount:   count,
	}, nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		res, err := s.mapRole(ctx, &roles[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *res)
	}
	return responses, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Label != "" {
		role.Label = req.Label
	}
	if req.Description != "" {
		role.Description = req.Description
	}
	if err := s.roles.Update(ctx, role); err != nil {
		return nil, err
	}

	if req.Permissions != nil {
		if err := s.roles.ReplacePermissions(ctx, role, req.Permissions); err != nil {
			return nil, err
		}
	}

	return s.mapRole(ctx, role)
}
