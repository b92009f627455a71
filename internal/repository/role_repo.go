package repository

import (
	"context"

	"aegisai/internal/model"

	"gorm.io/gorm"
)

// RoleRepository defines data access for Role and Permission entities.
// Roles are a closed set: they are created by seeding only, never at runtime.
type RoleRepository interface {
	List(ctx context.Context) ([]model.Role, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	GetByName(ctx context.Context, name model.UserRole) (*model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	ReplacePermissions(ctx context.Context, role *model.Role, codes []string) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").Order("created_at asc").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name model.UserRole) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return GetDB(ctx, r.db).Omit("Permissions").Save(role).Error
}

// ReplacePermissions swaps the role's permission set for the given codes,
// creating permission records that do not exist yet.
func (r *roleRepository) ReplacePermissions(ctx context.Context, role *model.Role, codes []string) error {
	db := GetDB(ctx, r.db)

	perms := make([]model.Permission, 0, len(codes))
	for _, code := range codes {
		var p model.Permission
		err := db.Where("code = ?", code).First(&p).Error
		if err == gorm.ErrRecordNotFound {
			p = model.Permission{Code: code}
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		perms = append(perms, p)
	}

	if err := db.Model(role).Association("Permissions").Replace(perms); err != nil {
		return err
	}
	role.Permissions = perms
	return nil
}
