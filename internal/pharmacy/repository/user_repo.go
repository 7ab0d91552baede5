package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zenhealth/pharmacy/internal/pharmacy/entity"
	"gorm.io/gorm"
)

// UserRepository persists users, roles and permissions.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user with roles preloaded.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail looks up a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a user.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// UpdateLastLogin stamps the last login time.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("last_login_at", at).Error
}

// AssignRole links a user to a role by role code.
func (r *UserRepository) AssignRole(ctx context.Context, userID, roleCode string) error {
	var role entity.Role
	if err := r.db.WithContext(ctx).Where("code = ?", roleCode).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	link := entity.UserRole{UserID: userID, RoleID: role.ID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, role.ID).
		FirstOrCreate(&link).Error
}

// LoadAccess fills the user's role and permission codes.
func (r *UserRepository) LoadAccess(ctx context.Context, user *entity.User) error {
	var roleCodes []string
	err := r.db.WithContext(ctx).
		Model(&entity.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.status = ?", user.ID, "active").
		Pluck("roles.code", &roleCodes).Error
	if err != nil {
		return err
	}

	var permCodes []string
	err = r.db.WithContext(ctx).
		Model(&entity.Permission{}).
		Distinct("permissions.code").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_permissions.role_id").
		Where("user_roles.user_id = ?", user.ID).
		Pluck("permissions.code", &permCodes).Error
	if err != nil {
		return err
	}

	user.RoleCodes = roleCodes
	user.PermissionCodes = permCodes
	return nil
}
