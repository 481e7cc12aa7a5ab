package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type roleGormRepository struct {
	db *gorm.DB
}

func NewRoleGormRepository(db *gorm.DB) repo.RoleRepository {
	return &roleGormRepository{db: db}
}

func (r *roleGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Where("user_id = ?", userID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleGormRepository) ListAll(ctx context.Context) ([]model.UserRole, error) {
	var rows []model.UserRole
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&rows).Error; err != nil {
		return []model.UserRole{}, err
	}
	return rows, nil
}

func (r *roleGormRepository) Assign(ctx context.Context, userID string, role model.Role) error {
	row := model.UserRole{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
	}
	return translate(r.db.WithContext(ctx).Create(&row).Error)
}

func (r *roleGormRepository) Revoke(ctx context.Context, userID string, role model.Role) error {
	return affected(r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&model.UserRole{}))
}
