package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
func NewUserGormRepository(db *gorm.DB) repo.UserRepository {
	return &userGormRepository{db: db}
}

func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userGormRepository) FindByID(ctx context.Context, userID string) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&u).Error; err != nil {
		return model.User{}, translate(err)
	}
	return u, nil
}

func (r *userGormRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return []model.User{}, err
	}
	return users, nil
}

func (r *userGormRepository) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return []model.User{}, err
	}
	return users, nil
}

func (r *userGormRepository) TouchLastLogin(ctx context.Context, userID string) error {
	return affected(r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login_at", time.Now()))
}

func (r *userGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error
	return n, err
}
