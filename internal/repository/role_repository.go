package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type RoleRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]model.Role, error)
	ListAll(ctx context.Context) ([]model.UserRole, error)
	// 既に持っていればErrDuplicate
	Assign(ctx context.Context, userID string, role model.Role) error
	Revoke(ctx context.Context, userID string, role model.Role) error
}
