package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLogLimit = 50
	maxAuditLogLimit     = 200
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

var _ repo.AuditLogRepository = (*AuditLogGormRepository)(nil)

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(&entry).Error)
}

// auditLogScopeは指定された条件だけWHEREに足す
func auditLogScope(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		eq := map[string]interface{}{}
		if f.ActorUserID != nil {
			eq["actor_user_id"] = *f.ActorUserID
		}
		if f.Action != nil {
			eq["action"] = *f.Action
		}
		if f.ResourceType != nil {
			eq["resource_type"] = *f.ResourceType
		}
		if f.ResourceID != nil {
			eq["resource_id"] = *f.ResourceID
		}
		if len(eq) > 0 {
			q = q.Where(eq)
		}

		if f.CreatedFrom != nil {
			q = q.Where("created_at >= ?", *f.CreatedFrom)
		}
		if f.CreatedTo != nil {
			q = q.Where("created_at <= ?", *f.CreatedTo)
		}
		return q
	}
}

func pageOf(limit, offset int) (int, int) {
	if limit <= 0 || limit > maxAuditLogLimit {
		limit = defaultAuditLogLimit
	}
	return limit, max(offset, 0)
}

// Listは新しい順
func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit, offset := pageOf(f.Limit, f.Offset)

	logs := []model.AuditLog{}
	err := r.db.WithContext(ctx).
		Scopes(auditLogScope(f)).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, translate(err)
	}
	return logs, nil
}
