package model

import "time"

type AuditAction string

const (
	AuditActionAssignRole        AuditAction = "ASSIGN_ROLE"
	AuditActionRevokeRole        AuditAction = "REVOKE_ROLE"
	AuditActionCreateShop        AuditAction = "CREATE_SHOP"
	AuditActionToggleShop        AuditAction = "TOGGLE_SHOP"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceUser  AuditResourceType = "user"
	AuditResourceShop  AuditResourceType = "shop"
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（管理者・ショップオーナーの操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  string            `gorm:"type:uuid;not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   string            `gorm:"type:varchar(64);not null;index" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;index" json:"created_at"`
}
