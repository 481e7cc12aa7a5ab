package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

// AdminUsecaseはsuperadminの管理画面
type AdminUsecase struct {
	users    repo.UserRepository
	roles    repo.RoleRepository
	shops    repo.ShopRepository
	products repo.ProductRepository
	orders   repo.OrderRepository
	audit    repo.AuditLogRepository
	resolver *RoleResolver
	log      logger.Logger
}

func NewAdminUsecase(
	users repo.UserRepository,
	roles repo.RoleRepository,
	shops repo.ShopRepository,
	products repo.ProductRepository,
	orders repo.OrderRepository,
	audit repo.AuditLogRepository,
	resolver *RoleResolver,
	log logger.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		users:    users,
		roles:    roles,
		shops:    shops,
		products: products,
		orders:   orders,
		audit:    audit,
		resolver: resolver,
		log:      log,
	}
}

type AdminStats struct {
	TotalShops    int64 `json:"total_shops"`
	ActiveShops   int64 `json:"active_shops"`
	TotalUsers    int64 `json:"total_users"`
	TotalProducts int64 `json:"total_products"`
	TotalOrders   int64 `json:"total_orders"`
}

type AdminShopOutput struct {
	model.Shop
	Owner *model.User `json:"owner"`
}

type AdminUserOutput struct {
	model.User
	Roles []model.Role `json:"roles"`
}

type CreateShopInput struct {
	Name        string
	Slug        string
	Description string
	OwnerID     string
}

type CreateShopOutput struct {
	Shop   model.Shop `json:"shop"`
	Notice Notice     `json:"notice"`
}

func (u *AdminUsecase) Stats(ctx context.Context) (AdminStats, error) {
	shops, err := u.shops.Counts(ctx)
	if err != nil {
		return AdminStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	users, err := u.users.Count(ctx)
	if err != nil {
		return AdminStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	products, err := u.products.Count(ctx)
	if err != nil {
		return AdminStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	orders, err := u.orders.Count(ctx)
	if err != nil {
		return AdminStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AdminStats{
		TotalShops:    shops.Total,
		ActiveShops:   shops.Active,
		TotalUsers:    users,
		TotalProducts: products,
		TotalOrders:   orders,
	}, nil
}

// ショップ一覧（オーナーのプロフィール付き）
func (u *AdminUsecase) ListShops(ctx context.Context) ([]AdminShopOutput, error) {
	shops, err := u.shops.List(ctx)
	if err != nil {
		return []AdminShopOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	ids := make([]string, 0, len(shops))
	for _, s := range shops {
		ids = append(ids, s.OwnerID)
	}
	owners, err := u.users.ListByIDs(ctx, ids)
	if err != nil {
		return []AdminShopOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	byID := make(map[string]model.User, len(owners))
	for _, o := range owners {
		byID[o.ID] = o
	}

	out := make([]AdminShopOutput, 0, len(shops))
	for _, s := range shops {
		row := AdminShopOutput{Shop: s}
		if o, ok := byID[s.OwnerID]; ok {
			owner := o
			row.Owner = &owner
		}
		out = append(out, row)
	}
	return out, nil
}

var slugSpaces = regexp.MustCompile(`\s+`)

// 小文字にして空白を-にする
func NormalizeSlug(s string) string {
	return slugSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

// CreateShopは非公開で作成し、オーナーにshop_ownerを付ける
func (u *AdminUsecase) CreateShop(ctx context.Context, actorID string, in CreateShopInput) (CreateShopOutput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.OwnerID = strings.TrimSpace(in.OwnerID)
	slug := NormalizeSlug(in.Slug)
	if in.Name == "" || slug == "" || in.OwnerID == "" {
		return CreateShopOutput{}, NewHTTPError(http.StatusBadRequest, "Please fill in all required fields")
	}

	if _, err := u.users.FindByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CreateShopOutput{}, NewHTTPError(http.StatusBadRequest, "owner not found")
		}
		return CreateShopOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	shop := model.Shop{
		ID:       uuid.NewString(),
		OwnerID:  in.OwnerID,
		Name:     in.Name,
		Slug:     slug,
		IsActive: false,
	}
	if d := strings.TrimSpace(in.Description); d != "" {
		shop.Description = &d
	}

	if err := u.shops.Create(ctx, &shop); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return CreateShopOutput{}, NewHTTPError(http.StatusConflict, "slug already exists")
		}
		return CreateShopOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	u.writeAudit(ctx, actorID, model.AuditActionCreateShop, model.AuditResourceShop, shop.ID, nil, shop)

	// 既にshop_ownerでも問題なし
	if err := u.roles.Assign(ctx, in.OwnerID, model.RoleShopOwner); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		u.log.Error("assign shop_owner failed", err, logger.Fields{"user_id": in.OwnerID, "shop_id": shop.ID})
	} else if err == nil {
		u.writeAudit(ctx, actorID, model.AuditActionAssignRole, model.AuditResourceUser, in.OwnerID, nil, map[string]string{"role": string(model.RoleShopOwner)})
	}
	u.resolver.Forget(ctx, in.OwnerID)

	return CreateShopOutput{Shop: shop, Notice: successNotice("Shop created successfully")}, nil
}

// 公開/非公開の切り替え
func (u *AdminUsecase) ToggleShop(ctx context.Context, actorID string, shopID string) (model.Shop, error) {
	shop, err := u.shops.FindByID(ctx, shopID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Shop{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := shop.IsActive
	if err := u.shops.SetActive(ctx, shopID, !before); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Shop{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Shop{}, NewHTTPError(http.StatusInternalServerError, "Failed to update shop status")
	}
	shop.IsActive = !before

	u.writeAudit(ctx, actorID, model.AuditActionToggleShop, model.AuditResourceShop, shopID,
		map[string]bool{"is_active": before}, map[string]bool{"is_active": shop.IsActive})
	return shop, nil
}

// ユーザー一覧（ロール付き）
func (u *AdminUsecase) ListUsers(ctx context.Context) ([]AdminUserOutput, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return []AdminUserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	rows, err := u.roles.ListAll(ctx)
	if err != nil {
		return []AdminUserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	byUser := map[string][]model.Role{}
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r.Role)
	}

	out := make([]AdminUserOutput, 0, len(users))
	for _, usr := range users {
		roles := byUser[usr.ID]
		if roles == nil {
			roles = []model.Role{}
		}
		out = append(out, AdminUserOutput{User: usr, Roles: roles})
	}
	return out, nil
}

// AssignRoleは重複ならinfo
func (u *AdminUsecase) AssignRole(ctx context.Context, actorID string, userID string, roleName string) (Notice, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return Notice{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if _, err := u.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Notice{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return Notice{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err := u.roles.Assign(ctx, userID, role)
	if errors.Is(err, repo.ErrDuplicate) {
		return infoNotice("User already has this role"), nil
	}
	if err != nil {
		return Notice{}, NewHTTPError(http.StatusInternalServerError, "Failed to add role")
	}

	u.writeAudit(ctx, actorID, model.AuditActionAssignRole, model.AuditResourceUser, userID, nil, map[string]string{"role": string(role)})
	u.resolver.Forget(ctx, userID)
	return successNotice("Role added successfully"), nil
}

// RevokeRoleは持っていなくても成功
func (u *AdminUsecase) RevokeRole(ctx context.Context, actorID string, userID string, roleName string) (Notice, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return Notice{}, NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	err := u.roles.Revoke(ctx, userID, role)
	if errors.Is(err, repo.ErrNotFound) {
		return successNotice("Role removed successfully"), nil
	}
	if err != nil {
		return Notice{}, NewHTTPError(http.StatusInternalServerError, "Failed to remove role")
	}

	u.writeAudit(ctx, actorID, model.AuditActionRevokeRole, model.AuditResourceUser, userID, map[string]string{"role": string(role)}, nil)
	u.resolver.Forget(ctx, userID)
	return successNotice("Role removed successfully"), nil
}

// 監査ログの失敗は操作自体を失敗にしない
func (u *AdminUsecase) writeAudit(ctx context.Context, actorID string, action model.AuditAction, rt model.AuditResourceType, resourceID string, before, after interface{}) {
	writeAuditLog(ctx, u.audit, u.log, actorID, action, rt, resourceID, before, after)
}

func writeAuditLog(ctx context.Context, audit repo.AuditLogRepository, log logger.Logger, actorID string, action model.AuditAction, rt model.AuditResourceType, resourceID string, before, after interface{}) {
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   resourceID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    time.Now(),
	}
	if err := audit.Create(ctx, entry); err != nil {
		log.Error("audit log write failed", err, logger.Fields{"action": string(action), "resource_id": resourceID})
	}
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

type AuditLogQuery struct {
	ActorUserID  string
	Action       string
	ResourceType string
	ResourceID   string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// 監査ログ一覧（新しい順）
func (u *AdminUsecase) AuditLogs(ctx context.Context, q AuditLogQuery) ([]model.AuditLog, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "invalid limit or offset")
	}
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return []model.AuditLog{}, NewHTTPError(http.StatusBadRequest, "from must be before to")
	}

	f := repo.AuditLogFilter{Limit: q.Limit, Offset: q.Offset, CreatedFrom: q.From, CreatedTo: q.To}
	if v := strings.TrimSpace(q.ActorUserID); v != "" {
		f.ActorUserID = &v
	}
	// actionは大文字で保存している
	if v := strings.ToUpper(strings.TrimSpace(q.Action)); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := strings.TrimSpace(q.ResourceType); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := strings.TrimSpace(q.ResourceID); v != "" {
		f.ResourceID = &v
	}

	logs, err := u.audit.List(ctx, f)
	if err != nil {
		return []model.AuditLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
