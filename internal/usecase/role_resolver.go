package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/kv"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"
)

// RoleResultはロール解決の結果
// Loading中はRolesを見てはいけない
type RoleResult struct {
	Roles   model.RoleSet
	Loading bool
	// 取得失敗で空にしたとき
	Failed bool
}

// RoleResolverはidentityのロールをuser_rolesから引く
// 失敗しても呼び出し側にはエラーを返さず空集合にする
type RoleResolver struct {
	roles repo.RoleRepository
	cache kv.Store // nilならキャッシュしない
	ttl   time.Duration
	log   logger.Logger

	mu     sync.Mutex
	epochs map[string]uint64
}

func NewRoleResolver(roles repo.RoleRepository, cache kv.Store, ttl time.Duration, log logger.Logger) *RoleResolver {
	return &RoleResolver{
		roles:  roles,
		cache:  cache,
		ttl:    ttl,
		log:    log,
		epochs: map[string]uint64{},
	}
}

func roleCacheKey(userID string) string { return "roles:" + userID }

func (r *RoleResolver) Resolve(ctx context.Context, st model.AuthState) RoleResult {
	// identityが確定するまで問い合わせない
	if st.Loading {
		return RoleResult{Loading: true}
	}
	if st.Identity == nil || st.Identity.ID == "" {
		return RoleResult{Roles: model.NewRoleSet()}
	}
	userID := st.Identity.ID
	epoch := r.Epoch(userID)

	if set, ok := r.cached(ctx, userID); ok {
		return RoleResult{Roles: set}
	}

	roles, err := r.roles.ListByUserID(ctx, userID)
	if err != nil {
		r.log.Error("role resolution failed", err, logger.Fields{"user_id": userID})
		return RoleResult{Roles: model.NewRoleSet(), Failed: true}
	}

	set := model.NewRoleSet(roles...)
	r.store(ctx, userID, set, epoch)
	return RoleResult{Roles: set}
}

func (r *RoleResolver) cached(ctx context.Context, userID string) (model.RoleSet, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, roleCacheKey(userID))
	if err != nil {
		if !errors.Is(err, kv.ErrMiss) {
			r.log.Warn("role cache read failed", logger.Fields{"user_id": userID, "error": err.Error()})
		}
		return nil, false
	}
	var set model.RoleSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		r.log.Warn("role cache entry is corrupt", logger.Fields{"user_id": userID, "error": err.Error()})
		r.drop(ctx, userID)
		return nil, false
	}
	return set, true
}

// storeは問い合わせ中にForgetされていたら書かない
// 書いた直後にForgetされた場合も消しておく
func (r *RoleResolver) store(ctx context.Context, userID string, set model.RoleSet, epoch uint64) {
	if r.cache == nil || r.Epoch(userID) != epoch {
		return
	}
	b, err := json.Marshal(set)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, roleCacheKey(userID), string(b), r.ttl); err != nil {
		r.log.Warn("role cache write failed", logger.Fields{"user_id": userID, "error": err.Error()})
		return
	}
	if r.Epoch(userID) != epoch {
		r.drop(ctx, userID)
	}
}

func (r *RoleResolver) drop(ctx context.Context, userID string) {
	if err := r.cache.Delete(ctx, roleCacheKey(userID)); err != nil {
		r.log.Warn("role cache delete failed", logger.Fields{"user_id": userID, "error": err.Error()})
	}
}

// Forgetはロール変更後に呼ぶ。次のResolveで引き直す
func (r *RoleResolver) Forget(ctx context.Context, userID string) {
	r.mu.Lock()
	r.epochs[userID]++
	r.mu.Unlock()

	if r.cache == nil {
		return
	}
	r.drop(ctx, userID)
}

// TTLはキャッシュの有効期間。RoleWatcherの保持期間にも使う
func (r *RoleResolver) TTL() time.Duration { return r.ttl }

// EpochはForgetされた回数。RoleWatcherが古い結果を捨てるのに使う
func (r *RoleResolver) Epoch(userID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epochs[userID]
}
