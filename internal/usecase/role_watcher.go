package usecase

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"
)

type roleSource interface {
	Resolve(ctx context.Context, st model.AuthState) RoleResult
	Epoch(userID string) uint64
}

// RoleWatcherはセッションの現在のidentityとそのロールを覚えておく
// identityが変わったら捨てて引き直す
// genは問い合わせ開始時のidentityを表し、途中でidentityが変わった結果は保存しない
// 覚えたロールはttlを過ぎるか、epochが進んだら引き直す
type RoleWatcher struct {
	src roleSource
	ttl time.Duration // 0なら期限なし
	now func() time.Time

	mu         sync.Mutex
	identityID string
	gen        uint64
	roles      model.RoleSet
	epoch      uint64
	resolvedAt time.Time
	resolved   bool
}

func NewRoleWatcher(src roleSource, ttl time.Duration) *RoleWatcher {
	return &RoleWatcher{src: src, ttl: ttl, now: time.Now}
}

// freshはロック中に呼ぶ
func (w *RoleWatcher) fresh(id string) bool {
	if !w.resolved {
		return false
	}
	if w.ttl > 0 && w.now().Sub(w.resolvedAt) >= w.ttl {
		return false
	}
	return id == "" || w.epoch == w.src.Epoch(id)
}

func (w *RoleWatcher) Roles(ctx context.Context, st model.AuthState) RoleResult {
	if st.Loading {
		return RoleResult{Loading: true}
	}

	id := st.IdentityID()

	w.mu.Lock()
	if id != w.identityID {
		w.identityID = id
		w.gen++
		w.roles = nil
		w.resolved = false
	}
	if w.fresh(id) {
		roles := w.roles
		w.mu.Unlock()
		return RoleResult{Roles: roles}
	}
	gen := w.gen
	w.mu.Unlock()

	var epoch uint64
	if id != "" {
		epoch = w.src.Epoch(id)
	}
	res := w.src.Resolve(ctx, st)

	w.mu.Lock()
	defer w.mu.Unlock()
	// 失敗は覚えない。次回また問い合わせる
	// epochは問い合わせ前の値なので、途中でForgetされていれば次回引き直しになる
	if gen == w.gen && !res.Loading && !res.Failed {
		w.roles = res.Roles
		w.epoch = epoch
		w.resolvedAt = w.now()
		w.resolved = true
	}
	return res
}

// RoleWatchersはセッションIDごとのRoleWatcher
type RoleWatchers struct {
	reg *SessionRegistry[*RoleWatcher]
}

func NewRoleWatchers(resolver *RoleResolver) *RoleWatchers {
	return &RoleWatchers{
		reg: NewSessionRegistry(func(context.Context, string) *RoleWatcher {
			return NewRoleWatcher(resolver, resolver.TTL())
		}),
	}
}

func (w *RoleWatchers) Roles(ctx context.Context, sessionID string, st model.AuthState) RoleResult {
	return w.reg.For(ctx, sessionID).Roles(ctx, st)
}

func (w *RoleWatchers) Registry() *SessionRegistry[*RoleWatcher] { return w.reg }
