package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRoleSourceは呼び出し回数を数え、resolveで結果を差し替えられる
type fakeRoleSource struct {
	mu      sync.Mutex
	calls   map[string]int
	epochs  map[string]uint64
	resolve func(st model.AuthState) RoleResult
}

func newFakeRoleSource(resolve func(st model.AuthState) RoleResult) *fakeRoleSource {
	return &fakeRoleSource{calls: map[string]int{}, epochs: map[string]uint64{}, resolve: resolve}
}

func (f *fakeRoleSource) Resolve(_ context.Context, st model.AuthState) RoleResult {
	f.mu.Lock()
	f.calls[st.IdentityID()]++
	f.mu.Unlock()
	return f.resolve(st)
}

func (f *fakeRoleSource) Epoch(userID string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epochs[userID]
}

func (f *fakeRoleSource) bump(userID string) {
	f.mu.Lock()
	f.epochs[userID]++
	f.mu.Unlock()
}

func (f *fakeRoleSource) count(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[userID]
}

func rolesByID(st model.AuthState) RoleResult {
	switch st.IdentityID() {
	case "admin":
		return RoleResult{Roles: model.NewRoleSet(model.RoleSuperadmin)}
	case "owner":
		return RoleResult{Roles: model.NewRoleSet(model.RoleShopOwner, model.RoleUser)}
	default:
		return RoleResult{Roles: model.NewRoleSet()}
	}
}

// Test: 同じidentityなら1回だけ引く
func TestRoleWatcher_Memoizes(t *testing.T) {
	ctx := context.Background()
	src := newFakeRoleSource(rolesByID)
	w := NewRoleWatcher(src, time.Minute)

	w.Roles(ctx, signedIn("owner"))
	res := w.Roles(ctx, signedIn("owner"))

	assert.True(t, res.Roles.Has(model.RoleShopOwner))
	assert.Equal(t, 1, src.count("owner"))
}

// Test: identityが変わったら前のロールを使わない
func TestRoleWatcher_IdentityChange(t *testing.T) {
	ctx := context.Background()
	src := newFakeRoleSource(rolesByID)
	w := NewRoleWatcher(src, time.Minute)

	assert.True(t, w.Roles(ctx, signedIn("admin")).Roles.Has(model.RoleSuperadmin))

	res := w.Roles(ctx, signedIn("owner"))
	assert.False(t, res.Roles.Has(model.RoleSuperadmin))
	assert.True(t, res.Roles.Has(model.RoleShopOwner))

	// ログアウト
	assert.Empty(t, w.Roles(ctx, model.AuthState{}).Roles)
}

// Test: 読み込み中はLoadingのまま、問い合わせない
func TestRoleWatcher_AuthLoading(t *testing.T) {
	src := newFakeRoleSource(rolesByID)
	w := NewRoleWatcher(src, time.Minute)

	res := w.Roles(context.Background(), model.AuthState{Loading: true})
	assert.True(t, res.Loading)
	assert.Equal(t, 0, src.count(""))
}

// Test: 問い合わせ中にidentityが変わったら古い結果は保存しない
func TestRoleWatcher_StaleResultDiscarded(t *testing.T) {
	ctx := context.Background()
	var w *RoleWatcher

	src := newFakeRoleSource(func(st model.AuthState) RoleResult {
		if st.IdentityID() == "admin" {
			// adminの結果が返る前にownerへ切り替わる
			w.Roles(ctx, signedIn("owner"))
		}
		return rolesByID(st)
	})
	w = NewRoleWatcher(src, time.Minute)

	w.Roles(ctx, signedIn("admin"))

	res := w.Roles(ctx, signedIn("owner"))
	assert.False(t, res.Roles.Has(model.RoleSuperadmin))
	assert.True(t, res.Roles.Has(model.RoleShopOwner))
	assert.Equal(t, 1, src.count("owner"))
}

// Test: 失敗は覚えない
func TestRoleWatcher_FailureNotMemoized(t *testing.T) {
	ctx := context.Background()
	fail := true
	src := newFakeRoleSource(func(st model.AuthState) RoleResult {
		if fail {
			return RoleResult{Roles: model.NewRoleSet(), Failed: true}
		}
		return rolesByID(st)
	})
	w := NewRoleWatcher(src, time.Minute)

	res := w.Roles(ctx, signedIn("admin"))
	require.True(t, res.Failed)
	assert.Empty(t, res.Roles)

	fail = false
	res = w.Roles(ctx, signedIn("admin"))
	assert.True(t, res.Roles.Has(model.RoleSuperadmin))
	assert.Equal(t, 2, src.count("admin"))
}

// Test: ロール変更(epoch)があれば引き直す
func TestRoleWatcher_EpochInvalidates(t *testing.T) {
	ctx := context.Background()
	granted := false
	src := newFakeRoleSource(func(st model.AuthState) RoleResult {
		if granted {
			return RoleResult{Roles: model.NewRoleSet(model.RoleUser, model.RoleSuperadmin)}
		}
		return RoleResult{Roles: model.NewRoleSet(model.RoleUser)}
	})
	w := NewRoleWatcher(src, time.Minute)

	assert.False(t, w.Roles(ctx, signedIn("u1")).Roles.Has(model.RoleSuperadmin))

	granted = true
	assert.False(t, w.Roles(ctx, signedIn("u1")).Roles.Has(model.RoleSuperadmin))

	src.bump("u1")
	assert.True(t, w.Roles(ctx, signedIn("u1")).Roles.Has(model.RoleSuperadmin))
	assert.Equal(t, 2, src.count("u1"))
}

// Test: 覚えたロールはttlを過ぎたら引き直す
func TestRoleWatcher_MemoExpires(t *testing.T) {
	ctx := context.Background()
	src := newFakeRoleSource(rolesByID)
	w := NewRoleWatcher(src, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	w.Roles(ctx, signedIn("admin"))
	now = now.Add(30 * time.Second)
	w.Roles(ctx, signedIn("admin"))
	assert.Equal(t, 1, src.count("admin"))

	now = now.Add(time.Minute)
	assert.True(t, w.Roles(ctx, signedIn("admin")).Roles.Has(model.RoleSuperadmin))
	assert.Equal(t, 2, src.count("admin"))
}
