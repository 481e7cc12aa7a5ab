package kv

import (
	"context"
	"errors"
	"time"
)

// ErrMissはキーが存在しないとき
var ErrMiss = errors.New("kv: key not found")

// Storeは文字列キーの永続ストア
// ttl=0なら期限なし
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// セッションごとに保存するキー
const (
	KeyCartState = "cart-state"
	KeyAppTheme  = "app-theme"
)

type namespaced struct {
	store  Store
	prefix string
}

// Namespaceはキーを session:<id>: で区切る
// 同じセッションIDの間だけ値が共有される
func Namespace(store Store, sessionID string) Store {
	return &namespaced{store: store, prefix: "session:" + sessionID + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return n.store.Set(ctx, n.prefix+key, value, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.store.Delete(ctx, n.prefix+key)
}
