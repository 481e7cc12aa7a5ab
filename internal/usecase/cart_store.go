package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/infra/kv"
	"storefront/internal/pkg/logger"

	"github.com/shopspring/decimal"
)

// CartStoreは1セッション分のカート
// 操作はmutexで直列化し、変更のたびにcart-stateへ保存する
// 保存に失敗してもメモリ上の状態を正とする
type CartStore struct {
	mu sync.Mutex
	// チェックアウト中は同じカートの2つ目のチェックアウトを待たせる
	checkoutMu sync.Mutex

	state model.CartState
	store kv.Store
	log   logger.Logger
}

// NewCartStoreは保存済みのcart-stateから復元する
// 無い/壊れている場合は空のカート
func NewCartStore(ctx context.Context, store kv.Store, log logger.Logger) *CartStore {
	s := &CartStore{
		state: model.CartState{Items: []model.CartLineItem{}},
		store: store,
		log:   log,
	}
	s.rehydrate(ctx)
	return s
}

func (s *CartStore) rehydrate(ctx context.Context) {
	raw, err := s.store.Get(ctx, kv.KeyCartState)
	if errors.Is(err, kv.ErrMiss) {
		return
	}
	if err != nil {
		s.log.Warn("cart rehydrate failed", logger.Fields{"error": err.Error()})
		return
	}

	var persisted model.CartState
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		s.log.Warn("cart state is corrupt, starting empty", logger.Fields{"error": err.Error()})
		return
	}
	if persisted.Items != nil {
		s.state.Items = persisted.Items
	}
}

// persistはロック中に呼ぶ
func (s *CartStore) persist(ctx context.Context) {
	b, err := json.Marshal(s.state)
	if err != nil {
		s.log.Warn("cart encode failed", logger.Fields{"error": err.Error()})
		return
	}
	if err := s.store.Set(context.WithoutCancel(ctx), kv.KeyCartState, string(b), 0); err != nil {
		s.log.Warn("cart persist failed", logger.Fields{"error": err.Error()})
	}
}

func (s *CartStore) AddItem(ctx context.Context, p model.CartProduct, size, color string, qty int) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Add(p, size, color, qty)
	s.persist(ctx)
	return s.state.Clone()
}

func (s *CartStore) RemoveItem(ctx context.Context, productID, size, color string) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Remove(model.CartKey{ProductID: productID, Size: size, Color: color})
	s.persist(ctx)
	return s.state.Clone()
}

func (s *CartStore) UpdateQuantity(ctx context.Context, productID, size, color string, qty int) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.SetQuantity(model.CartKey{ProductID: productID, Size: size, Color: color}, qty)
	s.persist(ctx)
	return s.state.Clone()
}

func (s *CartStore) Clear(ctx context.Context) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Clear()
	s.persist(ctx)
	return s.state.Clone()
}

// RemoveLinesは注文した明細の数量だけ落とす
func (s *CartStore) RemoveLines(ctx context.Context, items []model.CartLineItem) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Subtract(items)
	s.persist(ctx)
	return s.state.Clone()
}

// LockCheckoutは戻り値の関数で解放する
func (s *CartStore) LockCheckout() (unlock func()) {
	s.checkoutMu.Lock()
	return s.checkoutMu.Unlock
}

// パネルの開閉は保存しない
func (s *CartStore) Open() model.CartState   { return s.flag(func(c *model.CartState) { c.Open() }) }
func (s *CartStore) Close() model.CartState  { return s.flag(func(c *model.CartState) { c.Close() }) }
func (s *CartStore) Toggle() model.CartState { return s.flag(func(c *model.CartState) { c.Toggle() }) }

func (s *CartStore) flag(fn func(c *model.CartState)) model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state.Clone()
}

func (s *CartStore) Snapshot() model.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems()
}

func (s *CartStore) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalPrice()
}

// CartSessionsはセッションIDごとのCartStore
type CartSessions = SessionRegistry[*CartStore]

func NewCartSessions(store kv.Store, log logger.Logger) *CartSessions {
	return NewSessionRegistry(func(ctx context.Context, sessionID string) *CartStore {
		return NewCartStore(ctx, kv.Namespace(store, sessionID), log)
	})
}
