package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/pkg/logger"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
)

// wishlistMembershipはユーザーのお気に入り商品IDの集合（メモリ上）
type wishlistMembership struct {
	mu     sync.Mutex
	loaded bool
	ids    map[string]bool
}

type WishlistUsecase struct {
	wishlists repo.WishlistRepository
	products  repo.ProductRepository
	members   *SessionRegistry[*wishlistMembership]
	log       logger.Logger
}

func NewWishlistUsecase(wishlists repo.WishlistRepository, products repo.ProductRepository, log logger.Logger) *WishlistUsecase {
	return &WishlistUsecase{
		wishlists: wishlists,
		products:  products,
		members: NewSessionRegistry(func(context.Context, string) *wishlistMembership {
			return &wishlistMembership{ids: map[string]bool{}}
		}),
		log: log,
	}
}

type WishlistToggleOutput struct {
	ProductID  string `json:"product_id"`
	InWishlist bool   `json:"in_wishlist"`
	Notice     Notice `json:"notice"`
}

// Evictはしばらく使われていないユーザーの集合を捨てる
func (u *WishlistUsecase) Evict(idle time.Duration) int { return u.members.Evict(idle) }

func (u *WishlistUsecase) List(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	items, err := u.wishlists.ListByUserID(ctx, userID)
	if err != nil {
		return []model.WishlistItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 取得できたので集合も更新しておく
	m := u.members.For(ctx, userID)
	m.mu.Lock()
	m.ids = make(map[string]bool, len(items))
	for _, it := range items {
		m.ids[it.ProductID] = true
	}
	m.loaded = true
	m.mu.Unlock()

	return items, nil
}

func (u *WishlistUsecase) ensureProduct(ctx context.Context, productID string) error {
	_, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 追加。既にあればinfo
func (u *WishlistUsecase) Add(ctx context.Context, userID string, productID string) (Notice, error) {
	if err := u.ensureProduct(ctx, productID); err != nil {
		return Notice{}, err
	}

	n, err := u.add(ctx, userID, productID)
	if err != nil {
		return Notice{}, err
	}
	u.remember(ctx, userID, productID, true)
	return n, nil
}

func (u *WishlistUsecase) add(ctx context.Context, userID string, productID string) (Notice, error) {
	err := u.wishlists.Add(ctx, &model.WishlistItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return infoNotice("Item already in wishlist"), nil
	}
	if err != nil {
		u.log.Error("wishlist add failed", err, logger.Fields{"user_id": userID, "product_id": productID})
		return Notice{}, NewHTTPError(http.StatusInternalServerError, "Failed to add to wishlist")
	}
	return successNotice("Added to wishlist"), nil
}

// 削除。無くても成功
func (u *WishlistUsecase) Remove(ctx context.Context, userID string, productID string) (Notice, error) {
	n, err := u.remove(ctx, userID, productID)
	if err != nil {
		return Notice{}, err
	}
	u.remember(ctx, userID, productID, false)
	return n, nil
}

func (u *WishlistUsecase) remove(ctx context.Context, userID string, productID string) (Notice, error) {
	err := u.wishlists.Remove(ctx, userID, productID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		u.log.Error("wishlist remove failed", err, logger.Fields{"user_id": userID, "product_id": productID})
		return Notice{}, NewHTTPError(http.StatusInternalServerError, "Failed to remove from wishlist")
	}
	return successNotice("Removed from wishlist"), nil
}

func (u *WishlistUsecase) remember(ctx context.Context, userID string, productID string, in bool) {
	m := u.members.For(ctx, userID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return
	}
	if in {
		m.ids[productID] = true
	} else {
		delete(m.ids, productID)
	}
}

// Toggleは先にメモリ上の集合を反転し、DBが失敗したら元に戻す
func (u *WishlistUsecase) Toggle(ctx context.Context, userID string, productID string) (WishlistToggleOutput, error) {
	m := u.members.For(ctx, userID)
	if err := u.load(ctx, userID, m); err != nil {
		return WishlistToggleOutput{}, err
	}

	m.mu.Lock()
	was := m.ids[productID]
	if was {
		delete(m.ids, productID)
	} else {
		m.ids[productID] = true
	}
	m.mu.Unlock()

	var (
		n   Notice
		err error
	)
	if was {
		n, err = u.remove(ctx, userID, productID)
	} else {
		if err = u.ensureProduct(ctx, productID); err == nil {
			n, err = u.add(ctx, userID, productID)
		}
	}

	if err != nil {
		// 失敗したので戻す
		m.mu.Lock()
		if was {
			m.ids[productID] = true
		} else {
			delete(m.ids, productID)
		}
		m.mu.Unlock()
		return WishlistToggleOutput{}, err
	}

	return WishlistToggleOutput{ProductID: productID, InWishlist: !was, Notice: n}, nil
}

func (u *WishlistUsecase) load(ctx context.Context, userID string, m *wishlistMembership) error {
	m.mu.Lock()
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}

	items, err := u.wishlists.ListByUserID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		m.ids = make(map[string]bool, len(items))
		for _, it := range items {
			m.ids[it.ProductID] = true
		}
		m.loaded = true
	}
	return nil
}
