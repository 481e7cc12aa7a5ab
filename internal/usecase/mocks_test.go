package usecase

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/kv"
	repo "storefront/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository モック
// =====================

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) ListByUserID(ctx context.Context, userID string) ([]model.Role, error) {
	args := m.Called(ctx, userID)
	roles, _ := args.Get(0).([]model.Role)
	return roles, args.Error(1)
}

func (m *MockRoleRepository) ListAll(ctx context.Context) ([]model.UserRole, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]model.UserRole)
	return rows, args.Error(1)
}

func (m *MockRoleRepository) Assign(ctx context.Context, userID string, role model.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockRoleRepository) Revoke(ctx context.Context, userID string, role model.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

var _ repo.RoleRepository = (*MockRoleRepository)(nil)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID string) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	u, _ := args.Get(0).([]model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	args := m.Called(ctx, ids)
	u, _ := args.Get(0).([]model.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) TouchLastLogin(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

var _ repo.UserRepository = (*MockUserRepository)(nil)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListPublic(ctx context.Context, f repo.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	p, _ := args.Get(0).([]model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, productID string) (model.Product, error) {
	args := m.Called(ctx, productID)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) ListByShopID(ctx context.Context, shopID string) ([]model.Product, error) {
	args := m.Called(ctx, shopID)
	p, _ := args.Get(0).([]model.Product)
	return p, args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *MockProductRepository) SetActive(ctx context.Context, productID string, active bool) error {
	return m.Called(ctx, productID, active).Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockProductRepository) CountByShopID(ctx context.Context, shopID string) (int64, error) {
	args := m.Called(ctx, shopID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

var _ repo.ProductRepository = (*MockProductRepository)(nil)

type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) Create(ctx context.Context, shop *model.Shop) error {
	return m.Called(ctx, shop).Error(0)
}

func (m *MockShopRepository) FindByID(ctx context.Context, shopID string) (model.Shop, error) {
	args := m.Called(ctx, shopID)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *MockShopRepository) FindActiveBySlug(ctx context.Context, slug string) (model.Shop, error) {
	args := m.Called(ctx, slug)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *MockShopRepository) FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *MockShopRepository) List(ctx context.Context) ([]model.Shop, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]model.Shop)
	return s, args.Error(1)
}

func (m *MockShopRepository) UpdateSettings(ctx context.Context, shopID string, s repo.ShopSettings) error {
	return m.Called(ctx, shopID, s).Error(0)
}

func (m *MockShopRepository) SetActive(ctx context.Context, shopID string, active bool) error {
	return m.Called(ctx, shopID, active).Error(0)
}

func (m *MockShopRepository) Counts(ctx context.Context) (repo.ShopCounts, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).(repo.ShopCounts)
	return c, args.Error(1)
}

var _ repo.ShopRepository = (*MockShopRepository)(nil)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockOrderRepository) ListByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUser(ctx context.Context, orderID string, userID string) (model.Order, error) {
	args := m.Called(ctx, orderID, userID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByShopID(ctx context.Context, shopID string) ([]model.Order, error) {
	args := m.Called(ctx, shopID)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindByIDForShop(ctx context.Context, orderID string, shopID string) (model.Order, error) {
	args := m.Called(ctx, orderID, shopID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

var _ repo.OrderRepository = (*MockOrderRepository)(nil)

type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) ListByUserID(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	args := m.Called(ctx, userID)
	w, _ := args.Get(0).([]model.WishlistItem)
	return w, args.Error(1)
}

func (m *MockWishlistRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockWishlistRepository) Remove(ctx context.Context, userID string, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

var _ repo.WishlistRepository = (*MockWishlistRepository)(nil)

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	l, _ := args.Get(0).([]model.AuditLog)
	return l, args.Error(1)
}

var _ repo.AuditLogRepository = (*MockAuditLogRepository)(nil)

// =====================
// Tx モック（fnをそのまま実行する）
// =====================

type fakeTxRepos struct {
	orders   repo.OrderRepository
	products repo.ProductRepository
}

func (r fakeTxRepos) Orders() repo.OrderRepository     { return r.orders }
func (r fakeTxRepos) Products() repo.ProductRepository { return r.products }

type fakeTxManager struct {
	repos fakeTxRepos
	calls int
}

func (m *fakeTxManager) WithinTx(_ context.Context, fn func(r repo.TxRepos) error) error {
	m.calls++
	return fn(m.repos)
}

var _ repo.TransactionManager = (*fakeTxManager)(nil)

// =====================
// その他
// =====================

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return m.err
}

type stubCheckoutValidator struct {
	err error
}

func (v stubCheckoutValidator) ValidateCheckout(CheckoutInput) error { return v.err }

// testStoreはMemoryStoreに書き込み失敗とフックを足したもの
type testStore struct {
	*kv.MemoryStore

	mu      sync.Mutex
	keys    map[string]struct{}
	failSet error
	// Setの直前に呼ばれる
	beforeSet func(key string)
}

func newTestStore() *testStore {
	return &testStore{MemoryStore: kv.NewMemoryStore(), keys: map[string]struct{}{}}
}

func (s *testStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if s.beforeSet != nil {
		s.beforeSet(key)
	}
	if s.failSet != nil {
		return s.failSet
	}
	if err := s.MemoryStore.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *testStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return s.MemoryStore.Delete(ctx, key)
}

// Keysは書き込まれて消されていないキー
func (s *testStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

// HTTPErrorのステータスを取り出す
func statusOf(err error) int {
	if he, ok := AsHTTPError(err); ok {
		return he.Status
	}
	return 0
}
