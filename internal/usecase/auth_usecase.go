package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/pkg/logger"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//409 競合
	ErrConflict = errors.New("conflict")
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash string, plain string) error
}

// アクセストークンの発行
type TokenIssuer interface {
	Issue(id model.Identity) (string, time.Time, error)
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptPasswordHasher) Compare(hash string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

type MeResponse struct {
	User  model.User    `json:"user"`
	Roles model.RoleSet `json:"roles"`
}

type AuthUsecase struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	resolver  *RoleResolver
	hasher    PasswordHasher
	issuer    TokenIssuer
	validator AuthValidator
	log       logger.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	roles repository.RoleRepository,
	resolver *RoleResolver,
	hasher PasswordHasher,
	issuer TokenIssuer,
	validator AuthValidator,
	log logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		roles:     roles,
		resolver:  resolver,
		hasher:    hasher,
		issuer:    issuer,
		validator: validator,
		log:       log,
	}
}

func validationToHTTP(err error) error {
	switch {
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, strings.TrimPrefix(err.Error(), ErrConflict.Error()+": "))
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrValidation.Error()+": "))
	}
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}

// Registerはユーザーを作って初期ロールuserを付ける
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password); err != nil {
		return model.User{}, validationToHTTP(err)
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	hash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(req.Email),
		PasswordHash: hash,
	}
	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = &name
	}

	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, NewHTTPError(http.StatusConflict, "email already exists")
		}
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// ロール付与の失敗で登録自体は失敗にしない
	if err := u.roles.Assign(ctx, user.ID, model.RoleUser); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		u.log.Error("assign default role failed", err, logger.Fields{"user_id": user.ID})
	}

	return *user, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (AuthLoginResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return AuthLoginResponse{}, validationToHTTP(err)
	}

	user, err := u.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return AuthLoginResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	tok, exp, err := u.issuer.Issue(user.Identity())
	if err != nil {
		return AuthLoginResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.users.TouchLastLogin(ctx, user.ID); err != nil {
		u.log.Warn("touch last login failed", logger.Fields{"user_id": user.ID, "error": err.Error()})
	}

	return AuthLoginResponse{User: user, AccessToken: tok, ExpiresAt: exp}, nil
}

// Meはプロフィールとロール
func (u *AuthUsecase) Me(ctx context.Context, id model.Identity) (MeResponse, error) {
	user, err := u.users.FindByID(ctx, id.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return MeResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return MeResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	res := u.resolver.Resolve(ctx, model.AuthState{Identity: &id})
	return MeResponse{User: user, Roles: res.Roles}, nil
}
