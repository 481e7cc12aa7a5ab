package validator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/repository"
	"storefront/internal/usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) usecase.AuthValidator {
	return &authValidator{users: users}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailRe.MatchString(s)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", usecase.ErrValidation, msg)
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return invalid("email and password are required")
	}
	if !isEmailLike(email) {
		return invalid("invalid email")
	}
	// パスワード最低文字数（8）
	if len(password) < 8 {
		return invalid("password must be at least 8 characters")
	}

	// email重複チェック（DBが必要）
	_, err := v.users.FindByEmail(ctx, email)
	if err == nil {
		return fmt.Errorf("%w: email already exists", usecase.ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return invalid("email and password are required")
	}
	if !isEmailLike(email) {
		return invalid("invalid email")
	}
	return nil
}
