package repository

import (
	"errors"

	repo "storefront/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// gorm/pgxのエラーをrepositoryのエラーに寄せる
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return repo.ErrDuplicate
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	return err
}

// 0件更新は「対象がない」
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
