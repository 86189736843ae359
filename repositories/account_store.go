package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shankarbhopany2-max/shankar-todo-application/internal/apperr"
	"github.com/shankarbhopany2-max/shankar-todo-application/models"
)

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByID(ctx context.Context, id uint) (models.Account, error)
}

type GormAccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{db: db}
}

// Create inserts the account. A duplicate email yields apperr.ErrConflict.
func (s *GormAccountStore) Create(ctx context.Context, account *models.Account) error {
	err := s.db.WithContext(ctx).Create(account).Error
	if isDuplicate(err) {
		return apperr.New(apperr.ErrConflict, "Email already exists")
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *GormAccountStore) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&account).Error
	return account, notFound(err, "find account by email")
}

func (s *GormAccountStore) FindByID(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).First(&account, id).Error
	return account, notFound(err, "find account by id")
}

func notFound(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFoundOrForbidden)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isDuplicate recognizes unique-index violations. Drivers without error
// translation still report them in the message.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
