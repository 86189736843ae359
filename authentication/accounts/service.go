package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/internal/apperr"
	"github.com/shankarbhopany2-max/shankar-todo-application/models"
	"github.com/shankarbhopany2-max/shankar-todo-application/repositories"
)

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	VerifyDummy(plaintext string) bool
}

type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Service implements registration and login. It never creates sessions;
// a successful Register leaves the caller anonymous.
type Service struct {
	accounts repositories.AccountStore
	hasher   PasswordHasher
	log      *logrus.Entry
}

func NewService(accounts repositories.AccountStore, hasher PasswordHasher, log *logrus.Entry) *Service {
	return &Service{accounts: accounts, hasher: hasher, log: log}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (models.Account, error) {
	const op = "accounts.Service.Register"

	fullName := strings.TrimSpace(in.FullName)
	email := NormalizeEmail(in.Email)

	switch {
	case fullName == "":
		return models.Account{}, apperr.New(apperr.ErrValidation, "Full name is required")
	case email == "":
		return models.Account{}, apperr.New(apperr.ErrValidation, "Email is required")
	case in.Password == "":
		return models.Account{}, apperr.New(apperr.ErrValidation, "Password is required")
	case in.Password != in.ConfirmPassword:
		return models.Account{}, apperr.New(apperr.ErrValidation, "Passwords do not match")
	}

	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return models.Account{}, apperr.New(apperr.ErrConflict, "Email already exists")
	case !errors.Is(err, apperr.ErrNotFoundOrForbidden):
		return models.Account{}, fmt.Errorf("%s: %w", op, err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Account{}, fmt.Errorf("%s: hash password: %w", op, err)
	}

	account := models.Account{
		Email:        email,
		PasswordHash: digest,
		FullName:     fullName,
	}
	// The unique index still guards against a concurrent registration.
	if err := s.accounts.Create(ctx, &account); err != nil {
		return models.Account{}, err
	}

	s.log.WithFields(logrus.Fields{"operation": op, "account_id": account.ID}).Info("account registered")
	return account, nil
}

// Login returns the account matching the credentials. Every failure, unknown
// email or wrong password alike, is the same apperr.ErrAuthentication.
func (s *Service) Login(ctx context.Context, email, password string) (models.Account, error) {
	const op = "accounts.Service.Login"

	invalid := apperr.New(apperr.ErrAuthentication, "Invalid email or password")

	account, err := s.accounts.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		s.hasher.VerifyDummy(password)
		if !errors.Is(err, apperr.ErrNotFoundOrForbidden) {
			s.log.WithError(err).WithField("operation", op).Error("account lookup failed")
			return models.Account{}, fmt.Errorf("%s: %w", op, err)
		}
		return models.Account{}, invalid
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return models.Account{}, invalid
	}
	return account, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
