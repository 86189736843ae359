package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/internal/util"
)

const (
	DefaultCookieName = "todo_session"
	DefaultTTL        = 24 * time.Hour

	localsRecord = "session"
)

// ErrAbsent is returned by Resolve when the token does not name a live
// session: missing, malformed, tampered, expired or already destroyed.
var ErrAbsent = errors.New("no valid session")

type Config struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// Manager ties browsers to accounts. The cookie carries a signed, opaque
// session id; the account lives in the Store, so Destroy is effective
// immediately for every copy of the cookie.
type Manager struct {
	cfg   Config
	store Store
	log   *logrus.Entry
	now   func() time.Time
}

func NewManager(cfg Config, store Store, log *logrus.Entry) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Manager{cfg: cfg, store: store, log: log, now: time.Now}, nil
}

// Create stores rec under a fresh id and returns the signed token for it.
func (m *Manager) Create(ctx context.Context, rec Record) (string, error) {
	if rec.AccountID == 0 {
		return "", errors.New("session for zero account id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = m.now().UTC()
	}

	id := uuid.NewString()
	if err := m.store.Save(ctx, id, rec, m.cfg.TTL); err != nil {
		return "", err
	}

	token, err := util.CreateSessionToken(id, rec.AccountID, m.cfg.Secret, m.cfg.TTL)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Resolve returns the session record behind token, or ErrAbsent. Other
// errors come from the store and mean the answer is unknown.
func (m *Manager) Resolve(ctx context.Context, token string) (Record, error) {
	if token == "" {
		return Record{}, ErrAbsent
	}

	id, accountID, err := util.ParseSessionToken(token, m.cfg.Secret)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrAbsent, err)
	}

	rec, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrAbsent
	}
	if err != nil {
		return Record{}, err
	}
	if rec.AccountID != accountID {
		return Record{}, fmt.Errorf("%w: account mismatch", ErrAbsent)
	}
	return rec, nil
}

// Destroy invalidates the session behind token. Tokens that do not verify
// have nothing to destroy.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	id, _, err := util.ParseSessionToken(token, m.cfg.Secret)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, id)
}

// Login creates a session and attaches it to the outgoing response.
func (m *Manager) Login(c *fiber.Ctx, rec Record) error {
	token, err := m.Create(c.UserContext(), rec)
	if err != nil {
		return err
	}
	c.Cookie(m.cookie(m.cfg.CookieName, token, m.now().Add(m.cfg.TTL)))
	c.Locals(localsRecord, rec)
	return nil
}

// Current resolves the request's session cookie. Store failures are logged
// and treated as no session.
func (m *Manager) Current(c *fiber.Ctx) (Record, bool) {
	if rec, ok := c.Locals(localsRecord).(Record); ok {
		return rec, true
	}

	rec, err := m.Resolve(c.UserContext(), c.Cookies(m.cfg.CookieName))
	if err != nil {
		if !errors.Is(err, ErrAbsent) {
			m.log.WithError(err).WithField("operation", "session.Manager.Current").Error("session lookup failed")
		}
		return Record{}, false
	}

	c.Locals(localsRecord, rec)
	return rec, true
}

// Logout destroys the request's session and expires the cookie.
func (m *Manager) Logout(c *fiber.Ctx) error {
	err := m.Destroy(c.UserContext(), c.Cookies(m.cfg.CookieName))
	c.Locals(localsRecord, nil)
	c.Cookie(m.cookie(m.cfg.CookieName, "", m.now().Add(-time.Hour)))
	return err
}

func (m *Manager) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
