package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/shankarbhopany2-max/shankar-todo-application/internal/logger"
	"github.com/shankarbhopany2-max/shankar-todo-application/internal/util"
	"github.com/shankarbhopany2-max/shankar-todo-application/pkg/types"
)

const testSecret = "session-test-secret"

func newTestManager(t *testing.T, store Store) *Manager {
	t.Helper()
	m, err := NewManager(Config{Secret: testSecret, TTL: time.Hour}, store, logger.Discard())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager(Config{}, NewMemoryStore(), logger.Discard()); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestManager_Lifecycle(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := newTestManager(t, store)

			token, err := m.Create(ctx, Record{AccountID: 7, Email: "a@x.com", FullName: "Alice"})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			rec, err := m.Resolve(ctx, token)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if rec.AccountID != 7 || rec.FullName != "Alice" || rec.CreatedAt.IsZero() {
				t.Fatalf("unexpected record: %+v", rec)
			}

			if err := m.Destroy(ctx, token); err != nil {
				t.Fatalf("Destroy: %v", err)
			}
			if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrAbsent) {
				t.Fatalf("expected ErrAbsent after Destroy, got %v", err)
			}
			if err := m.Destroy(ctx, token); err != nil {
				t.Fatalf("second Destroy: %v", err)
			}
		})
	}
}

func TestManager_CreateRejectsZeroAccount(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	if _, err := m.Create(context.Background(), Record{}); err == nil {
		t.Fatalf("expected error for zero account id")
	}
}

func TestManager_ResolveRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := newTestManager(t, store)

	token, err := m.Create(ctx, Record{AccountID: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other, err := NewManager(Config{Secret: "someone-else", TTL: time.Hour}, store, logger.Discard())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	forged, err := other.Create(ctx, Record{AccountID: 8})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	for name, tok := range map[string]string{
		"empty":    "",
		"garbage":  "abc",
		"forged":   forged,
		"tampered": tampered,
	} {
		if _, err := m.Resolve(ctx, tok); !errors.Is(err, ErrAbsent) {
			t.Fatalf("%s: expected ErrAbsent, got %v", name, err)
		}
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	if err := store.Save(ctx, "sid", Record{AccountID: 1}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := store.Load(ctx, "sid"); err != nil {
		t.Fatalf("Load before expiry: %v", err)
	}

	now = now.Add(time.Minute)
	if _, err := store.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be dropped, %d left", store.Len())
	}
}

func TestRedisStore_ExpiryAndKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	if err := store.Save(ctx, "sid", Record{AccountID: 1, Email: "a@x.com"}, time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists("session:sid") {
		t.Fatalf("expected key session:sid")
	}
	if ttl := mr.TTL("session:sid"); ttl != time.Minute {
		t.Fatalf("expected 1m TTL, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Load(ctx, "sid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestRedisStore_UnavailableIsNotAbsent(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	m := newTestManager(t, store)

	token, err := m.Create(ctx, Record{AccountID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	mr.Close()
	_, err = m.Resolve(ctx, token)
	if err == nil || errors.Is(err, ErrAbsent) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func newTestApp(m *Manager) *fiber.App {
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		if err := m.Login(c, Record{AccountID: 3, FullName: "Carol"}); err != nil {
			return err
		}
		m.Flash(c, types.FlashSuccess, "Login successful!")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		rec, ok := m.Current(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(fiber.Map{"account_id": rec.AccountID, "flashes": m.Flashes(c)})
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		if err := m.Logout(c); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func cookieValue(resp *http.Response, name string) (string, bool) {
	for _, ck := range resp.Cookies() {
		if ck.Name == name {
			return ck.Value, true
		}
	}
	return "", false
}

func TestManager_CookieFlow(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	app := newTestApp(m)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil), -1)
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	token, ok := cookieValue(resp, DefaultCookieName)
	if !ok || token == "" {
		t.Fatalf("expected session cookie on login")
	}
	flash, ok := cookieValue(resp, FlashCookieName)
	if !ok || flash == "" {
		t.Fatalf("expected flash cookie on login")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: token})
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: flash})
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("whoami request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if v, ok := cookieValue(resp, FlashCookieName); !ok || v != "" {
		t.Fatalf("expected flash cookie to be cleared, got %q (set=%v)", v, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: token})
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("logout request: %v", err)
	}

	// The old cookie value is dead even if the browser keeps sending it.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: token})
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("whoami request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestManager_FlashKeepsNewestWhenUnread(t *testing.T) {
	m := newTestManager(t, NewMemoryStore())
	app := fiber.New()
	app.Get("/note/:n", func(c *fiber.Ctx) error {
		m.Flash(c, types.FlashSuccess, "note "+c.Params("n"))
		return c.SendStatus(fiber.StatusNoContent)
	})

	var flash string
	for i := 1; i <= 8; i++ {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/note/%d", i), nil)
		if flash != "" {
			req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: flash})
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		v, ok := cookieValue(resp, FlashCookieName)
		if !ok || v == "" {
			t.Fatalf("request %d: expected flash cookie", i)
		}
		flash = v
	}

	flashes, err := util.ParseFlashToken(flash, testSecret)
	if err != nil {
		t.Fatalf("ParseFlashToken: %v", err)
	}
	if len(flashes) != maxPendingFlashes {
		t.Fatalf("expected %d pending flashes, got %d", maxPendingFlashes, len(flashes))
	}
	if first, last := flashes[0].Message, flashes[len(flashes)-1].Message; first != "note 4" || last != "note 8" {
		t.Fatalf("expected notes 4..8, got %q..%q", first, last)
	}
}
