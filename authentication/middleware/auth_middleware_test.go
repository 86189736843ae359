package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/session"
	"github.com/shankarbhopany2-max/shankar-todo-application/internal/logger"
)

func newGuardedApp(t *testing.T) (*fiber.App, *session.Manager) {
	t.Helper()

	sessions, err := session.NewManager(session.Config{Secret: "test-secret"}, session.NewMemoryStore(), logger.Discard())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	app := fiber.New()
	app.Use(RequestLogger(logger.Discard()))
	app.Get("/private", SessionAuthMiddleware(sessions), func(c *fiber.Ctx) error {
		id, ok := AccountID(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(strconv.FormatUint(uint64(id), 10))
	})
	return app, sessions
}

func TestSessionAuthMiddleware_RedirectsAnonymous(t *testing.T) {
	app, _ := newGuardedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusFound)
	}
	if loc := resp.Header.Get("Location"); loc != AuthEntryPoint {
		t.Fatalf("Location = %q, want %q", loc, AuthEntryPoint)
	}
}

func TestSessionAuthMiddleware_StoresAccountID(t *testing.T) {
	app, sessions := newGuardedApp(t)

	token, err := sessions.Create(context.Background(), session.Record{AccountID: 42, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if got := string(body); got != "42" {
		t.Fatalf("body = %q, want %q", got, "42")
	}
}

func TestSessionAuthMiddleware_RejectsDestroyedSession(t *testing.T) {
	app, sessions := newGuardedApp(t)
	ctx := context.Background()

	token, err := sessions.Create(ctx, session.Record{AccountID: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := sessions.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: token})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusFound)
	}
}
