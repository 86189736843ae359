package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/controllers"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/middleware"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/session"
	"github.com/shankarbhopany2-max/shankar-todo-application/handlers"
)

type Deps struct {
	Auth     *controllers.AuthController
	Todo     *handlers.TodoHandler
	Sessions *session.Manager
	Log      *logrus.Entry
}

// NewApp builds the fiber application with the full route table.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(deps.Log))

	SetupRoutes(app, deps)
	return app
}

func SetupRoutes(app *fiber.App, deps Deps) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	app.Get("/", deps.Auth.Index)
	app.Get("/auth", deps.Auth.AuthPage)
	app.Post("/login", deps.Auth.Login)
	app.Post("/register", deps.Auth.Register)
	app.Get("/logout", deps.Auth.Logout)

	// Protect routes with middleware
	requireSession := middleware.SessionAuthMiddleware(deps.Sessions)
	app.Get("/todo", requireSession, deps.Todo.List)
	app.Post("/add_todo", requireSession, deps.Todo.Add)
	app.Post("/update_todo/:id<int>", requireSession, deps.Todo.Update)
	app.Get("/delete_todo/:id<int>", requireSession, deps.Todo.Delete)
}
