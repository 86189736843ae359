package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/accounts"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/session"
	forms "github.com/shankarbhopany2-max/shankar-todo-application/internal"
	"github.com/shankarbhopany2-max/shankar-todo-application/internal/apperr"
	"github.com/shankarbhopany2-max/shankar-todo-application/pkg/types"
)

const (
	authPath = "/auth"
	todoPath = "/todo"
)

// AuthController drives the Anonymous/Authenticated state machine.
type AuthController struct {
	accounts *accounts.Service
	sessions *session.Manager
	log      *logrus.Entry
}

func NewAuthController(svc *accounts.Service, sessions *session.Manager, log *logrus.Entry) *AuthController {
	return &AuthController{accounts: svc, sessions: sessions, log: log}
}

// Index sends authenticated visitors to their list and everyone else to the
// auth page.
func (h *AuthController) Index(c *fiber.Ctx) error {
	if _, ok := h.sessions.Current(c); ok {
		return c.Redirect(todoPath, fiber.StatusFound)
	}
	return c.Redirect(authPath, fiber.StatusFound)
}

// AuthPage renders the login/register view for anonymous visitors.
func (h *AuthController) AuthPage(c *fiber.Ctx) error {
	if _, ok := h.sessions.Current(c); ok {
		return c.Redirect(todoPath, fiber.StatusFound)
	}
	return c.JSON(types.AuthView{Flashes: h.sessions.Flashes(c)})
}

// Register handles user registration. Success leaves the visitor anonymous.
func (h *AuthController) Register(c *fiber.Ctx) error {
	const op = "controllers.AuthController.Register"
	log := h.log.WithField("operation", op)
	log.Debug("Received a registration request")

	var form forms.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		log.WithError(err).Warn("failed to parse request body")
		h.sessions.Flash(c, types.FlashError, "Invalid registration form")
		return c.Redirect(authPath, fiber.StatusFound)
	}

	_, err := h.accounts.Register(c.UserContext(), accounts.RegisterInput{
		FullName:        form.FullName,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		h.flashError(c, log, err)
		return c.Redirect(authPath, fiber.StatusFound)
	}

	h.sessions.Flash(c, types.FlashSuccess, "Registration successful! Please login.")
	return c.Redirect(authPath, fiber.StatusFound)
}

// Login verifies credentials and establishes the session.
func (h *AuthController) Login(c *fiber.Ctx) error {
	const op = "controllers.AuthController.Login"
	log := h.log.WithField("operation", op)
	log.Debug("Received a login request")

	var form forms.LoginForm
	if err := c.BodyParser(&form); err != nil {
		log.WithError(err).Warn("failed to parse request body")
		h.sessions.Flash(c, types.FlashError, apperr.Message(apperr.ErrAuthentication))
		return c.Redirect(authPath, fiber.StatusFound)
	}

	account, err := h.accounts.Login(c.UserContext(), form.Email, form.Password)
	if err != nil {
		h.flashError(c, log, err)
		return c.Redirect(authPath, fiber.StatusFound)
	}

	err = h.sessions.Login(c, session.Record{
		AccountID: account.ID,
		Email:     account.Email,
		FullName:  account.FullName,
	})
	if err != nil {
		h.flashError(c, log, err)
		return c.Redirect(authPath, fiber.StatusFound)
	}

	log.WithField("account_id", account.ID).Info("login successful")
	h.sessions.Flash(c, types.FlashSuccess, "Login successful!")
	return c.Redirect(todoPath, fiber.StatusFound)
}

// Logout clears the session whether or not one exists.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	const op = "controllers.AuthController.Logout"

	if err := h.sessions.Logout(c); err != nil {
		h.log.WithError(err).WithField("operation", op).Error("failed to destroy session")
	}

	h.sessions.Flash(c, types.FlashSuccess, "Logged out successfully!")
	return c.Redirect(authPath, fiber.StatusFound)
}

func (h *AuthController) flashError(c *fiber.Ctx, log *logrus.Entry, err error) {
	if !apperr.IsUserError(err) {
		log.WithError(err).Error("request failed")
	}
	h.sessions.Flash(c, types.FlashError, apperr.Message(err))
}
