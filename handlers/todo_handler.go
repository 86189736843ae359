package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/middleware"
	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/session"
	forms "github.com/shankarbhopany2-max/shankar-todo-application/internal"
	"github.com/shankarbhopany2-max/shankar-todo-application/internal/apperr"
	"github.com/shankarbhopany2-max/shankar-todo-application/models"
	"github.com/shankarbhopany2-max/shankar-todo-application/pkg/types"
	"github.com/shankarbhopany2-max/shankar-todo-application/repositories"
)

const todoPath = "/todo"

// TodoHandler serves the task list. It is mounted behind
// middleware.SessionAuthMiddleware, so every action has an account id.
type TodoHandler struct {
	accounts repositories.AccountStore
	tasks    repositories.TaskStore
	sessions *session.Manager
	log      *logrus.Entry
}

func NewTodoHandler(accounts repositories.AccountStore, tasks repositories.TaskStore, sessions *session.Manager, log *logrus.Entry) *TodoHandler {
	return &TodoHandler{accounts: accounts, tasks: tasks, sessions: sessions, log: log}
}

// List handles GET /todo. A session whose account no longer exists is
// ended and the visitor sent back to the auth page.
func (h *TodoHandler) List(c *fiber.Ctx) error {
	const op = "handlers.TodoHandler.List"

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Redirect(middleware.AuthEntryPoint, fiber.StatusFound)
	}
	log := h.log.WithFields(logrus.Fields{"operation": op, "account_id": accountID})

	account, err := h.accounts.FindByID(c.UserContext(), accountID)
	if errors.Is(err, apperr.ErrNotFoundOrForbidden) {
		log.Warn("session refers to a missing account")
		if err := h.sessions.Logout(c); err != nil {
			log.WithError(err).Error("failed to destroy session")
		}
		return c.Redirect(middleware.AuthEntryPoint, fiber.StatusFound)
	}
	if err != nil {
		log.WithError(err).Error("failed to load account")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load account")
	}

	tasks, err := h.tasks.ListFor(c.UserContext(), accountID)
	if err != nil {
		log.WithError(err).Error("failed to list tasks")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load tasks")
	}

	return c.JSON(types.TodoView{
		Account: types.AccountView{ID: account.ID, Email: account.Email, FullName: account.FullName},
		Tasks:   taskViews(tasks),
		Flashes: h.sessions.Flashes(c),
	})
}

// Add handles POST /add_todo
func (h *TodoHandler) Add(c *fiber.Ctx) error {
	const op = "handlers.TodoHandler.Add"

	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Redirect(middleware.AuthEntryPoint, fiber.StatusFound)
	}
	log := h.log.WithFields(logrus.Fields{"operation": op, "account_id": accountID})

	var form forms.TaskForm
	if err := c.BodyParser(&form); err != nil {
		log.WithError(err).Warn("failed to parse request body")
		h.sessions.Flash(c, types.FlashError, "Invalid task form")
		return c.Redirect(todoPath, fiber.StatusFound)
	}

	task, err := h.tasks.Add(c.UserContext(), accountID, form.Title, form.Description)
	if err != nil {
		if !apperr.IsUserError(err) {
			log.WithError(err).Error("failed to add task")
		}
		h.sessions.Flash(c, types.FlashError, apperr.Message(err))
		return c.Redirect(todoPath, fiber.StatusFound)
	}

	log.WithField("task_id", task.ID).Debug("task added")
	h.sessions.Flash(c, types.FlashSuccess, "Todo added successfully!")
	return c.Redirect(todoPath, fiber.StatusFound)
}

// Update handles POST /update_todo/:id by toggling completion. Ids that are
// missing or owned by someone else change nothing and say nothing.
func (h *TodoHandler) Update(c *fiber.Ctx) error {
	const op = "handlers.TodoHandler.Update"
	return h.ownedTaskAction(c, op, h.tasks.ToggleCompletion, "Todo updated successfully!")
}

// Delete handles GET /delete_todo/:id with the same silent-miss rule as Update.
func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	const op = "handlers.TodoHandler.Delete"
	return h.ownedTaskAction(c, op, h.tasks.Delete, "Todo deleted successfully!")
}

type taskAction func(ctx context.Context, accountID, taskID uint) (bool, error)

func (h *TodoHandler) ownedTaskAction(c *fiber.Ctx, op string, action taskAction, success string) error {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		return c.Redirect(middleware.AuthEntryPoint, fiber.StatusFound)
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect(todoPath, fiber.StatusFound)
	}

	changed, err := action(c.UserContext(), accountID, uint(id))
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{"operation": op, "account_id": accountID, "task_id": id}).Error("task action failed")
		h.sessions.Flash(c, types.FlashError, apperr.Message(err))
		return c.Redirect(todoPath, fiber.StatusFound)
	}
	if changed {
		h.sessions.Flash(c, types.FlashSuccess, success)
	}
	return c.Redirect(todoPath, fiber.StatusFound)
}

func taskViews(tasks []models.Task) []types.TaskView {
	views := make([]types.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, types.TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			CreatedAt:   t.CreatedAt,
		})
	}
	return views
}
