package repositories

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/shankarbhopany2-max/shankar-todo-application/internal/apperr"
	"github.com/shankarbhopany2-max/shankar-todo-application/models"
)

// TaskStore is the ownership-scoped access path to tasks. Every method takes
// the caller's account id and filters by it; a task id alone never reaches a
// row owned by someone else.
type TaskStore interface {
	ListFor(ctx context.Context, accountID uint) ([]models.Task, error)
	Add(ctx context.Context, accountID uint, title, description string) (models.Task, error)
	ToggleCompletion(ctx context.Context, accountID, taskID uint) (bool, error)
	Delete(ctx context.Context, accountID, taskID uint) (bool, error)
}

type GormTaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

// ListFor returns the account's tasks, newest first.
func (s *GormTaskStore) ListFor(ctx context.Context, accountID uint) ([]models.Task, error) {
	tasks := make([]models.Task, 0)
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *GormTaskStore) Add(ctx context.Context, accountID uint, title, description string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, apperr.New(apperr.ErrValidation, "Title is required")
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return models.Task{}, apperr.Newf(apperr.ErrValidation, "Title must be at most %d characters", models.MaxTitleLength)
	}

	task := models.Task{
		Title:       title,
		Description: strings.TrimSpace(description),
		AccountID:   accountID,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ToggleCompletion flips the completed flag in a single statement so two
// concurrent toggles are serialized by the store. It reports false, with no
// error, when the task does not exist or belongs to another account.
func (s *GormTaskStore) ToggleCompletion(ctx context.Context, accountID, taskID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND account_id = ?", taskID, accountID).
		Update("completed", gorm.Expr("NOT completed"))
	if res.Error != nil {
		return false, fmt.Errorf("toggle task %d: %w", taskID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes the task permanently. Misses are reported as false like
// ToggleCompletion.
func (s *GormTaskStore) Delete(ctx context.Context, accountID, taskID uint) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", taskID, accountID).
		Delete(&models.Task{})
	if res.Error != nil {
		return false, fmt.Errorf("delete task %d: %w", taskID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
