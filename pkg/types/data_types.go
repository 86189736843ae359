package types

import "time"

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type AccountView struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type TaskView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthView is handed to the login/register view.
type AuthView struct {
	Flashes []Flash `json:"flashes"`
}

// TodoView is handed to the task list view.
type TodoView struct {
	Account AccountView `json:"account"`
	Tasks   []TaskView  `json:"tasks"`
	Flashes []Flash     `json:"flashes"`
}
