package models

// Form payloads posted by the login/register and task views.

type RegisterForm struct {
	FullName        string `json:"full_name" form:"full_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type LoginForm struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type TaskForm struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}
