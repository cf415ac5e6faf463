package models

import "time"

type UserRole string // Роль пользователя

const (
	RegularUser UserRole = "user"
	AdminUser   UserRole = "admin"
)

// User представляет пользователя сервиса. Учетные записи создаются внешним
// сервисом авторизации; здесь они только читаются для выборок и PDF.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CompanyName string    `json:"company_name,omitempty"`
	Role        UserRole  `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}
