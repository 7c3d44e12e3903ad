package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin представляет сотрудника админ-панели.
type Admin struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// RegisterRequest - запрос на регистрацию администратора.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest - запрос на аутентификацию администратора.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
