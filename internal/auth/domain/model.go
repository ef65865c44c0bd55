package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is an account that can buy and download workflows. Admin accounts
// additionally reach the dashboard endpoints.
type User struct {
	ID           snowflake.ID `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Phone        string       `json:"phone"`
	IsAdmin      bool         `json:"is_admin"`
	IsActive     bool         `json:"is_active"`
	IsVerified   bool         `json:"is_verified"`
	LoginCount   int64        `json:"login_count"`
	LastLogin    *time.Time   `json:"last_login,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token string `json:"access_token"`
	User  User   `json:"user"`
}
