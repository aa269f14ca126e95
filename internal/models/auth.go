package models

import "time"

// User — пользователь системы, как его отдаёт удалённый API.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"isActive"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Tokens — пара bearer-токенов, выдаваемая при аутентификации.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthPayload — data-часть ответа login/register: пользователь + пара токенов.
type AuthPayload struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// ProfilePayload — data-часть ответа GET /auth/profile.
type ProfilePayload struct {
	User User `json:"user"`
}

// RefreshPayload — data-часть ответа POST /auth/refresh-token.
// RefreshToken опционален: сервер может не ротировать refresh-токен.
type RefreshPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// RefreshRequest — тело запроса обмена refresh-токена.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
