package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pribylovaa/go-task-gateway/internal/models"
)

// Login обменивает креды на пользователя и пару токенов.
// Идёт без bearer-токена: 401 здесь означает "неверные креды", не refresh.
func (c *Client) Login(ctx context.Context, in models.LoginRequest) (*models.AuthPayload, error) {
	const op = "upstream.auth.Login"

	env, err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/login", in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var payload models.AuthPayload
	if err := decodeData(env, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payload, nil
}

func (c *Client) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthPayload, error) {
	const op = "upstream.auth.Register"

	env, err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/register", in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var payload models.AuthPayload
	if err := decodeData(env, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payload, nil
}

// Profile возвращает профиль владельца access-токена.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	const op = "upstream.auth.Profile"

	env, err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var payload models.ProfilePayload
	if err := decodeData(env, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &payload.User, nil
}

// Logout — best-effort уведомление сервера; локальная очистка сессии
// не зависит от его исхода.
func (c *Client) Logout(ctx context.Context) error {
	const op = "upstream.auth.Logout"

	if _, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) ChangePassword(ctx context.Context, in models.ChangePasswordRequest) error {
	const op = "upstream.auth.ChangePassword"

	if _, err := c.do(ctx, http.MethodPatch, "/auth/change-password", nil, in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
