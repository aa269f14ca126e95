package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pribylovaa/go-task-gateway/internal/models"
)

// Админ-эндпойнты. Авторизация по роли — ответственность сервера;
// гейт маршрутов лишь не пускает не-админа на страницы.

func (c *Client) SystemStatistics(ctx context.Context) (*models.SystemStatistics, error) {
	const op = "upstream.admin.SystemStatistics"

	env, err := c.do(ctx, http.MethodGet, "/admin/statistics", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stats models.SystemStatistics
	if err := decodeData(env, &stats); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &stats, nil
}

func (c *Client) Users(ctx context.Context, q models.UserQuery) ([]models.AdminUser, *models.Meta, error) {
	const op = "upstream.admin.Users"

	env, err := c.do(ctx, http.MethodGet, "/admin/users", q.Values(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var users []models.AdminUser
	if err := decodeData(env, &users); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, env.Meta, nil
}

func (c *Client) UserByID(ctx context.Context, id string) (*models.AdminUser, error) {
	const op = "upstream.admin.UserByID"

	env, err := c.do(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.AdminUser
	if err := decodeData(env, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, in models.UpdateUserRoleRequest) (*models.AdminUser, error) {
	const op = "upstream.admin.UpdateUserRole"

	env, err := c.do(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(id)+"/role", nil, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.AdminUser
	if err := decodeData(env, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (c *Client) UpdateUserStatus(ctx context.Context, id string, in models.UpdateUserStatusRequest) (*models.AdminUser, error) {
	const op = "upstream.admin.UpdateUserStatus"

	env, err := c.do(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(id)+"/status", nil, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var user models.AdminUser
	if err := decodeData(env, &user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	const op = "upstream.admin.DeleteUser"

	if _, err := c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
