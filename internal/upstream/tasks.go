package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pribylovaa/go-task-gateway/internal/models"
)

// Сортировка/фильтрация — дело сервера; клиент лишь транслирует параметры.

func (c *Client) Tasks(ctx context.Context, q models.TaskQuery) ([]models.Task, *models.Meta, error) {
	const op = "upstream.tasks.Tasks"

	env, err := c.do(ctx, http.MethodGet, "/tasks", q.Values(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var tasks []models.Task
	if err := decodeData(env, &tasks); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, env.Meta, nil
}

func (c *Client) TaskByID(ctx context.Context, id string) (*models.Task, error) {
	const op = "upstream.tasks.TaskByID"

	env, err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var task models.Task
	if err := decodeData(env, &task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, in models.CreateTaskRequest) (*models.Task, error) {
	const op = "upstream.tasks.CreateTask"

	env, err := c.do(ctx, http.MethodPost, "/tasks", nil, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var task models.Task
	if err := decodeData(env, &task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in models.UpdateTaskRequest) (*models.Task, error) {
	const op = "upstream.tasks.UpdateTask"

	env, err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), nil, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var task models.Task
	if err := decodeData(env, &task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	const op = "upstream.tasks.DeleteTask"

	if _, err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) TaskStatistics(ctx context.Context) (*models.TaskStatistics, error) {
	const op = "upstream.tasks.TaskStatistics"

	env, err := c.do(ctx, http.MethodGet, "/tasks/statistics", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var stats models.TaskStatistics
	if err := decodeData(env, &stats); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &stats, nil
}

func (c *Client) OverdueTasks(ctx context.Context) ([]models.Task, *models.Meta, error) {
	const op = "upstream.tasks.OverdueTasks"

	env, err := c.do(ctx, http.MethodGet, "/tasks/overdue", nil, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var tasks []models.Task
	if err := decodeData(env, &tasks); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, env.Meta, nil
}
