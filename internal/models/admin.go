package models

import (
	"net/url"
	"strconv"
	"time"
)

// SystemStatistics — сводная статистика для админ-дашборда.
type SystemStatistics struct {
	Users struct {
		TotalUsers  int `json:"totalUsers"`
		ActiveUsers int `json:"activeUsers"`
		Admins      int `json:"admins"`
	} `json:"users"`
	Tasks struct {
		TotalTasks int `json:"totalTasks"`
		Completed  int `json:"completed"`
		Pending    int `json:"pending"`
		InProgress int `json:"inProgress"`
	} `json:"tasks"`
}

// AdminUser — пользователь в админ-списке (расширенные поля).
type AdminUser struct {
	User
	TasksCount *int       `json:"tasksCount,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type UpdateUserStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// UserQuery — фильтры админ-списка пользователей.
type UserQuery struct {
	Page     int
	Limit    int
	Search   string
	Role     string
	IsActive *bool
}

func (q UserQuery) Values() url.Values {
	v := url.Values{}

	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*q.IsActive))
	}

	return v
}
