package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/gate"
	"github.com/pribylovaa/go-task-gateway/internal/http/handlers"
	"github.com/pribylovaa/go-task-gateway/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
//
// Гейт висит только на страницах: /api/* — слой действий сессии и прокси
// бизнес-вызовов, его авторизация решается интерсептором исходящих запросов.
func NewRouter(h *handlers.Handlers, g *gate.Gate, store creds.Store, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// API без гейта.
	root.Route("/api", func(r chi.Router) {
		// auth
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/logout", h.Logout)
		r.Post("/auth/clear-error", h.ClearError)
		r.Patch("/auth/change-password", h.ChangePassword)
		r.Get("/auth/session", h.SessionState)

		// tasks
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks/statistics", h.TaskStatistics)
		r.Get("/tasks/overdue", h.OverdueTasks)
		r.Get("/tasks/{id}", h.GetTask)
		r.Patch("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)

		// admin
		r.Get("/admin/statistics", h.SystemStatistics)
		r.Get("/admin/users", h.ListUsers)
		r.Get("/admin/users/{id}", h.GetUser)
		r.Patch("/admin/users/{id}/role", h.UpdateUserRole)
		r.Patch("/admin/users/{id}/status", h.UpdateUserStatus)
		r.Delete("/admin/users/{id}", h.DeleteUser)
	})

	// Статические ресурсы страниц (без гейта).
	root.Get("/assets/app.js", h.AppScript)

	// Страницы за гейтом.
	root.Group(func(r chi.Router) {
		r.Use(middleware.Gate(g, store))

		r.Get("/", h.Page("Task Manager"))
		r.Get("/login", h.Page("Login"))
		r.Get("/register", h.Page("Register"))
		r.Get("/dashboard", h.Page("Dashboard"))
		r.Get("/tasks", h.Page("Tasks"))
		r.Get("/tasks/new", h.Page("New Task"))
		r.Get("/tasks/{id}", h.Page("Task"))
		r.Get("/admin/dashboard", h.Page("Admin Dashboard"))
		r.Get("/admin/users", h.Page("Users"))
		r.Get("/unauthorized", h.Page("Access Denied"))
	})

	return root
}
