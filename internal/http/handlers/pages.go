package handlers

import (
	"fmt"
	"html"
	"net/http"

	"github.com/pribylovaa/go-task-gateway/internal/http/middleware"
)

// Страницы — презентационная обвязка: минимальные HTML-оболочки, данные UI
// дотягивает через /api/*. Вся логика доступа уже отработала в гейте.

// Page возвращает обработчик страницы с заголовком title.
func (h *Handlers) Page(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		identity := ""
		if cl := middleware.ClaimsFrom(r.Context()); cl != nil {
			identity = fmt.Sprintf(` data-user-id=%q data-user-role=%q`,
				html.EscapeString(cl.UserID), html.EscapeString(string(cl.Role)))
		}

		fmt.Fprintf(w, `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body%s>
<div id="app" data-page=%q></div>
<script src="/assets/app.js"></script>
</body>
</html>
`, html.EscapeString(title), identity, html.EscapeString(r.URL.Path))
	}
}

// appScript — клиентская обвязка оболочек: подтягивает снимок сессии
// и оставляет его странице в data-атрибуте.
const appScript = `(() => {
  const app = document.getElementById('app');
  if (!app) return;
  fetch('/api/auth/session', { headers: { Accept: 'application/json' } })
    .then((r) => r.json())
    .then((s) => { app.dataset.session = JSON.stringify(s.data || {}); })
    .catch(() => {});
})();
`

// AppScript отдаёт скрипт, на который ссылаются все оболочки страниц.
func (h *Handlers) AppScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write([]byte(appScript))
}
