// gate — проверка доступа к странице перед рендером.
//
// Решение принимается на каждую навигацию из локально доступных данных:
// наличие/валидность/claims access-токена и наличие refresh-токена. Никаких
// сетевых вызовов; гейт никогда не отдаёт ошибку наружу — только рендер или
// редирект. Протухший access при живом refresh пропускается: обновлением
// займётся интерсептор на первом вызове API.
package gate

import (
	"net/url"
	"time"

	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/token"
)

// Action — исход оценки навигации.
type Action int

const (
	// Render — страница рендерится.
	Render Action = iota
	// Redirect — навигация перенаправляется на Target.
	Redirect
)

func (a Action) String() string {
	if a == Redirect {
		return "redirect"
	}

	return "render"
}

// Decision — результат оценки одной навигации.
type Decision struct {
	Action Action
	// Target — путь редиректа (для Action == Redirect).
	Target string
	// PurgeTokens — оба сохранённых токена подлежат удалению
	// (протухший access без refresh либо нечитаемые claims).
	PurgeTokens bool
	// Claims — декодированная личность для request-scoped контекста
	// (только при рендере с валидным токеном).
	Claims *token.Claims
}

// Gate оценивает навигации по текущему содержимому хранилища токенов.
type Gate struct {
	creds creds.Store
	now   func() time.Time
}

func New(store creds.Store) *Gate {
	return &Gate{
		creds: store,
		now:   time.Now,
	}
}

// Evaluate — чистая функция от {path, содержимое хранилища, now}; повторный
// вызов с теми же входами даёт то же решение.
func (g *Gate) Evaluate(path string) Decision {
	now := g.now()
	pair := g.creds.Pair()

	if isPublicRoute(path) && !isAuthRoute(path) {
		return Decision{Action: Render}
	}

	// Страницы входа: валидная сессия уводится на свой дашборд,
	// отсутствующий/протухший/нечитаемый токен просто показывает форму.
	if isAuthRoute(path) {
		if pair.Access != "" {
			if cl, err := token.Decode(pair.Access); err == nil && !cl.ExpiredAt(now) {
				return Decision{Action: Redirect, Target: cl.Role.Dashboard()}
			}
		}

		return Decision{Action: Render}
	}

	if path == RootPath {
		if pair.Access == "" {
			return Decision{Action: Redirect, Target: LoginPath}
		}

		cl, err := token.Decode(pair.Access)
		if err == nil && !cl.ExpiredAt(now) {
			return Decision{Action: Redirect, Target: cl.Role.Dashboard()}
		}

		return Decision{Action: Redirect, Target: LoginPath}
	}

	// Дальше — только маршруты, требующие аутентификации.

	if pair.Empty() {
		// Исходный путь сохраняется как цель возврата после входа.
		return Decision{
			Action: Redirect,
			Target: LoginPath + "?from=" + url.QueryEscape(path),
		}
	}

	if pair.Access == "" {
		// Есть только refresh-токен: пропускаем, интерсептор обновит
		// access на первом вызове API.
		return Decision{Action: Render}
	}

	cl, err := token.Decode(pair.Access)
	if err != nil {
		// Битым claims не доверяем, даже если refresh-токен жив.
		return Decision{Action: Redirect, Target: LoginPath, PurgeTokens: true}
	}

	if cl.ExpiredAt(now) {
		if pair.Refresh != "" {
			return Decision{Action: Render}
		}

		return Decision{Action: Redirect, Target: LoginPath, PurgeTokens: true}
	}

	if isAdminRoute(path) && !cl.Role.IsAdmin() {
		return Decision{Action: Redirect, Target: DashboardPath}
	}

	return Decision{Action: Render, Claims: cl}
}
