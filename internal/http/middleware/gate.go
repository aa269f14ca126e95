package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/gate"
	"github.com/pribylovaa/go-task-gateway/internal/metrics"
	logctx "github.com/pribylovaa/go-task-gateway/internal/pkg/log"
	"github.com/pribylovaa/go-task-gateway/internal/token"
)

type claimsKey struct{}

// ClaimsFrom достаёт декодированную личность текущей навигации из контекста
// (или nil, если гейт пропустил навигацию без валидного токена).
func ClaimsFrom(ctx context.Context) *token.Claims {
	if v := ctx.Value(claimsKey{}); v != nil {
		if cl, ok := v.(*token.Claims); ok {
			return cl
		}
	}

	return nil
}

// Gate выполняет проверку доступа до рендера страницы: редирект или рендер,
// никогда не ошибка. При рендере с валидным токеном личность/роль кладутся в
// контекст и заголовки X-User-Id/X-User-Role для нижележащих обработчиков.
func Gate(g *gate.Gate, store creds.Store) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := g.Evaluate(r.URL.Path)

			metrics.GateDecisions.WithLabelValues(d.Action.String()).Inc()

			if d.PurgeTokens {
				if err := store.Clear(); err != nil {
					logctx.From(r.Context()).Warn("token_purge_failed",
						slog.String("path", r.URL.Path),
						slog.String("err", err.Error()),
					)
				}
			}

			if d.Action == gate.Redirect {
				http.Redirect(w, r, d.Target, http.StatusTemporaryRedirect)
				return
			}

			if d.Claims != nil {
				ctx := context.WithValue(r.Context(), claimsKey{}, d.Claims)
				r = r.WithContext(ctx)
				r.Header.Set("X-User-Id", d.Claims.UserID)
				r.Header.Set("X-User-Role", string(d.Claims.Role))
			}

			next.ServeHTTP(w, r)
		})
	}
}
