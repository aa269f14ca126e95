// log протаскивает request-scoped логгер через context: HTTP-мидлвар кладёт
// логгер с request_id, нижние слои (интерсептор, координатор refresh, сессия)
// достают его, не зная о транспорте.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into возвращает контекст с привязанным логгером l.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From возвращает логгер текущего запроса. Без логгера в контексте (или при
// значении неожиданного типа) возвращается slog.Default().
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}
