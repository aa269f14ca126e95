// metrics — счётчики Prometheus ключевых событий шлюза.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Итоги попыток refresh.
const (
	RefreshSuccess        = "success"
	RefreshFailure        = "failure"
	RefreshNoRefreshToken = "no_refresh_token"
)

var (
	// RefreshAttempts — попытки обмена refresh-токена по исходу.
	RefreshAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_gateway",
		Subsystem: "auth",
		Name:      "refresh_attempts_total",
		Help:      "Token refresh attempts by result.",
	}, []string{"result"})

	// RefreshWaiters — вызовы, дождавшиеся чужого refresh в очереди.
	RefreshWaiters = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "task_gateway",
		Subsystem: "auth",
		Name:      "refresh_waiters_total",
		Help:      "Callers that joined an in-flight refresh queue.",
	})

	// UpstreamRequests — исходящие запросы к удалённому API.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_gateway",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Upstream API requests by method and status code.",
	}, []string{"method", "status"})

	// GateDecisions — решения гейта маршрутов.
	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "task_gateway",
		Subsystem: "gate",
		Name:      "decisions_total",
		Help:      "Route gate decisions by action.",
	}, []string{"action"})
)
