package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/events"
	"github.com/pribylovaa/go-task-gateway/internal/metrics"
	"github.com/pribylovaa/go-task-gateway/internal/models"
	"github.com/pribylovaa/go-task-gateway/internal/pkg/log"
)

// ErrNoRefreshToken — refresh невозможен: в хранилище нет refresh-токена.
// Терминальная ошибка аутентификации, повторов не будет.
var ErrNoRefreshToken = errors.New("no refresh token")

// exchangeFunc — единственный сетевой вызов обмена refresh-токена на новую пару.
type exchangeFunc func(ctx context.Context, refreshToken string) (models.RefreshPayload, error)

type refreshResult struct {
	token string
	err   error
}

// Coordinator гарантирует не более одного одновременного refresh на процесс
// и ровно одну доставку результата каждому ожидающему.
//
// Инварианты:
//   - флаг inFlight проверяется-и-ставится под мьютексом до любой точки
//     приостановки, поэтому два одновременных 401 не запускают два обмена;
//   - опоздавшие вызовы встают в очередь waiters и получают результат
//     в порядке присоединения (FIFO), все — один и тот же токен или одну
//     и ту же ошибку;
//   - очередь разливается ровно один раз за попытку, флаг снимается при
//     любом исходе (отложенный release);
//   - сигнал token-refreshed публикуется только после снятия флага и разлива
//     очереди: подписчик может синхронно зайти в Refresh повторно, и этот
//     вызов обязан стартовать новый обмен, а не встать в мёртвую очередь.
type Coordinator struct {
	mu       sync.Mutex
	inFlight bool
	waiters  []chan refreshResult

	exchange exchangeFunc
	store    creds.Store
	bus      *events.Bus
}

func newCoordinator(store creds.Store, bus *events.Bus, exchange exchangeFunc) *Coordinator {
	return &Coordinator{
		exchange: exchange,
		store:    store,
		bus:      bus,
	}
}

// Refresh возвращает новый access-токен, которым вызывающий повторяет свой
// исходный запрос ровно один раз. Ошибка терминальна для текущей сессии:
// токены уже вычищены, сигнал logout уже опубликован.
func (c *Coordinator) Refresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.inFlight {
		ch := make(chan refreshResult, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		metrics.RefreshWaiters.Inc()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			// Буфер канала = 1: разлив очереди не заблокируется
			// на отменённом ожидающем.
			return "", ctx.Err()
		}
	}
	c.inFlight = true
	c.mu.Unlock()

	var res refreshResult
	defer func() {
		c.release(res)

		// Публикация строго после release: подписчики выполняются
		// синхронно и могут снова обратиться к координатору.
		if res.err == nil {
			c.bus.Publish(events.TopicTokenRefreshed)
		}
	}()

	res = c.exchangeOnce(ctx)

	return res.token, res.err
}

// exchangeOnce — ровно одна попытка обмена. Сетевая ошибка неотличима
// от явного отказа сервера: обе терминальны.
func (c *Coordinator) exchangeOnce(ctx context.Context) refreshResult {
	const op = "upstream.refresh.exchangeOnce"

	lg := log.From(ctx)

	pair := c.store.Pair()
	if pair.Refresh == "" {
		c.terminate()
		metrics.RefreshAttempts.WithLabelValues(metrics.RefreshNoRefreshToken).Inc()
		lg.Warn("refresh_impossible",
			slog.String("op", op),
		)

		return refreshResult{err: fmt.Errorf("%s: %w", op, ErrNoRefreshToken)}
	}

	payload, err := c.exchange(ctx, pair.Refresh)
	if err != nil {
		c.terminate()
		metrics.RefreshAttempts.WithLabelValues(metrics.RefreshFailure).Inc()
		lg.Warn("refresh_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return refreshResult{err: fmt.Errorf("%s: %w", op, err)}
	}

	// Пустой RefreshToken в ответе сохраняет прежний (ротация опциональна).
	if err := c.store.SetPair(creds.Pair{
		Access:  payload.AccessToken,
		Refresh: payload.RefreshToken,
	}); err != nil {
		lg.Error("token_persist_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	metrics.RefreshAttempts.WithLabelValues(metrics.RefreshSuccess).Inc()
	lg.Info("token_refreshed",
		slog.String("op", op),
	)

	return refreshResult{token: payload.AccessToken}
}

// terminate вычищает оба токена и публикует logout ровно один раз за попытку.
func (c *Coordinator) terminate() {
	_ = c.store.Clear()
	c.bus.Publish(events.TopicLogout)
}

// release снимает флаг и разливает очередь. Доставка идёт по срезу waiters,
// то есть в порядке присоединения; все получают идентичный результат.
func (c *Coordinator) release(res refreshResult) {
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.inFlight = false
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- res
	}
}
