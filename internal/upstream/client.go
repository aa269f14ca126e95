// upstream — исходящий REST-клиент удалённого task-manager API.
//
// Конвейер интерсепторов: базовый URL, фиксированный таймаут на вызов,
// прокидывание X-Request-Id, Bearer access-токен из хранилища. На 401
// ещё-не-повторённого запроса клиент обращается к координатору refresh
// и повторяет исходный запрос ровно один раз с новым токеном.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/config"
	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/events"
	"github.com/pribylovaa/go-task-gateway/internal/metrics"
	"github.com/pribylovaa/go-task-gateway/internal/models"
)

type CtxKey string

// CtxRequestID — ключ контекста с X-Request-Id; кладётся HTTP-мидлваром,
// читается при сборке исходящего запроса.
const CtxRequestID CtxKey = "request_id"

// Client — клиент удалённого API. Безопасен для конкурентного использования.
type Client struct {
	base  string
	hc    *http.Client
	creds creds.Store
	coord *Coordinator
}

// New собирает клиент и его координатор refresh.
func New(cfg config.UpstreamConfig, store creds.Store, bus *events.Bus) *Client {
	c := &Client{
		base:  strings.TrimRight(cfg.BaseURL, "/"),
		hc:    &http.Client{Timeout: cfg.Timeout},
		creds: store,
	}
	c.coord = newCoordinator(store, bus, c.exchangeRefreshToken)

	return c
}

// do выполняет авторизованный вызов с единственным повтором после refresh.
//
// Классификация исходов:
//   - сетевая ошибка/таймаут — транзиентная, refresh не трогаем;
//   - 401 непро­вторённого запроса — единственный триггер refresh;
//   - повторный 401 после retry — наружу как нормализованная ошибка,
//     обратно в очередь запрос не встаёт (защита от бесконечного цикла);
//   - прочие >=400 — нормализуются в *apierrors.APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (*models.Envelope, error) {
	const op = "upstream.client.do"

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		payload = b
	}

	resp, err := c.send(ctx, method, path, query, payload, c.creds.Pair().Access)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)

		tok, rerr := c.coord.Refresh(ctx)
		if rerr != nil {
			return nil, fmt.Errorf("%s: %w", op, rerr)
		}

		resp, err = c.send(ctx, method, path, query, payload, tok)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %w", op, apierrors.FromResponse(resp.StatusCode, body))
	}

	var env models.Envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &env, nil
}

// doUnauthenticated — вызов без bearer-токена и без ветки refresh.
// Используется эндпойнтами выдачи credentials (login/register): их 401 —
// это "неверные креды", а не "протух access-токен".
func (c *Client) doUnauthenticated(ctx context.Context, method, path string, in any) (*models.Envelope, error) {
	const op = "upstream.client.doUnauthenticated"

	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		payload = b
	}

	resp, err := c.send(ctx, method, path, nil, payload, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %w", op, apierrors.FromResponse(resp.StatusCode, body))
	}

	var env models.Envelope
	if len(body) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return &env, nil
}

// send собирает и выполняет один HTTP-запрос. Тело пересобирается из payload,
// поэтому повтор после refresh не зависит от вычитанного Reader-а.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (*http.Response, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v := ctx.Value(CtxRequestID); v != nil {
		if rid, _ := v.(string); rid != "" {
			req.Header.Set("X-Request-Id", rid)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.hc.Do(req)
}

// exchangeRefreshToken — единственный сетевой вызов обмена refresh-токена.
// Идёт мимо конвейера авторизации: ни bearer-заголовка, ни ветки 401-refresh.
func (c *Client) exchangeRefreshToken(ctx context.Context, refreshToken string) (models.RefreshPayload, error) {
	const op = "upstream.client.exchangeRefreshToken"

	env, err := c.doUnauthenticated(ctx, http.MethodPost, "/auth/refresh-token", models.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return models.RefreshPayload{}, fmt.Errorf("%s: %w", op, err)
	}

	var payload models.RefreshPayload
	if err := decodeData(env, &payload); err != nil {
		return models.RefreshPayload{}, fmt.Errorf("%s: %w", op, err)
	}

	if payload.AccessToken == "" {
		return models.RefreshPayload{}, fmt.Errorf("%s: empty access token in refresh response", op)
	}

	return payload, nil
}

func decodeData(env *models.Envelope, out any) error {
	if out == nil {
		return nil
	}
	if env == nil || len(env.Data) == 0 {
		return errors.New("empty data in response")
	}

	return json.Unmarshal(env.Data, out)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
