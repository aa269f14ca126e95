package upstream

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/config"
	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/events"
	"github.com/pribylovaa/go-task-gateway/internal/models"
)

// newClient — клиент поверх тестового сервера с memory-хранилищем токенов.
func newClient(t *testing.T, srv *httptest.Server, pair creds.Pair) (*Client, creds.Store, *events.Bus) {
	t.Helper()

	store := creds.NewMemoryStore()
	if !pair.Empty() {
		require.NoError(t, store.SetPair(pair))
	}

	bus := events.NewBus()
	c := New(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, store, bus)

	return c, store, bus
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, data any) {
	t.Helper()

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.Envelope{Success: status < 400, Data: raw})
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// Протухший access при живом refresh: 401 -> обмен -> единственный повтор
// исходного запроса с новым токеном, вызывающий получает данные.
func TestClient_Do_RefreshAndRetry(t *testing.T) {
	t.Parallel()

	var taskCalls, refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&taskCalls, 1)
		if bearer(r) != "fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeEnvelope(t, w, http.StatusOK, []models.Task{{ID: "t-1", Title: "first"}})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)

		// Запрос обмена идёт без bearer-заголовка.
		require.Empty(t, r.Header.Get("Authorization"))

		var in models.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "r1", in.RefreshToken)

		writeEnvelope(t, w, http.StatusOK, models.RefreshPayload{AccessToken: "fresh", RefreshToken: "r2"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, store, _ := newClient(t, srv, creds.Pair{Access: "expired", Refresh: "r1"})

	tasks, _, err := c.Tasks(context.Background(), models.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "t-1", tasks[0].ID)

	require.Equal(t, int32(2), atomic.LoadInt32(&taskCalls))
	require.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
	require.Equal(t, creds.Pair{Access: "fresh", Refresh: "r2"}, store.Pair())
}

// 401 после повтора уходит наружу нормализованной ошибкой; третьего
// захода на исходный запрос нет.
func TestClient_Do_NoSecondRetry(t *testing.T) {
	t.Parallel()

	var taskCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&taskCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token revoked"}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(t, w, http.StatusOK, models.RefreshPayload{AccessToken: "fresh"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _, _ := newClient(t, srv, creds.Pair{Access: "a", Refresh: "r1"})

	_, _, err := c.Tasks(context.Background(), models.TaskQuery{})
	require.True(t, apierrors.IsUnauthorized(err))
	require.Equal(t, int32(2), atomic.LoadInt32(&taskCalls))
}

// Отказ обмена: ошибка терминальна, токены вычищены, logout опубликован.
func TestClient_Do_RefreshRejected(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"refresh token expired"}`))
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, store, bus := newClient(t, srv, creds.Pair{Access: "a", Refresh: "r1"})

	logouts := 0
	bus.Subscribe(events.TopicLogout, func() { logouts++ })

	_, _, err := c.Tasks(context.Background(), models.TaskQuery{})
	require.Error(t, err)
	require.True(t, store.Pair().Empty())
	require.Equal(t, 1, logouts)
}

// Не-401 ошибки не трогают refresh: нормализуются и уходят наружу как есть.
func TestClient_Do_Non401DoesNotRefresh(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"database down"}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _, _ := newClient(t, srv, creds.Pair{Access: "a", Refresh: "r1"})

	_, _, err := c.Tasks(context.Background(), models.TaskQuery{})

	var ae *apierrors.APIError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusInternalServerError, ae.StatusCode)
	require.Equal(t, "database down", ae.Message)
	require.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
}

// 401 логина — это "неверные креды": без bearer-заголовка и без refresh.
func TestClient_Login_401IsCredentialFailure(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _, _ := newClient(t, srv, creds.Pair{Access: "a", Refresh: "r1"})

	_, err := c.Login(context.Background(), models.LoginRequest{Email: "e", Password: "wrong"})

	var ae *apierrors.APIError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "invalid credentials", ae.Message)
	require.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
}

// X-Request-Id из контекста прокидывается в исходящий запрос.
func TestClient_Do_RequestIDPropagation(t *testing.T) {
	t.Parallel()

	gotRID := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		gotRID <- r.Header.Get("X-Request-Id")
		writeEnvelope(t, w, http.StatusOK, []models.Task{})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _, _ := newClient(t, srv, creds.Pair{Access: "a", Refresh: "r"})

	ctx := context.WithValue(context.Background(), CtxRequestID, "rid-42")
	_, _, err := c.Tasks(ctx, models.TaskQuery{})
	require.NoError(t, err)
	require.Equal(t, "rid-42", <-gotRID)
}

// Таймаут исходящего вызова — транзиентная сетевая ошибка, не триггер refresh.
func TestClient_Do_TimeoutIsTransient(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeEnvelope(t, w, http.StatusOK, []models.Task{})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := creds.NewMemoryStore()
	require.NoError(t, store.SetPair(creds.Pair{Access: "a", Refresh: "r1"}))

	c := New(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, store, events.NewBus())

	_, _, err := c.Tasks(context.Background(), models.TaskQuery{})
	require.Error(t, err)

	var ne net.Error
	require.ErrorAs(t, err, &ne)
	require.True(t, ne.Timeout())

	// Токены на месте, refresh не трогали.
	require.Equal(t, int32(0), atomic.LoadInt32(&refreshCalls))
	require.Equal(t, creds.Pair{Access: "a", Refresh: "r1"}, store.Pair())
}

// Параметры списка транслируются в query без изменений.
func TestClient_Tasks_QueryValues(t *testing.T) {
	t.Parallel()

	gotQuery := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		gotQuery <- r.URL.RawQuery
		writeEnvelope(t, w, http.StatusOK, []models.Task{})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _, _ := newClient(t, srv, creds.Pair{Access: "a", Refresh: "r"})

	q := models.TaskQuery{Status: "pending", Priority: "high", Page: 2, Limit: 10}
	_, _, err := c.Tasks(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, q.Values().Encode(), <-gotQuery)
}
