// session — единственное на процесс наблюдаемое состояние сессии.
//
// Мутации идут только через определённые действия (Login, Register, Logout,
// FetchProfile, CheckAuth, ClearError); читатели получают снимок. Защиты от
// переупорядочивания перекрывающихся действий нет: побеждает последнее
// завершившееся (UI сериализует их явными действиями пользователя).
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/creds"
	"github.com/pribylovaa/go-task-gateway/internal/events"
	"github.com/pribylovaa/go-task-gateway/internal/models"
	"github.com/pribylovaa/go-task-gateway/internal/pkg/log"
)

// AuthAPI — срез клиента удалённого API, нужный действиям сессии.
type AuthAPI interface {
	Login(ctx context.Context, in models.LoginRequest) (*models.AuthPayload, error)
	Register(ctx context.Context, in models.RegisterRequest) (*models.AuthPayload, error)
	Profile(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
}

// Session — снимок состояния сессии.
type Session struct {
	User            *models.User `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
	IsLoading       bool         `json:"isLoading"`
	Error           string       `json:"error,omitempty"`
}

// Store — владелец Session. Подписывается на широковещательные сигналы
// слоя токенов, поэтому реагирует на logout/refresh, не зная об интерсепторе.
type Store struct {
	mu   sync.Mutex
	sess Session

	api   AuthAPI
	creds creds.Store
}

func New(api AuthAPI, store creds.Store, bus *events.Bus) *Store {
	s := &Store{
		api:   api,
		creds: store,
	}

	if bus != nil {
		bus.Subscribe(events.TopicLogout, s.clearLocal)
		bus.Subscribe(events.TopicTokenRefreshed, func() {
			s.CheckAuth(context.Background())
		})
	}

	return s
}

// Snapshot возвращает копию текущего состояния.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sess
}

// Login обменивает креды на сессию; успешный ответ персистит пару токенов.
func (s *Store) Login(ctx context.Context, in models.LoginRequest) error {
	const op = "session.store.Login"

	s.setLoading()

	payload, err := s.api.Login(ctx, in)
	if err != nil {
		s.fail(messageFrom(err, "login failed"))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.establish(ctx, op, payload)

	return nil
}

func (s *Store) Register(ctx context.Context, in models.RegisterRequest) error {
	const op = "session.store.Register"

	s.setLoading()

	payload, err := s.api.Register(ctx, in)
	if err != nil {
		s.fail(messageFrom(err, "registration failed"))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.establish(ctx, op, payload)

	return nil
}

// Logout — best-effort вызов сервера; локальная очистка выполняется всегда.
func (s *Store) Logout(ctx context.Context) {
	const op = "session.store.Logout"

	s.setLoading()

	if err := s.api.Logout(ctx); err != nil {
		log.From(ctx).Warn("logout_remote_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	_ = s.creds.Clear()
	s.clearLocal()
}

// FetchProfile гидрирует сессию из сохранённого токена (старт процесса).
// Неудача означает невалидный токен: хранилище вычищается.
func (s *Store) FetchProfile(ctx context.Context) error {
	const op = "session.store.FetchProfile"

	s.setLoading()

	user, err := s.api.Profile(ctx)
	if err != nil {
		s.mu.Lock()
		s.sess = Session{Error: messageFrom(err, "failed to get profile")}
		s.mu.Unlock()

		_ = s.creds.Clear()

		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.sess = Session{User: user, IsAuthenticated: true}
	s.mu.Unlock()

	return nil
}

// CheckAuth сверяет Session с хранилищем токенов. Идемпотентна; безопасна
// на каждом старте процесса и на каждом сигнале logout/token-refreshed.
func (s *Store) CheckAuth(ctx context.Context) {
	pair := s.creds.Pair()

	s.mu.Lock()
	hasUser := s.sess.User != nil
	authed := s.sess.IsAuthenticated
	loading := s.sess.IsLoading
	s.mu.Unlock()

	switch {
	case pair.Access != "" && !hasUser && !loading:
		_ = s.FetchProfile(ctx)
	case pair.Access == "" && authed:
		s.clearLocal()
	default:
		s.mu.Lock()
		s.sess.IsAuthenticated = pair.Access != ""
		s.mu.Unlock()
	}
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.Error = ""
}

func (s *Store) setLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.IsLoading = true
	s.sess.Error = ""
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = Session{Error: msg}
}

func (s *Store) clearLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = Session{}
}

func (s *Store) establish(ctx context.Context, op string, payload *models.AuthPayload) {
	if err := s.creds.SetPair(creds.Pair{
		Access:  payload.Tokens.AccessToken,
		Refresh: payload.Tokens.RefreshToken,
	}); err != nil {
		log.From(ctx).Error("token_persist_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	user := payload.User

	s.mu.Lock()
	s.sess = Session{User: &user, IsAuthenticated: true}
	s.mu.Unlock()
}

// messageFrom достаёт пользовательское сообщение из нормализованной ошибки
// апстрима; для прочих ошибок возвращает запасной текст.
func messageFrom(err error, fallback string) string {
	var ae *apierrors.APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}

	return fallback
}
