package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pribylovaa/go-task-gateway/internal/apierrors"
	"github.com/pribylovaa/go-task-gateway/internal/models"
	"github.com/pribylovaa/go-task-gateway/internal/session"
	"github.com/pribylovaa/go-task-gateway/internal/upstream"
)

// Handlers агрегирует зависимости: состояние сессии и клиент удалённого API.
type Handlers struct {
	Session  *session.Store
	Upstream *upstream.Client
}

func New(s *session.Store, u *upstream.Client) *Handlers {
	return &Handlers{Session: s, Upstream: u}
}

// response — конверт успешного ответа шлюза; зеркалит формат апстрима.
type response struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Meta    *models.Meta `json:"meta,omitempty"`
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, meta *models.Meta) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data, Meta: meta})
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errInvalidArgument — локальная ошибка парсинга входного тела.
func errInvalidArgument() error {
	return &apierrors.APIError{Message: "invalid argument", StatusCode: http.StatusBadRequest}
}
