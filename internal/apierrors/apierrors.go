// apierrors стандартизирует ошибки HTTP-слоя шлюза.
//
// Вход — ошибка исходящего вызова к удалённому task-manager API
// (нормализованный *APIError, сетевая ошибка или таймаут), выход:
//   - корректный HTTP-статус;
//   - единый конверт {error:{code,message,request_id}} без утечки деталей.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError — нормализованная ошибка удалённого API: {message, statusCode, errors?}.
// Единственная форма, в которой ошибки бизнес-вызовов доходят до вызывающего.
type APIError struct {
	Message    string            `json:"message"`
	StatusCode int               `json:"statusCode"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Message)
}

// FromResponse разбирает тело ответа удалённого API в APIError.
// Поддерживаются оба встречающихся формата: message на верхнем уровне
// и вложенный error{message, details}.
func FromResponse(statusCode int, body []byte) *APIError {
	out := &APIError{
		Message:    http.StatusText(statusCode),
		StatusCode: statusCode,
	}

	var envelope struct {
		Message string `json:"message"`
		Error   *struct {
			Message string            `json:"message"`
			Details map[string]string `json:"details,omitempty"`
		} `json:"error"`
		Errors map[string]string `json:"errors,omitempty"`
	}

	if err := json.Unmarshal(body, &envelope); err != nil {
		return out
	}

	switch {
	case envelope.Error != nil && envelope.Error.Message != "":
		out.Message = envelope.Error.Message
		out.Errors = envelope.Error.Details
	case envelope.Message != "":
		out.Message = envelope.Message
	}

	if len(envelope.Errors) > 0 {
		out.Errors = envelope.Errors
	}

	return out
}

// IsUnauthorized — ошибка является 401 удалённого API.
func IsUnauthorized(err error) bool {
	var ae *APIError

	return errors.As(err, &ae) && ae.StatusCode == http.StatusUnauthorized
}

// GatewayError — единый формат ошибки для фронта.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type GatewayError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе об ошибке.
type ErrorResponse struct {
	Error GatewayError `json:"error"`
}

// ToHTTP конвертирует ошибку исходящего вызова в HTTP-статус и конверт.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal, чтобы не отдать
//     "200 OK" с телом ошибки и не замаскировать баг;
//   - *APIError — статус апстрима пробрасывается как есть, сообщение безопасно
//     (его уже показывает пользователю сам апстрим);
//   - таймаут (context.DeadlineExceeded, net.Error.Timeout) — 504;
//   - прочие сетевые ошибки — 503 (апстрим недоступен, можно повторить);
//   - всё остальное — 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, newResponse("internal", "internal error")
	}

	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode, newResponse(codeFromStatus(ae.StatusCode), ae.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, newResponse("deadline_exceeded", "deadline exceeded")
	}

	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return http.StatusGatewayTimeout, newResponse("deadline_exceeded", "deadline exceeded")
		}

		return http.StatusServiceUnavailable, newResponse("unavailable", "service unavailable")
	}

	return http.StatusInternalServerError, newResponse("internal", "internal error")
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func newResponse(code, message string) ErrorResponse {
	return ErrorResponse{Error: GatewayError{Code: code, Message: message}}
}

func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "invalid_argument"
	case http.StatusUnauthorized:
		return "unauthenticated"
	case http.StatusForbidden:
		return "permission_denied"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_exists"
	case http.StatusPreconditionFailed:
		return "failed_precondition"
	case http.StatusTooManyRequests:
		return "resource_exhausted"
	case http.StatusServiceUnavailable:
		return "unavailable"
	case http.StatusGatewayTimeout:
		return "deadline_exceeded"
	default:
		if status >= 400 && status < 500 {
			return "invalid_argument"
		}

		return "internal"
	}
}
