package apierrors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromResponse_TopLevelMessage(t *testing.T) {
	t.Parallel()

	ae := FromResponse(http.StatusConflict, []byte(`{"message":"email already taken"}`))
	require.Equal(t, http.StatusConflict, ae.StatusCode)
	require.Equal(t, "email already taken", ae.Message)
	require.Empty(t, ae.Errors)
}

func TestFromResponse_NestedError(t *testing.T) {
	t.Parallel()

	body := `{"error":{"message":"validation failed","details":{"title":"required"}}}`

	ae := FromResponse(http.StatusUnprocessableEntity, []byte(body))
	require.Equal(t, "validation failed", ae.Message)
	require.Equal(t, map[string]string{"title": "required"}, ae.Errors)
}

func TestFromResponse_TopLevelErrors(t *testing.T) {
	t.Parallel()

	body := `{"message":"validation failed","errors":{"email":"invalid"}}`

	ae := FromResponse(http.StatusBadRequest, []byte(body))
	require.Equal(t, "validation failed", ae.Message)
	require.Equal(t, map[string]string{"email": "invalid"}, ae.Errors)
}

// Нечитаемое тело — не причина терять статус: сообщением становится
// стандартный текст статуса.
func TestFromResponse_UnparsableBody(t *testing.T) {
	t.Parallel()

	ae := FromResponse(http.StatusBadGateway, []byte("<html>nginx</html>"))
	require.Equal(t, http.StatusBadGateway, ae.StatusCode)
	require.Equal(t, http.StatusText(http.StatusBadGateway), ae.Message)
}

func TestIsUnauthorized(t *testing.T) {
	t.Parallel()

	err401 := fmt.Errorf("call: %w", &APIError{StatusCode: http.StatusUnauthorized, Message: "expired"})
	require.True(t, IsUnauthorized(err401))

	require.False(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	require.False(t, IsUnauthorized(context.DeadlineExceeded))
	require.False(t, IsUnauthorized(nil))
}

type timeoutErr struct{ timeout bool }

func (e *timeoutErr) Error() string   { return "net error" }
func (e *timeoutErr) Timeout() bool   { return e.timeout }
func (e *timeoutErr) Temporary() bool { return false }

func TestToHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "nil -> 500",
			err:        nil,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
		{
			name:       "api error keeps status",
			err:        &APIError{StatusCode: http.StatusNotFound, Message: "task not found"},
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "wrapped api error",
			err:        fmt.Errorf("op: %w", &APIError{StatusCode: http.StatusUnauthorized, Message: "expired"}),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthenticated",
		},
		{
			name:       "deadline -> 504",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "deadline_exceeded",
		},
		{
			name:       "net timeout -> 504",
			err:        &timeoutErr{timeout: true},
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "deadline_exceeded",
		},
		{
			name:       "net error -> 503",
			err:        &timeoutErr{},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "unavailable",
		},
		{
			name:       "unknown -> 500",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			status, resp := ToHTTP(tc.err)
			require.Equal(t, tc.wantStatus, status)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestWriteError_RequestID(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("X-Request-Id", "req-123")

	WriteError(rec, req, &APIError{StatusCode: http.StatusForbidden, Message: "admin only"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "permission_denied", resp.Error.Code)
	require.Equal(t, "admin only", resp.Error.Message)
	require.Equal(t, "req-123", resp.Error.RequestID)
}
