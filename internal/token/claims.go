// token разбирает claims access-токена на стороне клиента.
//
// Подпись намеренно не проверяется: токен для шлюза непрозрачный bearer,
// истинность подписи — зона ответственности сервера. Нам нужны только
// локально читаемые поля (id, email, role, exp) для решений маршрутизации.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed — токен не разбирается или не содержит обязательных claims.
var ErrMalformed = errors.New("malformed access token")

// Claims — локально декодированные поля access-токена.
type Claims struct {
	UserID    string
	Email     string
	Role      Role
	ExpiresAt time.Time
}

type accessClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Decode разбирает компактный JWT без проверки подписи.
// Отсутствие exp считается повреждением: таким claims доверять нельзя.
func Decode(raw string) (*Claims, error) {
	const op = "token.claims.Decode"

	var ac accessClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &ac); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	if ac.ExpiresAt == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformed)
	}

	uid := ac.UserID
	if uid == "" {
		uid = ac.Subject
	}

	return &Claims{
		UserID:    uid,
		Email:     ac.Email,
		Role:      Role(ac.Role),
		ExpiresAt: ac.ExpiresAt.Time,
	}, nil
}

// ExpiredAt сообщает, истёк ли токен на момент now.
// Граница включительная: exp == now считается истечением.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
