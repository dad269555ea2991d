// Package auth проверяет bearer-токены, выпущенные внешним сервисом идентификации.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"refuge/internal/domain"
)

var (
	ErrMissingToken = errors.New("authorization header is missing")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Identity аутентифицированный пользователь
type Identity struct {
	UserID int64
	Email  string
	Role   domain.Role
}

func (i Identity) IsAdmin() bool { return i.Role == domain.RoleAdmin }

// Claims содержимое токена; sub хранит числовой id пользователя
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Verifier HS256 с общим секретом
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// FromHeader разбирает значение Authorization: Bearer <token>
func (v *Verifier) FromHeader(header string) (Identity, error) {
	if header == "" {
		return Identity{}, ErrMissingToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return v.Verify(strings.TrimSpace(token))
}

func (v *Verifier) Verify(raw string) (Identity, error) {
	var claims Claims
	_, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role := claims.Role
	if role == "" {
		role = domain.RoleOwner
	}
	return Identity{UserID: id, Email: claims.Email, Role: role}, nil
}

// Issue подписывает токен; используется в тестах и локальной отладке
func (v *Verifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
