package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

var ErrInvalidToken = errors.New("无效的令牌")

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager 负责签发和校验携带角色声明的 JWT。
// 令牌是无状态的，过期是唯一的自动失效方式。
type TokenManager struct {
	secret     []byte
	expiration time.Duration
}

func NewTokenManager(secret string, expirationSeconds int) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		expiration: time.Duration(expirationSeconds) * time.Second,
	}
}

func (tm *TokenManager) Expiration() time.Duration {
	return tm.expiration
}

func (tm *TokenManager) Issue(subject string, role domain.Role) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   subject,
		},
	})

	return token.SignedString(tm.secret)
}

// Verify 检查签名和有效期。任何结构或密码学上的错误都只返回
// ErrInvalidToken，不会返回部分解析的结果。
func (tm *TokenManager) Verify(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
