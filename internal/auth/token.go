package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken 令牌无效或已过期
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenIssuer 签发与校验访问令牌
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenIssuer 创建令牌签发器
func NewTokenIssuer(secret string, expireMinutes int) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: time.Duration(expireMinutes) * time.Minute,
		now:    time.Now,
	}
}

// CreateAccessToken 为用户邮箱签发 HS256 访问令牌
func (t *TokenIssuer) CreateAccessToken(email string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": email,
		"exp": jwt.NewNumericDate(now.Add(t.expiry)),
		"iat": jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseAccessToken 校验令牌并返回其中的邮箱
func (t *TokenIssuer) ParseAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}
