// Package auth はJWTベースの認証フローとアカウント管理を提供する。
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/riskwatch/internal/model"
)

// TokenManager はセッショントークンの発行と検証を行う。
// 署名アルゴリズムはHS256に固定する。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager はTokenManagerを生成する。
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// sessionClaims はトークンに埋め込むクレーム。
type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue はアカウントのセッショントークンを発行する。
// 有効期限は発行時刻からTTL分。
func (m *TokenManager) Issue(account *model.Account) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: account.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、クレームを返す。
// 署名不正・期限切れ・アルゴリズム不一致はすべてエラーを返す。
func (m *TokenManager) Verify(tokenString string) (*model.TokenClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return &model.TokenClaims{
		AccountID: claims.Subject,
		Username:  claims.Username,
	}, nil
}
