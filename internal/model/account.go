// Package model はドメインモデルを定義する。
package model

import "time"

// Account は認証用の資格情報レコードを表す。
// PasswordHashはレスポンスに含めてはならない。
type Account struct {
	ID           string
	Username     string
	Email        string
	Fullname     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenClaims はセッショントークンに埋め込まれる認証済みアイデンティティを表す。
// 検証済みトークンからミドルウェアがリクエストコンテキストに注入する。
type TokenClaims struct {
	AccountID string
	Username  string
}
