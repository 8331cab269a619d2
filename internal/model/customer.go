// Package model はドメインモデルを定義する。
package model

import "time"

// Customer は管理対象の顧客を表す。
// SentimentScoreとRiskStatusはNLP解析（別モジュール）が書き込むまでnull。
type Customer struct {
	ID             string
	Name           string
	Priority       string
	SentimentScore *float64
	RiskStatus     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DefaultCustomerPriority は優先度未指定時のデフォルト値。
const DefaultCustomerPriority = "normal"
