// Package model はドメインモデルを定義する。
package model

import "time"

// SLA は顧客と合意したサービスレベルを表す。
// RiskThresholdを下回るsentimentが検出されるとアラート対象になる。
type SLA struct {
	ID            string
	ResponseTime  int
	Deadline      string
	RiskThreshold float64
	CustomerID    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SLAWithCustomer はSLAと顧客の表示名を結合したモデル。
type SLAWithCustomer struct {
	SLA
	CustomerName string
}
