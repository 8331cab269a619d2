// Package model はドメインモデルを定義する。
package model

import "time"

// Project は顧客に紐づくプロジェクトを表す。
type Project struct {
	ID         string
	Name       string
	Status     string
	CustomerID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DefaultProjectStatus はステータス未指定時のデフォルト値。
const DefaultProjectStatus = "active"

// ProjectWithCustomer はプロジェクトと顧客の表示名を結合したモデル。
// customersテーブルとJOINして取得される。
type ProjectWithCustomer struct {
	Project
	CustomerName string
}
