// Package model はドメインモデルを定義する。
package model

import "time"

// Domain は業務ドメイン（事業領域）を表す。独立エンティティで、
// Staffの閲覧範囲制限とコミュニケーションの分類に使われる。
type Domain struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
