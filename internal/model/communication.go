// Package model はドメインモデルを定義する。
package model

import "time"

// Communication は顧客とのやり取り（メールまたは議事録）を表す。
// 単一エンティティでTypeにより固有フィールドが使い分けられる。
// SentimentとSummaryはNLP解析（別モジュール）が書き込むまでnull。
type Communication struct {
	ID         string
	Type       CommunicationType
	Content    string
	OccurredAt time.Time
	ProjectID  string
	DomainID   string
	CustomerID string
	Sentiment  *float64
	Summary    *string

	// メール固有
	Subject string
	Sender  string

	// 議事録固有
	MeetingDate  string
	Participants []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommunicationType はコミュニケーションの種別を表す。
type CommunicationType string

const (
	// CommunicationTypeEmail はメール。
	CommunicationTypeEmail CommunicationType = "email"
	// CommunicationTypeTranscript は会議の議事録。
	CommunicationTypeTranscript CommunicationType = "transcript"
)

// ValidCommunicationType は既知のコミュニケーション種別かどうかを返す。
func ValidCommunicationType(t string) bool {
	switch CommunicationType(t) {
	case CommunicationTypeEmail, CommunicationTypeTranscript:
		return true
	default:
		return false
	}
}

// CommunicationWithRefs はコミュニケーションと参照先の表示名を結合したモデル。
// projects / domains / customersテーブルとJOINして取得される。
type CommunicationWithRefs struct {
	Communication
	ProjectName  string
	DomainName   string
	CustomerName string
}

// CommunicationFilter はコミュニケーション一覧の絞り込み条件。
// ゼロ値のフィールドは条件に含めない。
type CommunicationFilter struct {
	Type       string
	ProjectID  string
	DomainID   string
	CustomerID string
}
