// Package model はドメインモデルを定義する。
package model

import "time"

// DirectoryUser は組織ディレクトリ上のユーザーを表す。
// 認証用のAccountとは別エンティティで、account_idで任意にリンクされる。
// AssignedProjectIDs / AssignedDomainIDs はStaffの閲覧範囲制限にのみ使われる。
type DirectoryUser struct {
	ID                 string
	Name               string
	Email              string
	Type               UserType
	AssignedProjectIDs []string
	AssignedDomainIDs  []string
	AccountID          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UserType はディレクトリユーザーの種別を表す。
type UserType string

const (
	// UserTypeUser は一般ユーザー。
	UserTypeUser UserType = "User"
	// UserTypeManager はマネージャー。顧客・SLAの管理権限を持つ。
	UserTypeManager UserType = "Manager"
	// UserTypeStaff はスタッフ。担当プロジェクト/ドメインのみ閲覧できる。
	UserTypeStaff UserType = "Staff"
)

// ValidUserType は既知のユーザー種別かどうかを返す。
func ValidUserType(t string) bool {
	switch UserType(t) {
	case UserTypeUser, UserTypeManager, UserTypeStaff:
		return true
	default:
		return false
	}
}
