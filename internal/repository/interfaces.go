// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/riskwatch/internal/model"
)

// ErrDuplicateAccount はusernameまたはemailの一意制約違反を表す。
// アプリケーション側の事前チェックではなく、DBの一意インデックス違反
// （並行登録の競合を含む）を最終権威として検出した場合に返される。
var ErrDuplicateAccount = errors.New("account with this username or email already exists")

// AccountRepository は資格情報レコードの永続化インターフェース。
type AccountRepository interface {
	// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Account, error)

	// FindByUsernameOrEmail はusernameまたはemailのいずれかが一致する
	// アカウントを検索する。見つからない場合はnilを返す。
	FindByUsernameOrEmail(ctx context.Context, name string) (*model.Account, error)

	// ExistsByUsernameOrEmail はusernameまたはemailが既に使われているかを返す。
	// 事前チェック用であり、最終的な一意性はCreateの制約違反検出が保証する。
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Create はアカウントを作成する。
	// 一意制約違反の場合はErrDuplicateAccountを返す。
	Create(ctx context.Context, account *model.Account) error
}

// CustomerRepository は顧客データの永続化インターフェース。
type CustomerRepository interface {
	// List は全顧客を作成日時昇順で返す。
	List(ctx context.Context) ([]*model.Customer, error)
	// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	// Create は顧客を作成する。
	Create(ctx context.Context, customer *model.Customer) error
	// Update は顧客を上書き更新する。
	Update(ctx context.Context, customer *model.Customer) error
	// DeleteByID は指定IDの顧客を削除する。削除された場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// ProjectRepository はプロジェクトデータの永続化インターフェース。
// 取得系は顧客の表示名をJOINして返す。
type ProjectRepository interface {
	// ListWithCustomer はプロジェクト一覧を顧客名付きで返す。
	// customerIDが空でない場合はその顧客のプロジェクトに絞り込む。
	ListWithCustomer(ctx context.Context, customerID string) ([]model.ProjectWithCustomer, error)
	// FindByIDWithCustomer は指定IDのプロジェクトを顧客名付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithCustomer(ctx context.Context, id string) (*model.ProjectWithCustomer, error)
	// Create はプロジェクトを作成する。
	Create(ctx context.Context, project *model.Project) error
	// Update はプロジェクトを上書き更新する。
	Update(ctx context.Context, project *model.Project) error
	// DeleteByID は指定IDのプロジェクトを削除する。削除された場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// DomainRepository は業務ドメインデータの永続化インターフェース。
type DomainRepository interface {
	// List は全ドメインを作成日時昇順で返す。
	List(ctx context.Context) ([]*model.Domain, error)
	// FindByID は指定IDのドメインを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Domain, error)
	// Create はドメインを作成する。
	Create(ctx context.Context, domain *model.Domain) error
	// Update はドメインを上書き更新する。
	Update(ctx context.Context, domain *model.Domain) error
	// DeleteByID は指定IDのドメインを削除する。削除された場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// SLARepository はSLAデータの永続化インターフェース。
// 取得系は顧客の表示名をJOINして返す。
type SLARepository interface {
	// ListWithCustomer はSLA一覧を顧客名付きで返す。
	// customerIDが空でない場合はその顧客のSLAに絞り込む。
	ListWithCustomer(ctx context.Context, customerID string) ([]model.SLAWithCustomer, error)
	// FindByIDWithCustomer は指定IDのSLAを顧客名付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithCustomer(ctx context.Context, id string) (*model.SLAWithCustomer, error)
	// Create はSLAを作成する。
	Create(ctx context.Context, sla *model.SLA) error
	// Update はSLAを上書き更新する。
	Update(ctx context.Context, sla *model.SLA) error
	// DeleteByID は指定IDのSLAを削除する。削除された場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// CommunicationRepository はコミュニケーションデータの永続化インターフェース。
// 取得系はプロジェクト・ドメイン・顧客の表示名をJOINして返す。
type CommunicationRepository interface {
	// ListWithRefs はコミュニケーション一覧を参照先の表示名付きで返す。
	// filterの非空フィールドで絞り込む。
	ListWithRefs(ctx context.Context, filter model.CommunicationFilter) ([]model.CommunicationWithRefs, error)
	// FindByIDWithRefs は指定IDのコミュニケーションを表示名付きで取得する。
	// 見つからない場合はnilを返す。
	FindByIDWithRefs(ctx context.Context, id string) (*model.CommunicationWithRefs, error)
	// Create はコミュニケーションを作成する。
	Create(ctx context.Context, comm *model.Communication) error
	// Update はコミュニケーションを上書き更新する。
	Update(ctx context.Context, comm *model.Communication) error
	// DeleteByID は指定IDのコミュニケーションを削除する。削除された場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// DirectoryUserRepository はディレクトリユーザーデータの永続化インターフェース。
type DirectoryUserRepository interface {
	// List は全ディレクトリユーザーを作成日時昇順で返す。
	List(ctx context.Context) ([]*model.DirectoryUser, error)
	// FindByID は指定IDのディレクトリユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.DirectoryUser, error)
	// Create はディレクトリユーザーを作成する。
	Create(ctx context.Context, user *model.DirectoryUser) error
	// Update はディレクトリユーザーを上書き更新する。
	Update(ctx context.Context, user *model.DirectoryUser) error
	// DeleteByID は指定IDのディレクトリユーザーを削除する。削除された場合はtrueを返す。
	DeleteByID(ctx context.Context, id string) (bool, error)
}
