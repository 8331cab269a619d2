package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/riskwatch/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// PostgresAccountRepo はPostgreSQLを使用したアカウントリポジトリ。
type PostgresAccountRepo struct {
	db *sql.DB
}

// NewPostgresAccountRepo はPostgresAccountRepoを生成する。
func NewPostgresAccountRepo(db *sql.DB) *PostgresAccountRepo {
	return &PostgresAccountRepo{db: db}
}

// FindByID は指定IDのアカウントを取得する。見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, fullname, password_hash, role, created_at, updated_at
		 FROM accounts WHERE id = $1`,
		id,
	).Scan(&account.ID, &account.Username, &account.Email, &account.Fullname,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}

	return account, nil
}

// FindByUsernameOrEmail はusernameまたはemailのいずれかが一致するアカウントを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresAccountRepo) FindByUsernameOrEmail(ctx context.Context, name string) (*model.Account, error) {
	account := &model.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, fullname, password_hash, role, created_at, updated_at
		 FROM accounts WHERE username = $1 OR email = $1`,
		name,
	).Scan(&account.ID, &account.Username, &account.Email, &account.Fullname,
		&account.PasswordHash, &account.Role, &account.CreatedAt, &account.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username or email: %w", err)
	}

	return account, nil
}

// ExistsByUsernameOrEmail はusernameまたはemailが既に使われているかを返す。
func (r *PostgresAccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM accounts WHERE username = $1 OR email = $2`,
		username, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count accounts: %w", err)
	}

	return count > 0, nil
}

// Create はアカウントを作成する。
// 一意制約違反（並行登録の競合を含む）の場合はErrDuplicateAccountを返す。
func (r *PostgresAccountRepo) Create(ctx context.Context, account *model.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, username, email, fullname, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		account.ID, account.Username, account.Email, account.Fullname,
		account.PasswordHash, account.Role, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// compile-time interface check
var _ AccountRepository = (*PostgresAccountRepo)(nil)
