package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/riskwatch/internal/model"
)

// PostgresDirectoryUserRepo はPostgreSQLを使用したディレクトリユーザーリポジトリ。
type PostgresDirectoryUserRepo struct {
	db *sql.DB
}

// NewPostgresDirectoryUserRepo はPostgresDirectoryUserRepoを生成する。
func NewPostgresDirectoryUserRepo(db *sql.DB) *PostgresDirectoryUserRepo {
	return &PostgresDirectoryUserRepo{db: db}
}

// List は全ディレクトリユーザーを作成日時昇順で返す。
func (r *PostgresDirectoryUserRepo) List(ctx context.Context) ([]*model.DirectoryUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, type, assigned_project_ids, assigned_domain_ids,
		 account_id, created_at, updated_at
		 FROM directory_users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory users: %w", err)
	}
	defer rows.Close()

	var users []*model.DirectoryUser
	for rows.Next() {
		u := &model.DirectoryUser{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Type,
			pq.Array(&u.AssignedProjectIDs), pq.Array(&u.AssignedDomainIDs),
			&u.AccountID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan directory user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate directory users: %w", err)
	}

	return users, nil
}

// FindByID は指定IDのディレクトリユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresDirectoryUserRepo) FindByID(ctx context.Context, id string) (*model.DirectoryUser, error) {
	u := &model.DirectoryUser{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, type, assigned_project_ids, assigned_domain_ids,
		 account_id, created_at, updated_at
		 FROM directory_users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Type,
		pq.Array(&u.AssignedProjectIDs), pq.Array(&u.AssignedDomainIDs),
		&u.AccountID, &u.CreatedAt, &u.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find directory user: %w", err)
	}

	return u, nil
}

// Create はディレクトリユーザーを作成する。
func (r *PostgresDirectoryUserRepo) Create(ctx context.Context, user *model.DirectoryUser) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO directory_users
		 (id, name, email, type, assigned_project_ids, assigned_domain_ids,
		  account_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Name, user.Email, user.Type,
		pq.Array(user.AssignedProjectIDs), pq.Array(user.AssignedDomainIDs),
		user.AccountID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert directory user: %w", err)
	}
	return nil
}

// Update はディレクトリユーザーを上書き更新する。
func (r *PostgresDirectoryUserRepo) Update(ctx context.Context, user *model.DirectoryUser) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE directory_users
		 SET name = $2, email = $3, type = $4,
		     assigned_project_ids = $5, assigned_domain_ids = $6,
		     account_id = $7, updated_at = $8
		 WHERE id = $1`,
		user.ID, user.Name, user.Email, user.Type,
		pq.Array(user.AssignedProjectIDs), pq.Array(user.AssignedDomainIDs),
		user.AccountID, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update directory user: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのディレクトリユーザーを削除する。削除された場合はtrueを返す。
func (r *PostgresDirectoryUserRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM directory_users WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete directory user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ DirectoryUserRepository = (*PostgresDirectoryUserRepo)(nil)
