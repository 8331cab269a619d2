package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/riskwatch/internal/model"
)

// PostgresDomainRepo はPostgreSQLを使用した業務ドメインリポジトリ。
type PostgresDomainRepo struct {
	db *sql.DB
}

// NewPostgresDomainRepo はPostgresDomainRepoを生成する。
func NewPostgresDomainRepo(db *sql.DB) *PostgresDomainRepo {
	return &PostgresDomainRepo{db: db}
}

// List は全ドメインを作成日時昇順で返す。
func (r *PostgresDomainRepo) List(ctx context.Context) ([]*model.Domain, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM domains ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []*model.Domain
	for rows.Next() {
		d := &model.Domain{}
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan domain: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate domains: %w", err)
	}

	return domains, nil
}

// FindByID は指定IDのドメインを取得する。見つからない場合はnilを返す。
func (r *PostgresDomainRepo) FindByID(ctx context.Context, id string) (*model.Domain, error) {
	d := &model.Domain{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM domains WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.Name, &d.CreatedAt, &d.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find domain: %w", err)
	}

	return d, nil
}

// Create はドメインを作成する。
func (r *PostgresDomainRepo) Create(ctx context.Context, domain *model.Domain) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO domains (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		domain.ID, domain.Name, domain.CreatedAt, domain.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert domain: %w", err)
	}
	return nil
}

// Update はドメインを上書き更新する。
func (r *PostgresDomainRepo) Update(ctx context.Context, domain *model.Domain) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE domains SET name = $2, updated_at = $3 WHERE id = $1`,
		domain.ID, domain.Name, domain.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update domain: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのドメインを削除する。削除された場合はtrueを返す。
func (r *PostgresDomainRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM domains WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete domain: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ DomainRepository = (*PostgresDomainRepo)(nil)
