package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/riskwatch/internal/model"
)

// PostgresProjectRepo はPostgreSQLを使用したプロジェクトリポジトリ。
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo はPostgresProjectRepoを生成する。
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// ListWithCustomer はプロジェクト一覧を顧客名付きで返す。
// customerIDが空でない場合はその顧客のプロジェクトに絞り込む。
func (r *PostgresProjectRepo) ListWithCustomer(ctx context.Context, customerID string) ([]model.ProjectWithCustomer, error) {
	query := `SELECT p.id, p.name, p.status, p.customer_id, p.created_at, p.updated_at, c.name
		 FROM projects p
		 JOIN customers c ON c.id = p.customer_id`
	args := []any{}
	if customerID != "" {
		query += ` WHERE p.customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY p.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.ProjectWithCustomer
	for rows.Next() {
		var p model.ProjectWithCustomer
		if err := rows.Scan(&p.ID, &p.Name, &p.Status, &p.CustomerID,
			&p.CreatedAt, &p.UpdatedAt, &p.CustomerName); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	return projects, nil
}

// FindByIDWithCustomer は指定IDのプロジェクトを顧客名付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresProjectRepo) FindByIDWithCustomer(ctx context.Context, id string) (*model.ProjectWithCustomer, error) {
	p := &model.ProjectWithCustomer{}
	err := r.db.QueryRowContext(ctx,
		`SELECT p.id, p.name, p.status, p.customer_id, p.created_at, p.updated_at, c.name
		 FROM projects p
		 JOIN customers c ON c.id = p.customer_id
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Status, &p.CustomerID, &p.CreatedAt, &p.UpdatedAt, &p.CustomerName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return p, nil
}

// Create はプロジェクトを作成する。
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, status, customer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		project.ID, project.Name, project.Status, project.CustomerID,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// Update はプロジェクトを上書き更新する。
func (r *PostgresProjectRepo) Update(ctx context.Context, project *model.Project) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET name = $2, status = $3, customer_id = $4, updated_at = $5
		 WHERE id = $1`,
		project.ID, project.Name, project.Status, project.CustomerID, project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのプロジェクトを削除する。削除された場合はtrueを返す。
func (r *PostgresProjectRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
