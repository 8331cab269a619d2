package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/riskwatch/internal/model"
)

// PostgresSLARepo はPostgreSQLを使用したSLAリポジトリ。
type PostgresSLARepo struct {
	db *sql.DB
}

// NewPostgresSLARepo はPostgresSLARepoを生成する。
func NewPostgresSLARepo(db *sql.DB) *PostgresSLARepo {
	return &PostgresSLARepo{db: db}
}

// ListWithCustomer はSLA一覧を顧客名付きで返す。
// customerIDが空でない場合はその顧客のSLAに絞り込む。
func (r *PostgresSLARepo) ListWithCustomer(ctx context.Context, customerID string) ([]model.SLAWithCustomer, error) {
	query := `SELECT s.id, s.response_time, s.deadline, s.risk_threshold, s.customer_id,
		 s.created_at, s.updated_at, c.name
		 FROM slas s
		 JOIN customers c ON c.id = s.customer_id`
	args := []any{}
	if customerID != "" {
		query += ` WHERE s.customer_id = $1`
		args = append(args, customerID)
	}
	query += ` ORDER BY s.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slas: %w", err)
	}
	defer rows.Close()

	var slas []model.SLAWithCustomer
	for rows.Next() {
		var s model.SLAWithCustomer
		if err := rows.Scan(&s.ID, &s.ResponseTime, &s.Deadline, &s.RiskThreshold,
			&s.CustomerID, &s.CreatedAt, &s.UpdatedAt, &s.CustomerName); err != nil {
			return nil, fmt.Errorf("failed to scan sla: %w", err)
		}
		slas = append(slas, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate slas: %w", err)
	}

	return slas, nil
}

// FindByIDWithCustomer は指定IDのSLAを顧客名付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresSLARepo) FindByIDWithCustomer(ctx context.Context, id string) (*model.SLAWithCustomer, error) {
	s := &model.SLAWithCustomer{}
	err := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.response_time, s.deadline, s.risk_threshold, s.customer_id,
		 s.created_at, s.updated_at, c.name
		 FROM slas s
		 JOIN customers c ON c.id = s.customer_id
		 WHERE s.id = $1`,
		id,
	).Scan(&s.ID, &s.ResponseTime, &s.Deadline, &s.RiskThreshold,
		&s.CustomerID, &s.CreatedAt, &s.UpdatedAt, &s.CustomerName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sla: %w", err)
	}

	return s, nil
}

// Create はSLAを作成する。
func (r *PostgresSLARepo) Create(ctx context.Context, sla *model.SLA) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO slas (id, response_time, deadline, risk_threshold, customer_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sla.ID, sla.ResponseTime, sla.Deadline, sla.RiskThreshold, sla.CustomerID,
		sla.CreatedAt, sla.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sla: %w", err)
	}
	return nil
}

// Update はSLAを上書き更新する。
func (r *PostgresSLARepo) Update(ctx context.Context, sla *model.SLA) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE slas
		 SET response_time = $2, deadline = $3, risk_threshold = $4, customer_id = $5, updated_at = $6
		 WHERE id = $1`,
		sla.ID, sla.ResponseTime, sla.Deadline, sla.RiskThreshold, sla.CustomerID, sla.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update sla: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのSLAを削除する。削除された場合はtrueを返す。
func (r *PostgresSLARepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM slas WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete sla: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ SLARepository = (*PostgresSLARepo)(nil)
