package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/riskwatch/internal/model"
)

// PostgresCustomerRepo はPostgreSQLを使用した顧客リポジトリ。
type PostgresCustomerRepo struct {
	db *sql.DB
}

// NewPostgresCustomerRepo はPostgresCustomerRepoを生成する。
func NewPostgresCustomerRepo(db *sql.DB) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{db: db}
}

// List は全顧客を作成日時昇順で返す。
func (r *PostgresCustomerRepo) List(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, priority, sentiment_score, risk_status, created_at, updated_at
		 FROM customers ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*model.Customer
	for rows.Next() {
		c := &model.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Priority, &c.SentimentScore,
			&c.RiskStatus, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}

// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
func (r *PostgresCustomerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	c := &model.Customer{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, priority, sentiment_score, risk_status, created_at, updated_at
		 FROM customers WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.Priority, &c.SentimentScore, &c.RiskStatus, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	return c, nil
}

// Create は顧客を作成する。
func (r *PostgresCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, priority, sentiment_score, risk_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		customer.ID, customer.Name, customer.Priority, customer.SentimentScore,
		customer.RiskStatus, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// Update は顧客を上書き更新する。
func (r *PostgresCustomerRepo) Update(ctx context.Context, customer *model.Customer) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers
		 SET name = $2, priority = $3, sentiment_score = $4, risk_status = $5, updated_at = $6
		 WHERE id = $1`,
		customer.ID, customer.Name, customer.Priority, customer.SentimentScore,
		customer.RiskStatus, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

// DeleteByID は指定IDの顧客を削除する。削除された場合はtrueを返す。
func (r *PostgresCustomerRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM customers WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ CustomerRepository = (*PostgresCustomerRepo)(nil)
