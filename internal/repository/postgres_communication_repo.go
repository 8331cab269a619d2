package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/hitoshi/riskwatch/internal/model"
)

// PostgresCommunicationRepo はPostgreSQLを使用したコミュニケーションリポジトリ。
type PostgresCommunicationRepo struct {
	db *sql.DB
}

// NewPostgresCommunicationRepo はPostgresCommunicationRepoを生成する。
func NewPostgresCommunicationRepo(db *sql.DB) *PostgresCommunicationRepo {
	return &PostgresCommunicationRepo{db: db}
}

const communicationSelectColumns = `m.id, m.type, m.content, m.occurred_at,
	 m.project_id, m.domain_id, m.customer_id, m.sentiment, m.summary,
	 m.subject, m.sender, m.meeting_date, m.participants,
	 m.created_at, m.updated_at, p.name, d.name, c.name`

const communicationJoinClause = ` FROM communications m
	 JOIN projects p ON p.id = m.project_id
	 JOIN domains d ON d.id = m.domain_id
	 JOIN customers c ON c.id = m.customer_id`

// ListWithRefs はコミュニケーション一覧を参照先の表示名付きで返す。
// filterの非空フィールドをAND条件で組み立てる。
func (r *PostgresCommunicationRepo) ListWithRefs(ctx context.Context, filter model.CommunicationFilter) ([]model.CommunicationWithRefs, error) {
	query := `SELECT ` + communicationSelectColumns + communicationJoinClause

	var conds []string
	var args []any
	addCond := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addCond("m.type", filter.Type)
	addCond("m.project_id", filter.ProjectID)
	addCond("m.domain_id", filter.DomainID)
	addCond("m.customer_id", filter.CustomerID)

	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY m.occurred_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	defer rows.Close()

	var comms []model.CommunicationWithRefs
	for rows.Next() {
		var m model.CommunicationWithRefs
		if err := scanCommunication(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan communication: %w", err)
		}
		comms = append(comms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate communications: %w", err)
	}

	return comms, nil
}

// FindByIDWithRefs は指定IDのコミュニケーションを表示名付きで取得する。
// 見つからない場合はnilを返す。
func (r *PostgresCommunicationRepo) FindByIDWithRefs(ctx context.Context, id string) (*model.CommunicationWithRefs, error) {
	m := &model.CommunicationWithRefs{}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+communicationSelectColumns+communicationJoinClause+` WHERE m.id = $1`,
		id,
	)
	err := scanCommunication(row, m)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find communication: %w", err)
	}

	return m, nil
}

// scanner はsql.Rowとsql.Rowsに共通のScanを抽象化する。
type scanner interface {
	Scan(dest ...any) error
}

func scanCommunication(row scanner, m *model.CommunicationWithRefs) error {
	return row.Scan(&m.ID, &m.Type, &m.Content, &m.OccurredAt,
		&m.ProjectID, &m.DomainID, &m.CustomerID, &m.Sentiment, &m.Summary,
		&m.Subject, &m.Sender, &m.MeetingDate, pq.Array(&m.Participants),
		&m.CreatedAt, &m.UpdatedAt, &m.ProjectName, &m.DomainName, &m.CustomerName)
}

// Create はコミュニケーションを作成する。
func (r *PostgresCommunicationRepo) Create(ctx context.Context, comm *model.Communication) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO communications
		 (id, type, content, occurred_at, project_id, domain_id, customer_id,
		  sentiment, summary, subject, sender, meeting_date, participants,
		  created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		comm.ID, comm.Type, comm.Content, comm.OccurredAt,
		comm.ProjectID, comm.DomainID, comm.CustomerID,
		comm.Sentiment, comm.Summary, comm.Subject, comm.Sender,
		comm.MeetingDate, pq.Array(comm.Participants),
		comm.CreatedAt, comm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert communication: %w", err)
	}
	return nil
}

// Update はコミュニケーションを上書き更新する。
func (r *PostgresCommunicationRepo) Update(ctx context.Context, comm *model.Communication) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE communications
		 SET type = $2, content = $3, occurred_at = $4,
		     project_id = $5, domain_id = $6, customer_id = $7,
		     sentiment = $8, summary = $9, subject = $10, sender = $11,
		     meeting_date = $12, participants = $13, updated_at = $14
		 WHERE id = $1`,
		comm.ID, comm.Type, comm.Content, comm.OccurredAt,
		comm.ProjectID, comm.DomainID, comm.CustomerID,
		comm.Sentiment, comm.Summary, comm.Subject, comm.Sender,
		comm.MeetingDate, pq.Array(comm.Participants), comm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update communication: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのコミュニケーションを削除する。削除された場合はtrueを返す。
func (r *PostgresCommunicationRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM communications WHERE id = $1`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete communication: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// compile-time interface check
var _ CommunicationRepository = (*PostgresCommunicationRepo)(nil)
