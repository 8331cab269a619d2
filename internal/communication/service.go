// Package communication はコミュニケーション（メール・議事録）取り込みと
// 管理のドメインロジックを提供する。
package communication

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/riskwatch/internal/metrics"
	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
	"github.com/hitoshi/riskwatch/internal/security"
)

// EmailInput はメール取り込みの入力値。
type EmailInput struct {
	Content    string
	Subject    string
	Sender     string
	OccurredAt *time.Time
	ProjectID  string
	DomainID   string
	CustomerID string
}

// TranscriptInput は議事録取り込みの入力値。
type TranscriptInput struct {
	Content      string
	MeetingDate  string
	Participants []string
	OccurredAt   *time.Time
	ProjectID    string
	DomainID     string
	CustomerID   string
}

// UpdateInput はコミュニケーション更新の入力値。nilのフィールドは変更しない。
// 種別（type）は作成後に変更できない。
type UpdateInput struct {
	Content      *string
	OccurredAt   *time.Time
	Subject      *string
	Sender       *string
	MeetingDate  *string
	Participants []string
}

// Service はコミュニケーション管理のサービス層。
// メール本文はサニタイズして保存する。議事録はプレーンテキストとして扱う。
// SentimentとSummaryはNLP解析（スコープ外）が書き込むまでNULLのまま。
type Service struct {
	comms     repository.CommunicationRepository
	projects  repository.ProjectRepository
	domains   repository.DomainRepository
	customers repository.CustomerRepository
	sanitizer security.ContentSanitizerService
	collector metrics.MetricsCollector
}

// NewService はServiceの新しいインスタンスを生成する。
// collectorはnil可（テスト用）。
func NewService(
	comms repository.CommunicationRepository,
	projects repository.ProjectRepository,
	domains repository.DomainRepository,
	customers repository.CustomerRepository,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		comms:     comms,
		projects:  projects,
		domains:   domains,
		customers: customers,
		sanitizer: sanitizer,
		collector: collector,
	}
}

// List はコミュニケーション一覧を参照先の表示名付きで返す。
func (s *Service) List(ctx context.Context, filter model.CommunicationFilter) ([]model.CommunicationWithRefs, error) {
	if filter.Type != "" && !model.ValidCommunicationType(filter.Type) {
		return nil, model.NewValidationError("Invalid communication type")
	}
	for _, id := range []string{filter.ProjectID, filter.DomainID, filter.CustomerID} {
		if id == "" {
			continue
		}
		if _, err := uuid.Parse(id); err != nil {
			return nil, model.NewValidationError("Invalid ID format")
		}
	}

	comms, err := s.comms.ListWithRefs(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list communications: %w", err)
	}
	return comms, nil
}

// Get は指定IDのコミュニケーションを参照先の表示名付きで返す。
func (s *Service) Get(ctx context.Context, id string) (*model.CommunicationWithRefs, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	comm, err := s.comms.FindByIDWithRefs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find communication: %w", err)
	}
	if comm == nil {
		return nil, model.NewCommunicationNotFoundError()
	}

	return comm, nil
}

// CreateEmail はメールを取り込む。HTML本文はサニタイズして保存する。
func (s *Service) CreateEmail(ctx context.Context, input EmailInput) (*model.CommunicationWithRefs, error) {
	if input.Content == "" || input.Subject == "" || input.Sender == "" ||
		input.ProjectID == "" || input.DomainID == "" || input.CustomerID == "" {
		return nil, model.NewValidationError("All fields required!")
	}

	refs, err := s.resolveRefs(ctx, input.ProjectID, input.DomainID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	comm := &model.Communication{
		ID:         uuid.New().String(),
		Type:       model.CommunicationTypeEmail,
		Content:    s.sanitizer.Sanitize(input.Content),
		OccurredAt: occurredAt,
		ProjectID:  input.ProjectID,
		DomainID:   input.DomainID,
		CustomerID: input.CustomerID,
		Subject:    input.Subject,
		Sender:     input.Sender,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.create(ctx, comm); err != nil {
		return nil, err
	}

	return &model.CommunicationWithRefs{
		Communication: *comm,
		ProjectName:   refs.projectName,
		DomainName:    refs.domainName,
		CustomerName:  refs.customerName,
	}, nil
}

// CreateTranscript は議事録を取り込む。本文は加工せずそのまま保存する。
func (s *Service) CreateTranscript(ctx context.Context, input TranscriptInput) (*model.CommunicationWithRefs, error) {
	if input.Content == "" || input.MeetingDate == "" || len(input.Participants) == 0 ||
		input.ProjectID == "" || input.DomainID == "" || input.CustomerID == "" {
		return nil, model.NewValidationError("All fields required!")
	}

	refs, err := s.resolveRefs(ctx, input.ProjectID, input.DomainID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}

	comm := &model.Communication{
		ID:           uuid.New().String(),
		Type:         model.CommunicationTypeTranscript,
		Content:      input.Content,
		OccurredAt:   occurredAt,
		ProjectID:    input.ProjectID,
		DomainID:     input.DomainID,
		CustomerID:   input.CustomerID,
		MeetingDate:  input.MeetingDate,
		Participants: input.Participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.create(ctx, comm); err != nil {
		return nil, err
	}

	return &model.CommunicationWithRefs{
		Communication: *comm,
		ProjectName:   refs.projectName,
		DomainName:    refs.domainName,
		CustomerName:  refs.customerName,
	}, nil
}

// Update はコミュニケーションの指定されたフィールドを更新する。
// メールの本文を更新する場合は再サニタイズされる。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.CommunicationWithRefs, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	comm := existing.Communication

	if input.Content != nil {
		if *input.Content == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		if comm.Type == model.CommunicationTypeEmail {
			comm.Content = s.sanitizer.Sanitize(*input.Content)
		} else {
			comm.Content = *input.Content
		}
	}
	if input.OccurredAt != nil {
		comm.OccurredAt = *input.OccurredAt
	}
	if input.Subject != nil {
		comm.Subject = *input.Subject
	}
	if input.Sender != nil {
		comm.Sender = *input.Sender
	}
	if input.MeetingDate != nil {
		comm.MeetingDate = *input.MeetingDate
	}
	if input.Participants != nil {
		comm.Participants = input.Participants
	}
	comm.UpdatedAt = time.Now()

	if err := s.comms.Update(ctx, &comm); err != nil {
		return nil, fmt.Errorf("failed to update communication: %w", err)
	}

	return &model.CommunicationWithRefs{
		Communication: comm,
		ProjectName:   existing.ProjectName,
		DomainName:    existing.DomainName,
		CustomerName:  existing.CustomerName,
	}, nil
}

// Delete は指定IDのコミュニケーションを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	deleted, err := s.comms.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete communication: %w", err)
	}
	if !deleted {
		return model.NewCommunicationNotFoundError()
	}

	slog.Info("communication deleted", slog.String("communication_id", id))
	return nil
}

// create は永続化とメトリクス記録を行う。
func (s *Service) create(ctx context.Context, comm *model.Communication) error {
	if err := s.comms.Create(ctx, comm); err != nil {
		return fmt.Errorf("failed to create communication: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordCommunicationIngested(string(comm.Type))
	}

	slog.Info("communication ingested",
		slog.String("communication_id", comm.ID),
		slog.String("type", string(comm.Type)),
		slog.String("customer_id", comm.CustomerID),
	)

	return nil
}

// resolvedRefs は参照先エンティティの表示名。
type resolvedRefs struct {
	projectName  string
	domainName   string
	customerName string
}

// resolveRefs は参照先3エンティティのID形式と存在を検証し、表示名を返す。
func (s *Service) resolveRefs(ctx context.Context, projectID, domainID, customerID string) (*resolvedRefs, error) {
	for _, id := range []string{projectID, domainID, customerID} {
		if _, err := uuid.Parse(id); err != nil {
			return nil, model.NewValidationError("Invalid ID format")
		}
	}

	project, err := s.projects.FindByIDWithCustomer(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError()
	}

	d, err := s.domains.FindByID(ctx, domainID)
	if err != nil {
		return nil, fmt.Errorf("failed to find domain: %w", err)
	}
	if d == nil {
		return nil, model.NewDomainNotFoundError()
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer == nil {
		return nil, model.NewCustomerNotFoundError()
	}

	return &resolvedRefs{
		projectName:  project.Name,
		domainName:   d.Name,
		customerName: customer.Name,
	}, nil
}
