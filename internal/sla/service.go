// Package sla はSLA管理のドメインロジックを提供する。
package sla

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
)

// CreateInput はSLA作成の入力値。
type CreateInput struct {
	ResponseTime  int
	Deadline      string
	RiskThreshold float64
	CustomerID    string
}

// UpdateInput はSLA更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	ResponseTime  *int
	Deadline      *string
	RiskThreshold *float64
	CustomerID    *string
}

// Service はSLA管理のサービス層。
// 参照先の顧客の存在確認のため顧客リポジトリにも依存する。
type Service struct {
	slas      repository.SLARepository
	customers repository.CustomerRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(slas repository.SLARepository, customers repository.CustomerRepository) *Service {
	return &Service{slas: slas, customers: customers}
}

// List はSLA一覧を顧客名付きで返す。
// customerIDが空でない場合はその顧客のSLAに絞り込む。
func (s *Service) List(ctx context.Context, customerID string) ([]model.SLAWithCustomer, error) {
	if customerID != "" {
		if _, err := uuid.Parse(customerID); err != nil {
			return nil, model.NewValidationError("Invalid ID format")
		}
	}

	slas, err := s.slas.ListWithCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slas: %w", err)
	}
	return slas, nil
}

// Get は指定IDのSLAを顧客名付きで返す。
func (s *Service) Get(ctx context.Context, id string) (*model.SLAWithCustomer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	sla, err := s.slas.FindByIDWithCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find sla: %w", err)
	}
	if sla == nil {
		return nil, model.NewSLANotFoundError()
	}

	return sla, nil
}

// Create はSLAを作成する。参照先の顧客が存在する必要がある。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.SLAWithCustomer, error) {
	if input.ResponseTime <= 0 || input.Deadline == "" || input.CustomerID == "" {
		return nil, model.NewValidationError("All fields required!")
	}
	if _, err := uuid.Parse(input.CustomerID); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer == nil {
		return nil, model.NewCustomerNotFoundError()
	}

	now := time.Now()
	sla := &model.SLA{
		ID:            uuid.New().String(),
		ResponseTime:  input.ResponseTime,
		Deadline:      input.Deadline,
		RiskThreshold: input.RiskThreshold,
		CustomerID:    input.CustomerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.slas.Create(ctx, sla); err != nil {
		return nil, fmt.Errorf("failed to create sla: %w", err)
	}

	slog.Info("sla created",
		slog.String("sla_id", sla.ID),
		slog.String("customer_id", sla.CustomerID),
	)

	return &model.SLAWithCustomer{SLA: *sla, CustomerName: customer.Name}, nil
}

// Update はSLAの指定されたフィールドを更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.SLAWithCustomer, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sla := existing.SLA
	customerName := existing.CustomerName

	if input.ResponseTime != nil {
		if *input.ResponseTime <= 0 {
			return nil, model.NewValidationError("All fields required!")
		}
		sla.ResponseTime = *input.ResponseTime
	}
	if input.Deadline != nil {
		if *input.Deadline == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		sla.Deadline = *input.Deadline
	}
	if input.RiskThreshold != nil {
		sla.RiskThreshold = *input.RiskThreshold
	}
	if input.CustomerID != nil {
		if _, err := uuid.Parse(*input.CustomerID); err != nil {
			return nil, model.NewValidationError("Invalid ID format")
		}
		customer, err := s.customers.FindByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to find customer: %w", err)
		}
		if customer == nil {
			return nil, model.NewCustomerNotFoundError()
		}
		sla.CustomerID = *input.CustomerID
		customerName = customer.Name
	}
	sla.UpdatedAt = time.Now()

	if err := s.slas.Update(ctx, &sla); err != nil {
		return nil, fmt.Errorf("failed to update sla: %w", err)
	}

	return &model.SLAWithCustomer{SLA: sla, CustomerName: customerName}, nil
}

// Delete は指定IDのSLAを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	deleted, err := s.slas.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sla: %w", err)
	}
	if !deleted {
		return model.NewSLANotFoundError()
	}

	slog.Info("sla deleted", slog.String("sla_id", id))
	return nil
}
