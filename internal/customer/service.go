// Package customer は顧客管理のドメインロジックを提供する。
package customer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
)

// CreateInput は顧客作成の入力値。
type CreateInput struct {
	Name           string
	Priority       string
	SentimentScore *float64
	RiskStatus     *string
}

// UpdateInput は顧客更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	Name           *string
	Priority       *string
	SentimentScore *float64
	RiskStatus     *string
}

// Service は顧客管理のサービス層。
type Service struct {
	customers repository.CustomerRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(customers repository.CustomerRepository) *Service {
	return &Service{customers: customers}
}

// List は全顧客を返す。
func (s *Service) List(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Get は指定IDの顧客を返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	if customer == nil {
		return nil, model.NewCustomerNotFoundError()
	}

	return customer, nil
}

// Create は顧客を作成する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Customer, error) {
	if input.Name == "" {
		return nil, model.NewValidationError("All fields required!")
	}

	priority := input.Priority
	if priority == "" {
		priority = model.DefaultCustomerPriority
	}

	now := time.Now()
	customer := &model.Customer{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Priority:       priority,
		SentimentScore: input.SentimentScore,
		RiskStatus:     input.RiskStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	slog.Info("customer created",
		slog.String("customer_id", customer.ID),
		slog.String("name", customer.Name),
	)

	return customer, nil
}

// Update は顧客の指定されたフィールドを更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		customer.Name = *input.Name
	}
	if input.Priority != nil {
		customer.Priority = *input.Priority
	}
	if input.SentimentScore != nil {
		customer.SentimentScore = input.SentimentScore
	}
	if input.RiskStatus != nil {
		customer.RiskStatus = input.RiskStatus
	}
	customer.UpdatedAt = time.Now()

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// Delete は指定IDの顧客を削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	deleted, err := s.customers.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !deleted {
		return model.NewCustomerNotFoundError()
	}

	slog.Info("customer deleted", slog.String("customer_id", id))
	return nil
}
