// Package project はプロジェクト管理のドメインロジックを提供する。
package project

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
)

// CreateInput はプロジェクト作成の入力値。
type CreateInput struct {
	Name       string
	Status     string
	CustomerID string
}

// UpdateInput はプロジェクト更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	Name       *string
	Status     *string
	CustomerID *string
}

// Service はプロジェクト管理のサービス層。
// 参照先の顧客の存在確認のため顧客リポジトリにも依存する。
type Service struct {
	projects  repository.ProjectRepository
	customers repository.CustomerRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(projects repository.ProjectRepository, customers repository.CustomerRepository) *Service {
	return &Service{projects: projects, customers: customers}
}

// List はプロジェクト一覧を顧客名付きで返す。
// customerIDが空でない場合はその顧客のプロジェクトに絞り込む。
func (s *Service) List(ctx context.Context, customerID string) ([]model.ProjectWithCustomer, error) {
	if customerID != "" {
		if _, err := uuid.Parse(customerID); err != nil {
			return nil, model.NewValidationError("Invalid ID format")
		}
	}

	projects, err := s.projects.ListWithCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get は指定IDのプロジェクトを顧客名付きで返す。
func (s *Service) Get(ctx context.Context, id string) (*model.ProjectWithCustomer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	project, err := s.projects.FindByIDWithCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, model.NewProjectNotFoundError()
	}

	return project, nil
}

// Create はプロジェクトを作成する。参照先の顧客が存在する必要がある。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.ProjectWithCustomer, error) {
	if input.Name == "" || input.CustomerID == "" {
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

	status := input.Status
	if status == "" {
		status = model.DefaultProjectStatus
	}

	now := time.Now()
	project := &model.Project{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Status:     status,
		CustomerID: input.CustomerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	slog.Info("project created",
		slog.String("project_id", project.ID),
		slog.String("customer_id", project.CustomerID),
	)

	return &model.ProjectWithCustomer{Project: *project, CustomerName: customer.Name}, nil
}

// Update はプロジェクトの指定されたフィールドを更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.ProjectWithCustomer, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	project := existing.Project
	customerName := existing.CustomerName

	if input.Name != nil {
		if *input.Name == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		project.Name = *input.Name
	}
	if input.Status != nil {
		project.Status = *input.Status
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
		project.CustomerID = *input.CustomerID
		customerName = customer.Name
	}
	project.UpdatedAt = time.Now()

	if err := s.projects.Update(ctx, &project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return &model.ProjectWithCustomer{Project: project, CustomerName: customerName}, nil
}

// Delete は指定IDのプロジェクトを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	deleted, err := s.projects.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if !deleted {
		return model.NewProjectNotFoundError()
	}

	slog.Info("project deleted", slog.String("project_id", id))
	return nil
}
