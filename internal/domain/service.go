// Package domain は業務ドメイン管理のドメインロジックを提供する。
package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
)

// CreateInput はドメイン作成の入力値。
type CreateInput struct {
	Name string
}

// UpdateInput はドメイン更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	Name *string
}

// Service は業務ドメイン管理のサービス層。
type Service struct {
	domains repository.DomainRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(domains repository.DomainRepository) *Service {
	return &Service{domains: domains}
}

// List は全ドメインを返す。
func (s *Service) List(ctx context.Context) ([]*model.Domain, error) {
	domains, err := s.domains.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	return domains, nil
}

// Get は指定IDのドメインを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Domain, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	d, err := s.domains.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find domain: %w", err)
	}
	if d == nil {
		return nil, model.NewDomainNotFoundError()
	}

	return d, nil
}

// Create はドメインを作成する。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Domain, error) {
	if input.Name == "" {
		return nil, model.NewValidationError("All fields required!")
	}

	now := time.Now()
	d := &model.Domain{
		ID:        uuid.New().String(),
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.domains.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create domain: %w", err)
	}

	slog.Info("domain created",
		slog.String("domain_id", d.ID),
		slog.String("name", d.Name),
	)

	return d, nil
}

// Update はドメインの指定されたフィールドを更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.Domain, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		d.Name = *input.Name
	}
	d.UpdatedAt = time.Now()

	if err := s.domains.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update domain: %w", err)
	}

	return d, nil
}

// Delete は指定IDのドメインを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	deleted, err := s.domains.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete domain: %w", err)
	}
	if !deleted {
		return model.NewDomainNotFoundError()
	}

	slog.Info("domain deleted", slog.String("domain_id", id))
	return nil
}
