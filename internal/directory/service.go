// Package directory は組織ディレクトリユーザー管理のドメインロジックを提供する。
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
)

// CreateInput はディレクトリユーザー作成の入力値。
type CreateInput struct {
	Name               string
	Email              string
	Type               string
	AssignedProjectIDs []string
	AssignedDomainIDs  []string
	AccountID          *string
}

// UpdateInput はディレクトリユーザー更新の入力値。nilのフィールドは変更しない。
type UpdateInput struct {
	Name               *string
	Email              *string
	Type               *string
	AssignedProjectIDs []string
	AssignedDomainIDs  []string
	AccountID          *string
}

// Service はディレクトリユーザー管理のサービス層。
// 資格情報レコードへのリンク検証のためアカウントリポジトリにも依存する。
type Service struct {
	users    repository.DirectoryUserRepository
	accounts repository.AccountRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(users repository.DirectoryUserRepository, accounts repository.AccountRepository) *Service {
	return &Service{users: users, accounts: accounts}
}

// List は全ディレクトリユーザーを返す。
func (s *Service) List(ctx context.Context) ([]*model.DirectoryUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory users: %w", err)
	}
	return users, nil
}

// Get は指定IDのディレクトリユーザーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.DirectoryUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.NewValidationError("Invalid ID format")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find directory user: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// Create はディレクトリユーザーを作成する。
// typeは既知の種別のみ許可。accountIdを指定する場合は実在する資格情報
// レコードを参照している必要がある。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.DirectoryUser, error) {
	if input.Name == "" || input.Email == "" || input.Type == "" {
		return nil, model.NewValidationError("All fields required!")
	}
	if !model.ValidUserType(input.Type) {
		return nil, model.NewValidationError("Invalid user type")
	}
	if err := validateIDList(input.AssignedProjectIDs); err != nil {
		return nil, err
	}
	if err := validateIDList(input.AssignedDomainIDs); err != nil {
		return nil, err
	}
	if err := s.validateAccountLink(ctx, input.AccountID); err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.DirectoryUser{
		ID:                 uuid.New().String(),
		Name:               input.Name,
		Email:              input.Email,
		Type:               model.UserType(input.Type),
		AssignedProjectIDs: input.AssignedProjectIDs,
		AssignedDomainIDs:  input.AssignedDomainIDs,
		AccountID:          input.AccountID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create directory user: %w", err)
	}

	slog.Info("directory user created",
		slog.String("user_id", user.ID),
		slog.String("type", string(user.Type)),
	)

	return user, nil
}

// Update はディレクトリユーザーの指定されたフィールドを更新する。
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*model.DirectoryUser, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		user.Name = *input.Name
	}
	if input.Email != nil {
		if *input.Email == "" {
			return nil, model.NewValidationError("All fields required!")
		}
		user.Email = *input.Email
	}
	if input.Type != nil {
		if !model.ValidUserType(*input.Type) {
			return nil, model.NewValidationError("Invalid user type")
		}
		user.Type = model.UserType(*input.Type)
	}
	if input.AssignedProjectIDs != nil {
		if err := validateIDList(input.AssignedProjectIDs); err != nil {
			return nil, err
		}
		user.AssignedProjectIDs = input.AssignedProjectIDs
	}
	if input.AssignedDomainIDs != nil {
		if err := validateIDList(input.AssignedDomainIDs); err != nil {
			return nil, err
		}
		user.AssignedDomainIDs = input.AssignedDomainIDs
	}
	if input.AccountID != nil {
		if err := s.validateAccountLink(ctx, input.AccountID); err != nil {
			return nil, err
		}
		user.AccountID = input.AccountID
	}
	user.UpdatedAt = time.Now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update directory user: %w", err)
	}

	return user, nil
}

// Delete は指定IDのディレクトリユーザーを削除する。
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	deleted, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete directory user: %w", err)
	}
	if !deleted {
		return model.NewUserNotFoundError()
	}

	slog.Info("directory user deleted", slog.String("user_id", id))
	return nil
}

// validateIDList はUUIDリストの形式を検証する。
func validateIDList(ids []string) error {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return model.NewValidationError("Invalid ID format")
		}
	}
	return nil
}

// validateAccountLink はリンク先アカウントの形式と存在を検証する。
func (s *Service) validateAccountLink(ctx context.Context, accountID *string) error {
	if accountID == nil || *accountID == "" {
		return nil
	}
	if _, err := uuid.Parse(*accountID); err != nil {
		return model.NewValidationError("Invalid ID format")
	}

	account, err := s.accounts.FindByID(ctx, *accountID)
	if err != nil {
		return fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return model.NewValidationError("Linked account does not exist")
	}

	return nil
}
