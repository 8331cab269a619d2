package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/repository"
)

// RegisterInput は登録リクエストの入力値。
type RegisterInput struct {
	Username string
	Email    string
	Fullname string
	Password string
	Role     string
}

// LoginInput はログインリクエストの入力値。
// Nameにはusernameまたはemailのどちらでも指定できる。
type LoginInput struct {
	Name     string
	Password string
}

// Service は登録・ログイン・アカウント参照のビジネスロジックを提供する。
type Service struct {
	accountRepo repository.AccountRepository
	tokens      *TokenManager
	bcryptCost  int
}

// NewService はServiceを生成する。
func NewService(accountRepo repository.AccountRepository, tokens *TokenManager, bcryptCost int) *Service {
	return &Service{
		accountRepo: accountRepo,
		tokens:      tokens,
		bcryptCost:  bcryptCost,
	}
}

// Register はアカウントを作成し、セッショントークンを発行する。
// 重複チェックは2段構え: 事前問い合わせで早期に弾き、
// INSERT時の一意制約違反を最終権威として同じエラーに正規化する。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.Account, string, error) {
	if input.Username == "" || input.Email == "" || input.Fullname == "" ||
		input.Password == "" || input.Role == "" {
		return nil, "", model.NewValidationError("All fields required!")
	}

	exists, err := s.accountRepo.ExistsByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check account existence: %w", err)
	}
	if exists {
		return nil, "", model.NewDuplicateAccountError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &model.Account{
		ID:           uuid.New().String(),
		Username:     input.Username,
		Email:        input.Email,
		Fullname:     input.Fullname,
		PasswordHash: string(hash),
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if err == repository.ErrDuplicateAccount {
			// 事前チェックをすり抜けた並行登録。一意インデックスが最終権威。
			return nil, "", model.NewDuplicateAccountError()
		}
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("account registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return account, token, nil
}

// Login は資格情報を検証し、セッショントークンを発行する。
func (s *Service) Login(ctx context.Context, input LoginInput) (*model.Account, string, error) {
	if input.Name == "" || input.Password == "" {
		return nil, "", model.NewValidationError("All Fields Required!")
	}

	account, err := s.accountRepo.FindByUsernameOrEmail(ctx, input.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, "", model.NewAccountNotFoundError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", model.NewIncorrectPasswordError()
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("account logged in",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	return account, token, nil
}

// CurrentAccount は検証済みクレームから現在のアカウントを取得する。
func (s *Service) CurrentAccount(ctx context.Context, claims *model.TokenClaims) (*model.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, model.NewAccountNotFoundError()
	}

	return account, nil
}
