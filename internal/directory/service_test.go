package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/riskwatch/internal/model"
)

// mockDirectoryUserRepo はrepository.DirectoryUserRepositoryのモック実装。
type mockDirectoryUserRepo struct {
	listFn       func(ctx context.Context) ([]*model.DirectoryUser, error)
	findByIDFn   func(ctx context.Context, id string) (*model.DirectoryUser, error)
	createFn     func(ctx context.Context, user *model.DirectoryUser) error
	updateFn     func(ctx context.Context, user *model.DirectoryUser) error
	deleteByIDFn func(ctx context.Context, id string) (bool, error)
}

func (m *mockDirectoryUserRepo) List(ctx context.Context) ([]*model.DirectoryUser, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockDirectoryUserRepo) FindByID(ctx context.Context, id string) (*model.DirectoryUser, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDirectoryUserRepo) Create(ctx context.Context, user *model.DirectoryUser) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockDirectoryUserRepo) Update(ctx context.Context, user *model.DirectoryUser) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockDirectoryUserRepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return false, nil
}

// mockAccountRepo はリンク検証用の最小モック。
type mockAccountRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Account, error)
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockAccountRepo) FindByUsernameOrEmail(ctx context.Context, name string) (*model.Account, error) {
	return nil, nil
}
func (m *mockAccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return false, nil
}
func (m *mockAccountRepo) Create(ctx context.Context, account *model.Account) error { return nil }

const (
	testUserID    = "8d7c6b5a-4e3f-4d2c-9b1a-0f9e8d7c6b5a"
	testAccountID = "3e2a1f00-1111-4222-8333-444455556666"
	testProjectID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func validCreateInput() CreateInput {
	return CreateInput{
		Name:  "Tanaka Hitoshi",
		Email: "tanaka@example.com",
		Type:  "Staff",
	}
}

func TestService_Create_Success(t *testing.T) {
	var created *model.DirectoryUser
	svc := NewService(&mockDirectoryUserRepo{
		createFn: func(ctx context.Context, user *model.DirectoryUser) error {
			created = user
			return nil
		},
	}, &mockAccountRepo{})

	input := validCreateInput()
	input.AssignedProjectIDs = []string{testProjectID}
	user, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if user.Type != model.UserTypeStaff {
		t.Errorf("Type = %q, want Staff", user.Type)
	}
	if len(user.AssignedProjectIDs) != 1 {
		t.Errorf("AssignedProjectIDs = %v", user.AssignedProjectIDs)
	}
}

func TestService_Create_InvalidUserType(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{
		createFn: func(ctx context.Context, user *model.DirectoryUser) error {
			t.Error("store must not be touched")
			return nil
		},
	}, &mockAccountRepo{})

	input := validCreateInput()
	input.Type = "Admin"
	_, err := svc.Create(context.Background(), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
	if apiErr.Message != "Invalid user type" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Invalid user type")
	}
}

func TestService_Create_MissingFields(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{}, &mockAccountRepo{})

	inputs := []CreateInput{
		{Email: "a@example.com", Type: "User"},
		{Name: "A", Type: "User"},
		{Name: "A", Email: "a@example.com"},
	}
	for _, input := range inputs {
		_, err := svc.Create(context.Background(), input)

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
			t.Errorf("Create(%+v) error = %v, want validation error", input, err)
		}
	}
}

func TestService_Create_InvalidAssignedID(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{}, &mockAccountRepo{})

	input := validCreateInput()
	input.AssignedDomainIDs = []string{"not-a-uuid"}
	_, err := svc.Create(context.Background(), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
	if apiErr.Message != "Invalid ID format" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestService_Create_LinkedAccountMissing(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{}, &mockAccountRepo{})

	accountID := testAccountID
	input := validCreateInput()
	input.AccountID = &accountID
	_, err := svc.Create(context.Background(), input)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
	if apiErr.Message != "Linked account does not exist" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestService_Create_LinkedAccountExists(t *testing.T) {
	accounts := &mockAccountRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Account, error) {
			return &model.Account{ID: id, Username: "hitoshi"}, nil
		},
	}
	svc := NewService(&mockDirectoryUserRepo{}, accounts)

	accountID := testAccountID
	input := validCreateInput()
	input.AccountID = &accountID
	user, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.AccountID == nil || *user.AccountID != testAccountID {
		t.Errorf("AccountID = %v, want %q", user.AccountID, testAccountID)
	}
}

func storedUser() *model.DirectoryUser {
	now := time.Now()
	return &model.DirectoryUser{
		ID:                 testUserID,
		Name:               "Tanaka Hitoshi",
		Email:              "tanaka@example.com",
		Type:               model.UserTypeStaff,
		AssignedProjectIDs: []string{testProjectID},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func TestService_Update_ReplacesAssignedLists(t *testing.T) {
	var updated *model.DirectoryUser
	svc := NewService(&mockDirectoryUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.DirectoryUser, error) {
			return storedUser(), nil
		},
		updateFn: func(ctx context.Context, user *model.DirectoryUser) error {
			updated = user
			return nil
		},
	}, &mockAccountRepo{})

	got, err := svc.Update(context.Background(), testUserID, UpdateInput{
		AssignedProjectIDs: []string{},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("expected Update to be called")
	}
	// 非nilのリストは全置換される
	if len(got.AssignedProjectIDs) != 0 {
		t.Errorf("AssignedProjectIDs = %v, want empty", got.AssignedProjectIDs)
	}
	if got.Name != "Tanaka Hitoshi" {
		t.Errorf("unspecified Name changed: %q", got.Name)
	}
}

func TestService_Update_InvalidType(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.DirectoryUser, error) {
			return storedUser(), nil
		},
	}, &mockAccountRepo{})

	badType := "Owner"
	_, err := svc.Update(context.Background(), testUserID, UpdateInput{Type: &badType})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Fatalf("error = %v, want validation error", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{}, &mockAccountRepo{})

	_, err := svc.Get(context.Background(), testUserID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("error = %v, want user not found error", err)
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(&mockDirectoryUserRepo{}, &mockAccountRepo{})

	err := svc.Delete(context.Background(), testUserID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Fatalf("error = %v, want user not found error", err)
	}
}
