package sla

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/riskwatch/internal/model"
)

// mockSLARepo はrepository.SLARepositoryのモック実装。
type mockSLARepo struct {
	listWithCustomerFn     func(ctx context.Context, customerID string) ([]model.SLAWithCustomer, error)
	findByIDWithCustomerFn func(ctx context.Context, id string) (*model.SLAWithCustomer, error)
	createFn               func(ctx context.Context, sla *model.SLA) error
	updateFn               func(ctx context.Context, sla *model.SLA) error
	deleteByIDFn           func(ctx context.Context, id string) (bool, error)
}

func (m *mockSLARepo) ListWithCustomer(ctx context.Context, customerID string) ([]model.SLAWithCustomer, error) {
	if m.listWithCustomerFn != nil {
		return m.listWithCustomerFn(ctx, customerID)
	}
	return nil, nil
}

func (m *mockSLARepo) FindByIDWithCustomer(ctx context.Context, id string) (*model.SLAWithCustomer, error) {
	if m.findByIDWithCustomerFn != nil {
		return m.findByIDWithCustomerFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSLARepo) Create(ctx context.Context, sla *model.SLA) error {
	if m.createFn != nil {
		return m.createFn(ctx, sla)
	}
	return nil
}

func (m *mockSLARepo) Update(ctx context.Context, sla *model.SLA) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, sla)
	}
	return nil
}

func (m *mockSLARepo) DeleteByID(ctx context.Context, id string) (bool, error) {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return false, nil
}

// mockCustomerRepo は参照先存在確認用の最小モック。
type mockCustomerRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Customer, error)
}

func (m *mockCustomerRepo) List(ctx context.Context) ([]*model.Customer, error) { return nil, nil }
func (m *mockCustomerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockCustomerRepo) Create(ctx context.Context, customer *model.Customer) error { return nil }
func (m *mockCustomerRepo) Update(ctx context.Context, customer *model.Customer) error { return nil }
func (m *mockCustomerRepo) DeleteByID(ctx context.Context, id string) (bool, error)    { return false, nil }

const (
	testSLAID      = "2f1e0d9c-8b7a-4c6d-9e5f-4a3b2c1d0e9f"
	testCustomerID = "0b25c30f-1111-4222-8333-444455556666"
)

func existingCustomer() *mockCustomerRepo {
	return &mockCustomerRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Customer, error) {
			return &model.Customer{ID: id, Name: "Acme Corp"}, nil
		},
	}
}

func validCreateInput() CreateInput {
	return CreateInput{
		ResponseTime:  24,
		Deadline:      "2026-12-31",
		RiskThreshold: -0.5,
		CustomerID:    testCustomerID,
	}
}

func TestService_Create_Success(t *testing.T) {
	var created *model.SLA
	svc := NewService(&mockSLARepo{
		createFn: func(ctx context.Context, sla *model.SLA) error {
			created = sla
			return nil
		},
	}, existingCustomer())

	got, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created == nil {
		t.Fatal("expected Create to be called")
	}
	if got.ResponseTime != 24 {
		t.Errorf("ResponseTime = %d, want 24", got.ResponseTime)
	}
	if got.RiskThreshold != -0.5 {
		t.Errorf("RiskThreshold = %v, want -0.5", got.RiskThreshold)
	}
	if got.CustomerName != "Acme Corp" {
		t.Errorf("CustomerName = %q", got.CustomerName)
	}
}

func TestService_Create_InvalidInputs(t *testing.T) {
	svc := NewService(&mockSLARepo{
		createFn: func(ctx context.Context, sla *model.SLA) error {
			t.Error("store must not be touched")
			return nil
		},
	}, existingCustomer())

	inputs := []CreateInput{
		{Deadline: "2026-12-31", CustomerID: testCustomerID},                    // ResponseTimeなし
		{ResponseTime: -1, Deadline: "2026-12-31", CustomerID: testCustomerID},  // 負のResponseTime
		{ResponseTime: 24, CustomerID: testCustomerID},                          // Deadlineなし
		{ResponseTime: 24, Deadline: "2026-12-31"},                              // CustomerIDなし
	}
	for _, input := range inputs {
		_, err := svc.Create(context.Background(), input)

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
			t.Errorf("Create(%+v) error = %v, want validation error", input, err)
		}
	}
}

func TestService_Create_CustomerMissing(t *testing.T) {
	svc := NewService(&mockSLARepo{}, &mockCustomerRepo{})

	_, err := svc.Create(context.Background(), validCreateInput())

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeCustomerNotFound {
		t.Fatalf("error = %v, want customer not found error", err)
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	now := time.Now()
	var updated *model.SLA
	svc := NewService(&mockSLARepo{
		findByIDWithCustomerFn: func(ctx context.Context, id string) (*model.SLAWithCustomer, error) {
			return &model.SLAWithCustomer{
				SLA: model.SLA{
					ID:            testSLAID,
					ResponseTime:  24,
					Deadline:      "2026-12-31",
					RiskThreshold: -0.5,
					CustomerID:    testCustomerID,
					CreatedAt:     now,
					UpdatedAt:     now,
				},
				CustomerName: "Acme Corp",
			}, nil
		},
		updateFn: func(ctx context.Context, sla *model.SLA) error {
			updated = sla
			return nil
		},
	}, existingCustomer())

	threshold := -0.8
	got, err := svc.Update(context.Background(), testSLAID, UpdateInput{RiskThreshold: &threshold})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated == nil {
		t.Fatal("expected Update to be called")
	}
	if got.RiskThreshold != -0.8 {
		t.Errorf("RiskThreshold = %v, want -0.8", got.RiskThreshold)
	}
	if got.ResponseTime != 24 || got.Deadline != "2026-12-31" {
		t.Errorf("unspecified fields changed: %+v", got)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := NewService(&mockSLARepo{}, existingCustomer())

	_, err := svc.Get(context.Background(), testSLAID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSLANotFound {
		t.Fatalf("error = %v, want sla not found error", err)
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc := NewService(&mockSLARepo{}, existingCustomer())

	err := svc.Delete(context.Background(), testSLAID)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeSLANotFound {
		t.Fatalf("error = %v, want sla not found error", err)
	}
}
