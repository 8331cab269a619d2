package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/customer"
	"github.com/hitoshi/riskwatch/internal/model"
)

// mockCustomerService はCustomerServiceInterfaceのモック実装。
type mockCustomerService struct {
	listFn   func(ctx context.Context) ([]*model.Customer, error)
	getFn    func(ctx context.Context, id string) (*model.Customer, error)
	createFn func(ctx context.Context, input customer.CreateInput) (*model.Customer, error)
	updateFn func(ctx context.Context, id string, input customer.UpdateInput) (*model.Customer, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockCustomerService) List(ctx context.Context) ([]*model.Customer, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCustomerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCustomerService) Create(ctx context.Context, input customer.CreateInput) (*model.Customer, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCustomerService) Update(ctx context.Context, id string, input customer.UpdateInput) (*model.Customer, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCustomerService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

// newCustomerRouter はURLパラメータ解決のためchiルーターにマウントする。
func newCustomerRouter(service CustomerServiceInterface) http.Handler {
	h := NewCustomerHandler(service)
	r := chi.NewRouter()
	r.Get("/api/customers", h.ListCustomers)
	r.Post("/api/customers", h.CreateCustomer)
	r.Get("/api/customers/{id}", h.GetCustomer)
	r.Put("/api/customers/{id}", h.UpdateCustomer)
	r.Delete("/api/customers/{id}", h.DeleteCustomer)
	return r
}

const testCustomerID = "0b25c30f-1111-4222-8333-444455556666"

func sampleCustomer() *model.Customer {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return &model.Customer{
		ID:        testCustomerID,
		Name:      "Acme Corp",
		Priority:  "high",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCustomerHandler_List(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{
		listFn: func(ctx context.Context) ([]*model.Customer, error) {
			return []*model.Customer{sampleCustomer()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got []customerResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Acme Corp" {
		t.Errorf("body = %+v", got)
	}
}

func TestCustomerHandler_List_EmptyIsArray(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{
		listFn: func(ctx context.Context) ([]*model.Customer, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// nullではなく[]を返す
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestCustomerHandler_Get_PassesURLParam(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{
		getFn: func(ctx context.Context, id string) (*model.Customer, error) {
			if id != testCustomerID {
				t.Errorf("id = %q, want %q", id, testCustomerID)
			}
			return sampleCustomer(), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers/"+testCustomerID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
}

func TestCustomerHandler_Get_NotFound(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{
		getFn: func(ctx context.Context, id string) (*model.Customer, error) {
			return nil, model.NewCustomerNotFoundError()
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/customers/"+testCustomerID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var got map[string]string
	json.NewDecoder(resp.Body).Decode(&got)
	if got["code"] != model.ErrCodeCustomerNotFound {
		t.Errorf("code = %q", got["code"])
	}
}

func TestCustomerHandler_Create(t *testing.T) {
	var gotInput customer.CreateInput
	router := newCustomerRouter(&mockCustomerService{
		createFn: func(ctx context.Context, input customer.CreateInput) (*model.Customer, error) {
			gotInput = input
			return sampleCustomer(), nil
		},
	})

	body := `{"name":"Acme Corp","priority":"high"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusCreated {
		t.Errorf("status = %d, want %d", status, http.StatusCreated)
	}
	if gotInput.Name != "Acme Corp" || gotInput.Priority != "high" {
		t.Errorf("input = %+v", gotInput)
	}
}

func TestCustomerHandler_Create_InvalidBody(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{})

	req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader(`{broken`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	var got map[string]string
	json.NewDecoder(resp.Body).Decode(&got)
	if got["error"] != "Invalid request body" {
		t.Errorf("error = %q", got["error"])
	}
}

func TestCustomerHandler_Update_OmittedFieldsStayNil(t *testing.T) {
	var gotInput customer.UpdateInput
	router := newCustomerRouter(&mockCustomerService{
		updateFn: func(ctx context.Context, id string, input customer.UpdateInput) (*model.Customer, error) {
			gotInput = input
			return sampleCustomer(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/customers/"+testCustomerID,
		strings.NewReader(`{"priority":"low"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if gotInput.Name != nil {
		t.Errorf("omitted Name should stay nil, got %q", *gotInput.Name)
	}
	if gotInput.Priority == nil || *gotInput.Priority != "low" {
		t.Errorf("Priority = %v, want low", gotInput.Priority)
	}
}

func TestCustomerHandler_Delete(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{
		deleteFn: func(ctx context.Context, id string) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/customers/"+testCustomerID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got map[string]string
	json.NewDecoder(resp.Body).Decode(&got)
	if got["message"] != "Customer deleted" {
		t.Errorf("message = %q", got["message"])
	}
}

func TestCustomerHandler_Delete_InvalidID(t *testing.T) {
	router := newCustomerRouter(&mockCustomerService{
		deleteFn: func(ctx context.Context, id string) error {
			return model.NewValidationError("Invalid ID format")
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/customers/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
	}
}
