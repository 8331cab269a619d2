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

	"github.com/hitoshi/riskwatch/internal/domain"
	"github.com/hitoshi/riskwatch/internal/model"
)

// mockDomainService はDomainServiceInterfaceのモック実装。
type mockDomainService struct {
	listFn   func(ctx context.Context) ([]*model.Domain, error)
	getFn    func(ctx context.Context, id string) (*model.Domain, error)
	createFn func(ctx context.Context, input domain.CreateInput) (*model.Domain, error)
	updateFn func(ctx context.Context, id string, input domain.UpdateInput) (*model.Domain, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockDomainService) List(ctx context.Context) ([]*model.Domain, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDomainService) Get(ctx context.Context, id string) (*model.Domain, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDomainService) Create(ctx context.Context, input domain.CreateInput) (*model.Domain, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDomainService) Update(ctx context.Context, id string, input domain.UpdateInput) (*model.Domain, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, input)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDomainService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

func newDomainRouter(service DomainServiceInterface) http.Handler {
	h := NewDomainHandler(service)
	r := chi.NewRouter()
	r.Get("/api/domains", h.ListDomains)
	r.Post("/api/domains", h.CreateDomain)
	r.Get("/api/domains/{id}", h.GetDomain)
	r.Put("/api/domains/{id}", h.UpdateDomain)
	r.Delete("/api/domains/{id}", h.DeleteDomain)
	return r
}

func sampleDomain() *model.Domain {
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return &model.Domain{
		ID:        testDomainID,
		Name:      "Billing",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDomainHandler_List(t *testing.T) {
	router := newDomainRouter(&mockDomainService{
		listFn: func(ctx context.Context) ([]*model.Domain, error) {
			return []*model.Domain{sampleDomain()}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/domains", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got []domainResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(got) != 1 || got[0].ID != testDomainID || got[0].Name != "Billing" {
		t.Errorf("body = %+v", got)
	}
}

func TestDomainHandler_List_EmptyIsArray(t *testing.T) {
	router := newDomainRouter(&mockDomainService{
		listFn: func(ctx context.Context) ([]*model.Domain, error) {
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/domains", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestDomainHandler_Get_PassesID(t *testing.T) {
	var gotID string
	router := newDomainRouter(&mockDomainService{
		getFn: func(ctx context.Context, id string) (*model.Domain, error) {
			gotID = id
			return sampleDomain(), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/domains/"+testDomainID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if gotID != testDomainID {
		t.Errorf("id = %q, want %q", gotID, testDomainID)
	}
}

func TestDomainHandler_Get_NotFound(t *testing.T) {
	router := newDomainRouter(&mockDomainService{
		getFn: func(ctx context.Context, id string) (*model.Domain, error) {
			return nil, model.NewDomainNotFoundError()
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/domains/"+testDomainID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	var got map[string]string
	json.NewDecoder(resp.Body).Decode(&got)
	if got["code"] != model.ErrCodeDomainNotFound {
		t.Errorf("code = %q", got["code"])
	}
}

func TestDomainHandler_Create(t *testing.T) {
	var gotInput domain.CreateInput
	router := newDomainRouter(&mockDomainService{
		createFn: func(ctx context.Context, input domain.CreateInput) (*model.Domain, error) {
			gotInput = input
			return sampleDomain(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/domains", strings.NewReader(`{"name":"Billing"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusCreated {
		t.Errorf("status = %d, want %d", status, http.StatusCreated)
	}
	if gotInput.Name != "Billing" {
		t.Errorf("Name = %q, want %q", gotInput.Name, "Billing")
	}
}

func TestDomainHandler_Create_InvalidBody(t *testing.T) {
	router := newDomainRouter(&mockDomainService{})

	req := httptest.NewRequest(http.MethodPost, "/api/domains", strings.NewReader(`{broken`))
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

func TestDomainHandler_Update_OmittedNameStaysNil(t *testing.T) {
	var gotInput domain.UpdateInput
	router := newDomainRouter(&mockDomainService{
		updateFn: func(ctx context.Context, id string, input domain.UpdateInput) (*model.Domain, error) {
			gotInput = input
			return sampleDomain(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/domains/"+testDomainID, strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if gotInput.Name != nil {
		t.Errorf("omitted Name should stay nil, got %q", *gotInput.Name)
	}
}

func TestDomainHandler_Update_SetsName(t *testing.T) {
	var gotID string
	var gotInput domain.UpdateInput
	router := newDomainRouter(&mockDomainService{
		updateFn: func(ctx context.Context, id string, input domain.UpdateInput) (*model.Domain, error) {
			gotID = id
			gotInput = input
			return sampleDomain(), nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/domains/"+testDomainID,
		strings.NewReader(`{"name":"Support"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if gotID != testDomainID {
		t.Errorf("id = %q, want %q", gotID, testDomainID)
	}
	if gotInput.Name == nil || *gotInput.Name != "Support" {
		t.Errorf("Name = %v, want Support", gotInput.Name)
	}
	if status := w.Result().StatusCode; status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
}

func TestDomainHandler_Delete(t *testing.T) {
	router := newDomainRouter(&mockDomainService{
		deleteFn: func(ctx context.Context, id string) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/domains/"+testDomainID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got map[string]string
	json.NewDecoder(resp.Body).Decode(&got)
	if got["message"] != "Domain deleted" {
		t.Errorf("message = %q", got["message"])
	}
}

func TestDomainHandler_Delete_NotFound(t *testing.T) {
	router := newDomainRouter(&mockDomainService{
		deleteFn: func(ctx context.Context, id string) error {
			return model.NewDomainNotFoundError()
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/domains/"+testDomainID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if status := w.Result().StatusCode; status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", status, http.StatusNotFound)
	}
}
