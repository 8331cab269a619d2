package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/customer"
	"github.com/hitoshi/riskwatch/internal/model"
)

// CustomerServiceInterface は顧客ハンドラーが必要とするサービスインターフェース。
type CustomerServiceInterface interface {
	List(ctx context.Context) ([]*model.Customer, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
	Create(ctx context.Context, input customer.CreateInput) (*model.Customer, error)
	Update(ctx context.Context, id string, input customer.UpdateInput) (*model.Customer, error)
	Delete(ctx context.Context, id string) error
}

// CustomerHandler は顧客管理のHTTPハンドラー。
type CustomerHandler struct {
	service CustomerServiceInterface
}

// NewCustomerHandler はCustomerHandlerを生成する。
func NewCustomerHandler(service CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// customerRequest は顧客作成・更新リクエストのボディ。
type customerRequest struct {
	Name           *string  `json:"name"`
	Priority       *string  `json:"priority"`
	SentimentScore *float64 `json:"sentimentScore"`
	RiskStatus     *string  `json:"riskStatus"`
}

// customerResponse は顧客情報のAPIレスポンス。
type customerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Priority       string    `json:"priority"`
	SentimentScore *float64  `json:"sentimentScore"`
	RiskStatus     *string   `json:"riskStatus"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ListCustomers は顧客一覧を返す。
// GET /api/customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, toCustomerResponse(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCustomer は顧客詳細を返す。
// GET /api/customers/:id
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// CreateCustomer は顧客を作成する。
// POST /api/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	input := customer.CreateInput{
		SentimentScore: req.SentimentScore,
		RiskStatus:     req.RiskStatus,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Priority != nil {
		input.Priority = *req.Priority
	}

	c, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

// UpdateCustomer は顧客を更新する。
// PUT /api/customers/:id
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	c, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), customer.UpdateInput{
		Name:           req.Name,
		Priority:       req.Priority,
		SentimentScore: req.SentimentScore,
		RiskStatus:     req.RiskStatus,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

// DeleteCustomer は顧客を削除する。
// DELETE /api/customers/:id
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}

// toCustomerResponse はmodel.CustomerからAPIレスポンスに変換する。
func toCustomerResponse(c *model.Customer) customerResponse {
	return customerResponse{
		ID:             c.ID,
		Name:           c.Name,
		Priority:       c.Priority,
		SentimentScore: c.SentimentScore,
		RiskStatus:     c.RiskStatus,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
