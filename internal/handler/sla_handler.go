package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/sla"
)

// SLAServiceInterface はSLAハンドラーが必要とするサービスインターフェース。
type SLAServiceInterface interface {
	List(ctx context.Context, customerID string) ([]model.SLAWithCustomer, error)
	Get(ctx context.Context, id string) (*model.SLAWithCustomer, error)
	Create(ctx context.Context, input sla.CreateInput) (*model.SLAWithCustomer, error)
	Update(ctx context.Context, id string, input sla.UpdateInput) (*model.SLAWithCustomer, error)
	Delete(ctx context.Context, id string) error
}

// SLAHandler はSLA管理のHTTPハンドラー。
type SLAHandler struct {
	service SLAServiceInterface
}

// NewSLAHandler はSLAHandlerを生成する。
func NewSLAHandler(service SLAServiceInterface) *SLAHandler {
	return &SLAHandler{service: service}
}

// slaRequest はSLA作成・更新リクエストのボディ。
type slaRequest struct {
	ResponseTime  *int     `json:"responseTime"`
	Deadline      *string  `json:"deadline"`
	RiskThreshold *float64 `json:"riskThreshold"`
	CustomerID    *string  `json:"customerId"`
}

// slaResponse はSLA情報のAPIレスポンス。
type slaResponse struct {
	ID            string    `json:"id"`
	ResponseTime  int       `json:"responseTime"`
	Deadline      string    `json:"deadline"`
	RiskThreshold float64   `json:"riskThreshold"`
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListSLAs はSLA一覧を返す。?customerId=で絞り込み可能。
// GET /api/slas
func (h *SLAHandler) ListSLAs(w http.ResponseWriter, r *http.Request) {
	slas, err := h.service.List(r.Context(), r.URL.Query().Get("customerId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]slaResponse, 0, len(slas))
	for i := range slas {
		resp = append(resp, toSLAResponse(&slas[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSLA はSLA詳細を返す。
// GET /api/slas/:id
func (h *SLAHandler) GetSLA(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSLAResponse(s))
}

// CreateSLA はSLAを作成する。
// POST /api/slas
func (h *SLAHandler) CreateSLA(w http.ResponseWriter, r *http.Request) {
	var req slaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	input := sla.CreateInput{}
	if req.ResponseTime != nil {
		input.ResponseTime = *req.ResponseTime
	}
	if req.Deadline != nil {
		input.Deadline = *req.Deadline
	}
	if req.RiskThreshold != nil {
		input.RiskThreshold = *req.RiskThreshold
	}
	if req.CustomerID != nil {
		input.CustomerID = *req.CustomerID
	}

	s, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSLAResponse(s))
}

// UpdateSLA はSLAを更新する。
// PUT /api/slas/:id
func (h *SLAHandler) UpdateSLA(w http.ResponseWriter, r *http.Request) {
	var req slaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	s, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), sla.UpdateInput{
		ResponseTime:  req.ResponseTime,
		Deadline:      req.Deadline,
		RiskThreshold: req.RiskThreshold,
		CustomerID:    req.CustomerID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSLAResponse(s))
}

// DeleteSLA はSLAを削除する。
// DELETE /api/slas/:id
func (h *SLAHandler) DeleteSLA(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "SLA deleted"})
}

// toSLAResponse はmodel.SLAWithCustomerからAPIレスポンスに変換する。
func toSLAResponse(s *model.SLAWithCustomer) slaResponse {
	return slaResponse{
		ID:            s.ID,
		ResponseTime:  s.ResponseTime,
		Deadline:      s.Deadline,
		RiskThreshold: s.RiskThreshold,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
