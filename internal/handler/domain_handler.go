package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/domain"
	"github.com/hitoshi/riskwatch/internal/model"
)

// DomainServiceInterface はドメインハンドラーが必要とするサービスインターフェース。
type DomainServiceInterface interface {
	List(ctx context.Context) ([]*model.Domain, error)
	Get(ctx context.Context, id string) (*model.Domain, error)
	Create(ctx context.Context, input domain.CreateInput) (*model.Domain, error)
	Update(ctx context.Context, id string, input domain.UpdateInput) (*model.Domain, error)
	Delete(ctx context.Context, id string) error
}

// DomainHandler は業務ドメイン管理のHTTPハンドラー。
type DomainHandler struct {
	service DomainServiceInterface
}

// NewDomainHandler はDomainHandlerを生成する。
func NewDomainHandler(service DomainServiceInterface) *DomainHandler {
	return &DomainHandler{service: service}
}

// domainRequest はドメイン作成・更新リクエストのボディ。
type domainRequest struct {
	Name *string `json:"name"`
}

// domainResponse はドメイン情報のAPIレスポンス。
type domainResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListDomains はドメイン一覧を返す。
// GET /api/domains
func (h *DomainHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]domainResponse, 0, len(domains))
	for _, d := range domains {
		resp = append(resp, toDomainResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDomain はドメイン詳細を返す。
// GET /api/domains/:id
func (h *DomainHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDomainResponse(d))
}

// CreateDomain はドメインを作成する。
// POST /api/domains
func (h *DomainHandler) CreateDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	input := domain.CreateInput{}
	if req.Name != nil {
		input.Name = *req.Name
	}

	d, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDomainResponse(d))
}

// UpdateDomain はドメインを更新する。
// PUT /api/domains/:id
func (h *DomainHandler) UpdateDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	d, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), domain.UpdateInput{
		Name: req.Name,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDomainResponse(d))
}

// DeleteDomain はドメインを削除する。
// DELETE /api/domains/:id
func (h *DomainHandler) DeleteDomain(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Domain deleted"})
}

// toDomainResponse はmodel.DomainからAPIレスポンスに変換する。
func toDomainResponse(d *model.Domain) domainResponse {
	return domainResponse{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
