package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/model"
	"github.com/hitoshi/riskwatch/internal/project"
)

// ProjectServiceInterface はプロジェクトハンドラーが必要とするサービスインターフェース。
type ProjectServiceInterface interface {
	List(ctx context.Context, customerID string) ([]model.ProjectWithCustomer, error)
	Get(ctx context.Context, id string) (*model.ProjectWithCustomer, error)
	Create(ctx context.Context, input project.CreateInput) (*model.ProjectWithCustomer, error)
	Update(ctx context.Context, id string, input project.UpdateInput) (*model.ProjectWithCustomer, error)
	Delete(ctx context.Context, id string) error
}

// ProjectHandler はプロジェクト管理のHTTPハンドラー。
type ProjectHandler struct {
	service ProjectServiceInterface
}

// NewProjectHandler はProjectHandlerを生成する。
func NewProjectHandler(service ProjectServiceInterface) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// projectRequest はプロジェクト作成・更新リクエストのボディ。
type projectRequest struct {
	Name       *string `json:"name"`
	Status     *string `json:"status"`
	CustomerID *string `json:"customerId"`
}

// projectResponse はプロジェクト情報のAPIレスポンス。
// customerNameは参照先顧客の表示名。
type projectResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	CustomerID   string    `json:"customerId"`
	CustomerName string    `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ListProjects はプロジェクト一覧を返す。?customerId=で絞り込み可能。
// GET /api/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context(), r.URL.Query().Get("customerId"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]projectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, toProjectResponse(&projects[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProject はプロジェクト詳細を返す。
// GET /api/projects/:id
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// CreateProject はプロジェクトを作成する。
// POST /api/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	input := project.CreateInput{}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.CustomerID != nil {
		input.CustomerID = *req.CustomerID
	}

	p, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(p))
}

// UpdateProject はプロジェクトを更新する。
// PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	p, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), project.UpdateInput{
		Name:       req.Name,
		Status:     req.Status,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p))
}

// DeleteProject はプロジェクトを削除する。
// DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}

// toProjectResponse はmodel.ProjectWithCustomerからAPIレスポンスに変換する。
func toProjectResponse(p *model.ProjectWithCustomer) projectResponse {
	return projectResponse{
		ID:           p.ID,
		Name:         p.Name,
		Status:       p.Status,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
