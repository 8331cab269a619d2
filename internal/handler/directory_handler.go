package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/directory"
	"github.com/hitoshi/riskwatch/internal/model"
)

// DirectoryServiceInterface はディレクトリユーザーハンドラーが必要とする
// サービスインターフェース。
type DirectoryServiceInterface interface {
	List(ctx context.Context) ([]*model.DirectoryUser, error)
	Get(ctx context.Context, id string) (*model.DirectoryUser, error)
	Create(ctx context.Context, input directory.CreateInput) (*model.DirectoryUser, error)
	Update(ctx context.Context, id string, input directory.UpdateInput) (*model.DirectoryUser, error)
	Delete(ctx context.Context, id string) error
}

// DirectoryHandler は組織ディレクトリユーザー管理のHTTPハンドラー。
type DirectoryHandler struct {
	service DirectoryServiceInterface
}

// NewDirectoryHandler はDirectoryHandlerを生成する。
func NewDirectoryHandler(service DirectoryServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// directoryUserRequest はディレクトリユーザー作成・更新リクエストのボディ。
type directoryUserRequest struct {
	Name             *string  `json:"name"`
	Email            *string  `json:"email"`
	Type             *string  `json:"type"`
	AssignedProjects []string `json:"assignedProjects"`
	AssignedDomains  []string `json:"assignedDomains"`
	AccountID        *string  `json:"accountId"`
}

// directoryUserResponse はディレクトリユーザー情報のAPIレスポンス。
type directoryUserResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Type             string    `json:"type"`
	AssignedProjects []string  `json:"assignedProjects"`
	AssignedDomains  []string  `json:"assignedDomains"`
	AccountID        *string   `json:"accountId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// ListUsers はディレクトリユーザー一覧を返す。
// GET /api/users
func (h *DirectoryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]directoryUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toDirectoryUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUser はディレクトリユーザー詳細を返す。
// GET /api/users/:id
func (h *DirectoryHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDirectoryUserResponse(u))
}

// CreateUser はディレクトリユーザーを作成する。
// POST /api/users
func (h *DirectoryHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req directoryUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	input := directory.CreateInput{
		AssignedProjectIDs: req.AssignedProjects,
		AssignedDomainIDs:  req.AssignedDomains,
		AccountID:          req.AccountID,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Email != nil {
		input.Email = *req.Email
	}
	if req.Type != nil {
		input.Type = *req.Type
	}

	u, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDirectoryUserResponse(u))
}

// UpdateUser はディレクトリユーザーを更新する。
// PUT /api/users/:id
func (h *DirectoryHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req directoryUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	u, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), directory.UpdateInput{
		Name:               req.Name,
		Email:              req.Email,
		Type:               req.Type,
		AssignedProjectIDs: req.AssignedProjects,
		AssignedDomainIDs:  req.AssignedDomains,
		AccountID:          req.AccountID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDirectoryUserResponse(u))
}

// DeleteUser はディレクトリユーザーを削除する。
// DELETE /api/users/:id
func (h *DirectoryHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

// toDirectoryUserResponse はmodel.DirectoryUserからAPIレスポンスに変換する。
func toDirectoryUserResponse(u *model.DirectoryUser) directoryUserResponse {
	projects := u.AssignedProjectIDs
	if projects == nil {
		projects = []string{}
	}
	domains := u.AssignedDomainIDs
	if domains == nil {
		domains = []string{}
	}
	return directoryUserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Type:             string(u.Type),
		AssignedProjects: projects,
		AssignedDomains:  domains,
		AccountID:        u.AccountID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
