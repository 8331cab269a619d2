package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/riskwatch/internal/communication"
	"github.com/hitoshi/riskwatch/internal/model"
)

// CommunicationServiceInterface はコミュニケーションハンドラーが必要とする
// サービスインターフェース。
type CommunicationServiceInterface interface {
	List(ctx context.Context, filter model.CommunicationFilter) ([]model.CommunicationWithRefs, error)
	Get(ctx context.Context, id string) (*model.CommunicationWithRefs, error)
	CreateEmail(ctx context.Context, input communication.EmailInput) (*model.CommunicationWithRefs, error)
	CreateTranscript(ctx context.Context, input communication.TranscriptInput) (*model.CommunicationWithRefs, error)
	Update(ctx context.Context, id string, input communication.UpdateInput) (*model.CommunicationWithRefs, error)
	Delete(ctx context.Context, id string) error
}

// CommunicationHandler はコミュニケーション管理のHTTPハンドラー。
type CommunicationHandler struct {
	service CommunicationServiceInterface
}

// NewCommunicationHandler はCommunicationHandlerを生成する。
func NewCommunicationHandler(service CommunicationServiceInterface) *CommunicationHandler {
	return &CommunicationHandler{service: service}
}

// emailRequest はメール取り込みリクエストのボディ。
type emailRequest struct {
	Content    string     `json:"content"`
	Subject    string     `json:"subject"`
	Sender     string     `json:"sender"`
	OccurredAt *time.Time `json:"occurredAt"`
	ProjectID  string     `json:"projectId"`
	DomainID   string     `json:"domainId"`
	CustomerID string     `json:"customerId"`
}

// transcriptRequest は議事録取り込みリクエストのボディ。
type transcriptRequest struct {
	Content      string     `json:"content"`
	MeetingDate  string     `json:"meetingDate"`
	Participants []string   `json:"participants"`
	OccurredAt   *time.Time `json:"occurredAt"`
	ProjectID    string     `json:"projectId"`
	DomainID     string     `json:"domainId"`
	CustomerID   string     `json:"customerId"`
}

// communicationUpdateRequest はコミュニケーション更新リクエストのボディ。
type communicationUpdateRequest struct {
	Content      *string    `json:"content"`
	OccurredAt   *time.Time `json:"occurredAt"`
	Subject      *string    `json:"subject"`
	Sender       *string    `json:"sender"`
	MeetingDate  *string    `json:"meetingDate"`
	Participants []string   `json:"participants"`
}

// communicationResponse はコミュニケーション情報のAPIレスポンス。
// projectName / domainName / customerName は参照先の表示名。
type communicationResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Content      string     `json:"content"`
	OccurredAt   time.Time  `json:"occurredAt"`
	ProjectID    string     `json:"projectId"`
	ProjectName  string     `json:"projectName"`
	DomainID     string     `json:"domainId"`
	DomainName   string     `json:"domainName"`
	CustomerID   string     `json:"customerId"`
	CustomerName string     `json:"customerName"`
	Sentiment    *float64   `json:"sentiment"`
	Summary      *string    `json:"summary"`
	Subject      string     `json:"subject,omitempty"`
	Sender       string     `json:"sender,omitempty"`
	MeetingDate  string     `json:"meetingDate,omitempty"`
	Participants []string   `json:"participants,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ListCommunications はコミュニケーション一覧を返す。
// type / projectId / domainId / customerId のクエリで絞り込み可能。
// GET /api/communications
func (h *CommunicationHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.CommunicationFilter{
		Type:       q.Get("type"),
		ProjectID:  q.Get("projectId"),
		DomainID:   q.Get("domainId"),
		CustomerID: q.Get("customerId"),
	}

	comms, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]communicationResponse, 0, len(comms))
	for i := range comms {
		resp = append(resp, toCommunicationResponse(&comms[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCommunication はコミュニケーション詳細を返す。
// GET /api/communications/:id
func (h *CommunicationHandler) GetCommunication(w http.ResponseWriter, r *http.Request) {
	comm, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommunicationResponse(comm))
}

// CreateEmail はメールを取り込む。
// POST /api/communications/email
func (h *CommunicationHandler) CreateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	comm, err := h.service.CreateEmail(r.Context(), communication.EmailInput{
		Content:    req.Content,
		Subject:    req.Subject,
		Sender:     req.Sender,
		OccurredAt: req.OccurredAt,
		ProjectID:  req.ProjectID,
		DomainID:   req.DomainID,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommunicationResponse(comm))
}

// CreateTranscript は議事録を取り込む。
// POST /api/communications/transcript
func (h *CommunicationHandler) CreateTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	comm, err := h.service.CreateTranscript(r.Context(), communication.TranscriptInput{
		Content:      req.Content,
		MeetingDate:  req.MeetingDate,
		Participants: req.Participants,
		OccurredAt:   req.OccurredAt,
		ProjectID:    req.ProjectID,
		DomainID:     req.DomainID,
		CustomerID:   req.CustomerID,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommunicationResponse(comm))
}

// UpdateCommunication はコミュニケーションを更新する。
// PUT /api/communications/:id
func (h *CommunicationHandler) UpdateCommunication(w http.ResponseWriter, r *http.Request) {
	var req communicationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBodyResponse(w)
		return
	}

	comm, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), communication.UpdateInput{
		Content:      req.Content,
		OccurredAt:   req.OccurredAt,
		Subject:      req.Subject,
		Sender:       req.Sender,
		MeetingDate:  req.MeetingDate,
		Participants: req.Participants,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommunicationResponse(comm))
}

// DeleteCommunication はコミュニケーションを削除する。
// DELETE /api/communications/:id
func (h *CommunicationHandler) DeleteCommunication(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Communication deleted"})
}

// toCommunicationResponse はmodel.CommunicationWithRefsからAPIレスポンスに変換する。
func toCommunicationResponse(c *model.CommunicationWithRefs) communicationResponse {
	return communicationResponse{
		ID:           c.ID,
		Type:         string(c.Type),
		Content:      c.Content,
		OccurredAt:   c.OccurredAt,
		ProjectID:    c.ProjectID,
		ProjectName:  c.ProjectName,
		DomainID:     c.DomainID,
		DomainName:   c.DomainName,
		CustomerID:   c.CustomerID,
		CustomerName: c.CustomerName,
		Sentiment:    c.Sentiment,
		Summary:      c.Summary,
		Subject:      c.Subject,
		Sender:       c.Sender,
		MeetingDate:  c.MeetingDate,
		Participants: c.Participants,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
