package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trialsage/internal/usecase/assessment"
)

type AssessmentHandler struct {
	svc *assessment.Service
}

func NewAssessmentHandler(svc *assessment.Service) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

type analyzeRequest struct {
	Indication       string   `json:"indication" validate:"required"`
	Phase            string   `json:"phase"`
	PrimaryEndpoints []string `json:"primaryEndpoints" validate:"required,min=1"`
	PopulationSize   int      `json:"populationSize" validate:"gte=0"`
}

type analyzeResponse struct {
	AssessmentID string `json:"assessmentId"`
	CreatedAt    string `json:"createdAt"`
	Stored       bool   `json:"stored"`
	StoreError   string `json:"storeError,omitempty"`
	assessment.Document
}

func (h *AssessmentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Generate(r.Context(), assessment.GenerateInput{
		TenantID:       TenantFromContext(r.Context()),
		Indication:     req.Indication,
		Phase:          req.Phase,
		Endpoints:      req.PrimaryEndpoints,
		PopulationSize: req.PopulationSize,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		AssessmentID: result.AssessmentID,
		CreatedAt:    result.CreatedAt,
		Stored:       result.Stored,
		StoreError:   result.StoreError,
		Document:     result.Document,
	})
}

type assessmentResponse struct {
	AssessmentID   string   `json:"assessmentId"`
	Indication     string   `json:"indication"`
	Phase          string   `json:"phase,omitempty"`
	Endpoints      []string `json:"primaryEndpoints"`
	PopulationSize int      `json:"populationSize,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	assessment.Document
}

func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.GetAssessment(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "assessmentId"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, assessmentResponse{
		AssessmentID:   detail.AssessmentID,
		Indication:     detail.Indication,
		Phase:          detail.Phase,
		Endpoints:      detail.Endpoints,
		PopulationSize: detail.PopulationSize,
		CreatedAt:      detail.CreatedAt,
		Document:       detail.Document,
	})
}

type feedbackRequest struct {
	Rating  int      `json:"rating" validate:"required"`
	Comment string   `json:"comment"`
	Tags    []string `json:"tags"`
}

type feedbackResponse struct {
	FeedbackID uint64   `json:"feedbackId"`
	Rating     int      `json:"rating"`
	Comment    string   `json:"comment,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

func (h *AssessmentHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.svc.SubmitFeedback(r.Context(), assessment.FeedbackInput{
		TenantID:     TenantFromContext(r.Context()),
		AssessmentID: chi.URLParam(r, "assessmentId"),
		Comment:      req.Comment,
		Rating:       req.Rating,
		Tags:         req.Tags,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, feedbackResponse{
		FeedbackID: saved.FeedbackID,
		Rating:     saved.Rating,
		Comment:    saved.Comment,
		Tags:       saved.Tags,
		CreatedAt:  saved.CreatedAt,
	})
}

func (h *AssessmentHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListFeedback(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "assessmentId"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]feedbackResponse, 0, len(items))
	for _, item := range items {
		out = append(out, feedbackResponse{
			FeedbackID: item.FeedbackID,
			Rating:     item.Rating,
			Comment:    item.Comment,
			Tags:       item.Tags,
			CreatedAt:  item.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"feedback": out})
}
