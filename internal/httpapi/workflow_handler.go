package httpapi

import (
	"net/http"

	"trialsage/internal/usecase/workflow"
)

type WorkflowHandler struct {
	svc *workflow.Service
}

func NewWorkflowHandler(svc *workflow.Service) *WorkflowHandler {
	return &WorkflowHandler{svc: svc}
}

type workflowStepRequest struct {
	AssignedTo string `json:"assignedTo"`
}

type createWorkflowRequest struct {
	Name       string                `json:"name" validate:"required"`
	DocumentID *string               `json:"documentId"`
	Steps      []workflowStepRequest `json:"steps" validate:"required,min=1"`
}

type workflowStepResponse struct {
	StepOrder  int     `json:"stepOrder"`
	AssignedTo string  `json:"assignedTo,omitempty"`
	Status     string  `json:"status"`
	Comment    string  `json:"comment,omitempty"`
	DecidedAt  *string `json:"decidedAt,omitempty"`
}

type workflowEventResponse struct {
	Actor     string `json:"actor,omitempty"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

type workflowResponse struct {
	WorkflowID uint64                  `json:"workflowId"`
	Name       string                  `json:"name"`
	DocumentID *string                 `json:"documentId,omitempty"`
	Status     string                  `json:"status"`
	CreatedAt  string                  `json:"createdAt"`
	UpdatedAt  string                  `json:"updatedAt"`
	Steps      []workflowStepResponse  `json:"steps"`
	Events     []workflowEventResponse `json:"events"`
}

func workflowJSON(detail workflow.Detail) workflowResponse {
	steps := make([]workflowStepResponse, 0, len(detail.Steps))
	for _, step := range detail.Steps {
		steps = append(steps, workflowStepResponse{
			StepOrder:  step.StepOrder,
			AssignedTo: step.AssignedTo,
			Status:     step.Status,
			Comment:    step.Comment,
			DecidedAt:  step.DecidedAt,
		})
	}

	events := make([]workflowEventResponse, 0, len(detail.Events))
	for _, event := range detail.Events {
		events = append(events, workflowEventResponse{
			Actor:     event.Actor,
			Body:      event.Body,
			CreatedAt: event.CreatedAt,
		})
	}

	return workflowResponse{
		WorkflowID: detail.Workflow.WorkflowID,
		Name:       detail.Workflow.Name,
		DocumentID: detail.Workflow.DocumentID,
		Status:     detail.Workflow.Status,
		CreatedAt:  detail.Workflow.CreatedAt,
		UpdatedAt:  detail.Workflow.UpdatedAt,
		Steps:      steps,
		Events:     events,
	}
}

func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	steps := make([]workflow.StepInput, 0, len(req.Steps))
	for _, step := range req.Steps {
		steps = append(steps, workflow.StepInput{AssignedTo: step.AssignedTo})
	}

	detail, err := h.svc.Create(r.Context(), workflow.CreateInput{
		TenantID:   TenantFromContext(r.Context()),
		Name:       req.Name,
		DocumentID: req.DocumentID,
		Steps:      steps,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workflowJSON(detail))
}

func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	workflowID, err := uint64Param(r, "workflowId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workflow id")
		return
	}

	detail, err := h.svc.Get(r.Context(), TenantFromContext(r.Context()), workflowID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workflowJSON(detail))
}

type decisionRequest struct {
	StepOrder int    `json:"stepOrder" validate:"required,gte=1"`
	Decision  string `json:"decision" validate:"required"`
	Comment   string `json:"comment"`
}

func (h *WorkflowHandler) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	workflowID, err := uint64Param(r, "workflowId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid workflow id")
		return
	}

	var req decisionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.svc.SubmitDecision(r.Context(), workflow.DecisionInput{
		TenantID:   TenantFromContext(r.Context()),
		WorkflowID: workflowID,
		StepOrder:  req.StepOrder,
		Decision:   req.Decision,
		Comment:    req.Comment,
		Actor:      actorFrom(r),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workflowJSON(detail))
}
