package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"trialsage/internal/ports"
	"trialsage/internal/usecase/export"
)

type ExportHandler struct {
	svc *export.Service
}

func NewExportHandler(svc *export.Service) *ExportHandler {
	return &ExportHandler{svc: svc}
}

type createExportRequest struct {
	Kind        string   `json:"kind"`
	DocumentIDs []string `json:"documentIds" validate:"required,min=1"`
}

type exportJobResponse struct {
	JobID        string   `json:"jobId"`
	Kind         string   `json:"kind"`
	Status       string   `json:"status"`
	DocumentIDs  []string `json:"documentIds"`
	ManifestPath string   `json:"manifestPath,omitempty"`
	FailureCause string   `json:"failureCause,omitempty"`
	CreatedAt    string   `json:"createdAt"`
	StartedAt    *string  `json:"startedAt,omitempty"`
	CompletedAt  *string  `json:"completedAt,omitempty"`
}

func jobJSON(job ports.ExportJob) exportJobResponse {
	return exportJobResponse{
		JobID:        job.JobID,
		Kind:         job.Kind,
		Status:       job.Status,
		DocumentIDs:  job.DocumentIDs,
		ManifestPath: job.ManifestPath,
		FailureCause: job.FailureCause,
		CreatedAt:    job.CreatedAt,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
	}
}

func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createExportRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.svc.CreateJob(r.Context(), export.CreateInput{
		TenantID:    TenantFromContext(r.Context()),
		Kind:        req.Kind,
		DocumentIDs: req.DocumentIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, jobJSON(job))
}

func (h *ExportHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.GetJob(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "jobId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobJSON(job))
}

func (h *ExportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	jobs, err := h.svc.ListJobs(r.Context(), TenantFromContext(r.Context()), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]exportJobResponse, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, jobJSON(job))
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": out})
}
