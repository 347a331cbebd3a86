package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trialsage/internal/usecase/indform"
)

type INDFormHandler struct {
	svc *indform.Service
}

func NewINDFormHandler(svc *indform.Service) *INDFormHandler {
	return &INDFormHandler{svc: svc}
}

func (h *INDFormHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"forms": h.svc.SupportedForms()})
}

func (h *INDFormHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var data map[string]string
	if err := readJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	form, err := h.svc.Generate(r.Context(), indform.GenerateInput{
		TenantID:   TenantFromContext(r.Context()),
		FormNumber: chi.URLParam(r, "formNumber"),
		Data:       data,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(form.PDF)
}
