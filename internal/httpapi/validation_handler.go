package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trialsage/internal/ports"
	"trialsage/internal/usecase/validation"
)

type ValidationHandler struct {
	svc *validation.Service
}

func NewValidationHandler(svc *validation.Service) *ValidationHandler {
	return &ValidationHandler{svc: svc}
}

type validateRequest struct {
	Payload map[string]any `json:"payload"`
}

func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Validate(r.Context(), validation.ValidateInput{
		TenantID:    TenantFromContext(r.Context()),
		Service:     "maud",
		AlgorithmID: chi.URLParam(r, "algorithmId"),
		Payload:     req.Payload,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ValidationHandler) Latest(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.LatestResult(r.Context(), TenantFromContext(r.Context()), "maud", chi.URLParam(r, "algorithmId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type deviceRequest struct {
	Name          string    `json:"name"`
	DeviceClass   string    `json:"deviceClass"`
	IntendedUse   string    `json:"intendedUse"`
	FeatureVector []float64 `json:"featureVector"`
}

type deviceResponse struct {
	DeviceID      string    `json:"deviceId"`
	Name          string    `json:"name"`
	DeviceClass   string    `json:"deviceClass,omitempty"`
	IntendedUse   string    `json:"intendedUse,omitempty"`
	FeatureVector []float64 `json:"featureVector,omitempty"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}

func deviceJSON(device ports.DeviceProfile) deviceResponse {
	return deviceResponse{
		DeviceID:      device.DeviceID,
		Name:          device.Name,
		DeviceClass:   device.DeviceClass,
		IntendedUse:   device.IntendedUse,
		FeatureVector: device.FeatureVector,
		CreatedAt:     device.CreatedAt,
		UpdatedAt:     device.UpdatedAt,
	}
}

func (h *ValidationHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	device, err := h.svc.CreateDevice(r.Context(), validation.DeviceInput{
		TenantID:      TenantFromContext(r.Context()),
		Name:          req.Name,
		DeviceClass:   req.DeviceClass,
		IntendedUse:   req.IntendedUse,
		FeatureVector: req.FeatureVector,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, deviceJSON(device))
}

func (h *ValidationHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.svc.ListDevices(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]deviceResponse, 0, len(devices))
	for _, device := range devices {
		out = append(out, deviceJSON(device))
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": out})
}

func (h *ValidationHandler) GetDevice(w http.ResponseWriter, r *http.Request) {
	device, err := h.svc.GetDevice(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "deviceId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deviceJSON(device))
}

func (h *ValidationHandler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	device, err := h.svc.UpdateDevice(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "deviceId"), validation.DeviceInput{
		Name:          req.Name,
		DeviceClass:   req.DeviceClass,
		IntendedUse:   req.IntendedUse,
		FeatureVector: req.FeatureVector,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deviceJSON(device))
}

func (h *ValidationHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteDevice(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "deviceId")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ValidationHandler) ComparePredicates(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svc.ComparePredicates(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "deviceId"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
