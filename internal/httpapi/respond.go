package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"

	"trialsage/internal/bootstrap/logging"
	assessmentdomain "trialsage/internal/domain/assessment"
	"trialsage/internal/domain/device"
	qualitydomain "trialsage/internal/domain/quality"
	workflowdomain "trialsage/internal/domain/workflow"
	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/maudclient"
	"trialsage/internal/ports"
	"trialsage/internal/usecase/document"
	"trialsage/internal/usecase/indform"
)

var validate = validator.New()

const maxBodyBytes = 1 << 20

func readJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errs.Wrap(err, "read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.Wrap(err, "decode request body")
	}

	if v := reflect.ValueOf(dst); v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
		return validate.Struct(dst)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

var badRequestErrors = []error{
	assessmentdomain.ErrIndicationRequired,
	assessmentdomain.ErrEndpointsRequired,
	assessmentdomain.ErrInvalidRating,
	qualitydomain.ErrInvalidStatus,
	qualitydomain.ErrInvalidRiskLevel,
	qualitydomain.ErrQMPReferenced,
	qualitydomain.ErrSectionRequired,
	workflowdomain.ErrStepsRequired,
	workflowdomain.ErrInvalidDecision,
	workflowdomain.ErrTerminal,
	workflowdomain.ErrStepNotCurrent,
	workflowdomain.ErrStepMissing,
	device.ErrVectorLengthMismatch,
	device.ErrZeroVector,
	ports.ErrFolderNotEmpty,
}

var notFoundErrors = []error{
	ports.ErrAssessmentNotFound,
	ports.ErrQMPNotFound,
	ports.ErrCtqFactorNotFound,
	ports.ErrGatingRuleNotFound,
	ports.ErrFolderNotFound,
	ports.ErrDocumentNotFound,
	ports.ErrWorkflowNotFound,
	ports.ErrStepNotFound,
	ports.ErrValidationRecordNotFound,
	ports.ErrDeviceProfileNotFound,
	ports.ErrExportJobNotFound,
	indform.ErrUnsupportedForm,
}

func statusFor(err error) int {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return http.StatusNotFound
		}
	}
	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, document.ErrLockedByAnother) {
		return http.StatusConflict
	}
	if errors.Is(err, maudclient.ErrUpstream) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// respondError maps the error to a status and hides internal failure detail
// behind a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "request failed", slog.Any("err", errs.Loggable(err)))
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
