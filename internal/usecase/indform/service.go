package indform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/pdfform"
)

var ErrUnsupportedForm = errors.New("unsupported ind form number")

// FileStore receives a copy of every generated form for later export.
type FileStore interface {
	Save(tenantID string, name string, data []byte) (string, error)
}

// Service generates IND application PDFs from submitted field data.
type Service struct {
	store FileStore
}

// NewService wires form generation. store may be nil; generated forms are
// then only returned to the caller.
func NewService(store FileStore) *Service {
	return &Service{store: store}
}

type GenerateInput struct {
	TenantID   string
	FormNumber string
	Data       map[string]string
}

type GeneratedForm struct {
	FormNumber string
	FileName   string
	StoredPath string
	PDF        []byte
}

func (s *Service) SupportedForms() []string {
	return pdfform.SupportedForms()
}

// Generate draws the requested form and keeps a copy in the export store.
// A failing copy does not fail the request.
func (s *Service) Generate(ctx context.Context, input GenerateInput) (GeneratedForm, error) {
	if ctx == nil {
		return GeneratedForm{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return GeneratedForm{}, errs.Wrap(err, "check context")
	}

	formNumber := strings.TrimSpace(input.FormNumber)
	if !pdfform.Supported(formNumber) {
		return GeneratedForm{}, ErrUnsupportedForm
	}

	pdf, err := pdfform.Build(formNumber, input.Data)
	if err != nil {
		return GeneratedForm{}, errs.Wrap(err, "build form pdf")
	}

	form := GeneratedForm{
		FormNumber: formNumber,
		FileName:   fmt.Sprintf("form-fda-%s-%s.pdf", formNumber, time.Now().UTC().Format("20060102T150405Z")),
		PDF:        pdf,
	}

	if s.store != nil {
		path, err := s.store.Save(input.TenantID, form.FileName, pdf)
		if err != nil {
			logging.Warn(ctx, "export copy of generated form failed",
				slog.String("form", formNumber),
				slog.Any("err", errs.Loggable(err)),
			)
		} else {
			form.StoredPath = path
		}
	}
	return form, nil
}
