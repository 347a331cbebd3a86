package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// New assembles the versioned API router with the shared middleware chain.
func New(
	assessmentH *AssessmentHandler,
	qualityH *QualityHandler,
	documentH *DocumentHandler,
	indformH *INDFormHandler,
	validationH *ValidationHandler,
	workflowH *WorkflowHandler,
	exportH *ExportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(Recover)
	r.Use(Tenant)
	r.Use(RequestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Protocol assessment
		r.Post("/protocol/analyze", assessmentH.Analyze)
		r.Get("/protocol/assessments/{assessmentId}", assessmentH.Get)
		r.Post("/protocol/assessments/{assessmentId}/feedback", assessmentH.SubmitFeedback)
		r.Get("/protocol/assessments/{assessmentId}/feedback", assessmentH.ListFeedback)

		// Quality management plans and compliance scoring
		r.Post("/qmp", qualityH.CreatePlan)
		r.Get("/qmp", qualityH.ListPlans)
		r.Get("/qmp/{qmpId}", qualityH.GetPlan)
		r.Put("/qmp/{qmpId}", qualityH.UpdatePlan)
		r.Delete("/qmp/{qmpId}", qualityH.DeletePlan)
		r.Post("/qmp/{qmpId}/gating-rules", qualityH.CreateRule)
		r.Get("/qmp/{qmpId}/gating-rules", qualityH.ListRules)
		r.Put("/gating-rules/{ruleId}", qualityH.UpdateRule)
		r.Post("/qmp/{qmpId}/evaluate-section", qualityH.EvaluateSection)
		r.Post("/ctq-factors", qualityH.CreateFactor)
		r.Get("/ctq-factors", qualityH.ListFactors)
		r.Get("/ctq-factors/{factorId}", qualityH.GetFactor)
		r.Put("/ctq-factors/{factorId}", qualityH.UpdateFactor)
		r.Get("/quality/dashboard", qualityH.Dashboard)

		// Document tree
		r.Post("/folders", documentH.CreateFolder)
		r.Get("/folders/children", documentH.ListRootChildren)
		r.Get("/folders/{folderId}/children", documentH.ListFolderChildren)
		r.Delete("/folders/{folderId}", documentH.DeleteFolder)
		r.Post("/documents", documentH.Upload)
		r.Get("/documents/{documentId}", documentH.Get)
		r.Get("/documents/{documentId}/download", documentH.Download)
		r.Post("/documents/{documentId}/versions", documentH.UploadVersion)
		r.Get("/documents/{documentId}/versions", documentH.ListVersions)
		r.Post("/documents/{documentId}/lock", documentH.Lock)
		r.Post("/documents/{documentId}/unlock", documentH.Unlock)
		r.Post("/documents/{documentId}/move", documentH.Move)
		r.Delete("/documents/{documentId}", documentH.Delete)
		r.Post("/module-documents", documentH.RegisterModuleDocument)
		r.Get("/module-documents/{module}/{moduleDocumentId}", documentH.GetModuleDocument)

		// IND forms
		r.Get("/ind/forms", indformH.ListForms)
		r.Post("/ind/forms/{formNumber}", indformH.Generate)

		// MAUD validation and 510(k) devices
		r.Post("/validation/maud/{algorithmId}", validationH.Validate)
		r.Get("/validation/maud/{algorithmId}/latest", validationH.Latest)
		r.Post("/devices", validationH.CreateDevice)
		r.Get("/devices", validationH.ListDevices)
		r.Get("/devices/{deviceId}", validationH.GetDevice)
		r.Put("/devices/{deviceId}", validationH.UpdateDevice)
		r.Delete("/devices/{deviceId}", validationH.DeleteDevice)
		r.Post("/devices/{deviceId}/compare", validationH.ComparePredicates)

		// Approval workflows
		r.Post("/workflows", workflowH.Create)
		r.Get("/workflows/{workflowId}", workflowH.Get)
		r.Post("/workflows/{workflowId}/decision", workflowH.SubmitDecision)

		// Batch exports
		r.Post("/exports", exportH.Create)
		r.Get("/exports", exportH.List)
		r.Get("/exports/{jobId}", exportH.Get)
	})

	return r
}
