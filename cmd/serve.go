package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trialsage/internal/bootstrap"
	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/httpapi"
	"trialsage/internal/infrastructure/cache"
	"trialsage/internal/infrastructure/llm"
	"trialsage/internal/infrastructure/maudclient"
	sqliterepo "trialsage/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "trialsage/internal/infrastructure/persistence/sqlite/uow"
	"trialsage/internal/infrastructure/storage"
	"trialsage/internal/ports"
	"trialsage/internal/usecase/assessment"
	"trialsage/internal/usecase/document"
	"trialsage/internal/usecase/export"
	"trialsage/internal/usecase/indform"
	"trialsage/internal/usecase/quality"
	"trialsage/internal/usecase/validation"
	"trialsage/internal/usecase/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server and the export worker",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		ctx = logging.WithAttrs(ctx, slog.String("command", cmd.CommandPath()))

		router, exportWorker := buildServices(app)

		server := &http.Server{
			Addr:         app.Config.Server.Addr,
			Handler:      router,
			ReadTimeout:  app.Config.Server.ReadTimeout,
			WriteTimeout: app.Config.Server.WriteTimeout,
		}

		go exportWorker.Run(ctx)

		serveErr := make(chan error, 1)
		go func() {
			logging.Info(ctx, "http server listening", slog.String("addr", server.Addr))
			serveErr <- server.ListenAndServe()
		}()

		select {
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errs.Wrap(err, "serve http")
			}
			return nil
		case <-ctx.Done():
		}

		logging.Info(ctx, "shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}

		logging.Info(ctx, "http server stopped")
		return nil
	}),
}

// buildServices wires repositories, infrastructure adapters and usecases into
// the HTTP router plus the background export worker.
func buildServices(app *bootstrap.App) (http.Handler, *export.Worker) {
	uow := sqliteuow.NewUnitOfWork(app.DB)

	assessmentRepo := sqliterepo.NewAssessmentRepository(app.DB)
	referenceRepo := sqliterepo.NewReferenceRepository(app.DB)
	qualityRepo := sqliterepo.NewQualityRepository(app.DB)
	documentRepo := sqliterepo.NewDocumentRepository(app.DB)
	validationRepo := sqliterepo.NewValidationRepository(app.DB)
	workflowRepo := sqliterepo.NewWorkflowRepository(app.DB)
	exportRepo := sqliterepo.NewExportRepository(app.DB)

	uploadStore := storage.NewDiskStore(app.Config.Storage.UploadDir)
	exportStore := storage.NewDiskStore(app.Config.Storage.ExportDir)
	qmpCache := cache.NewLRUCache(app.Config.Cache.MaxEntries, app.Config.Cache.QMPTTL)

	var generator ports.TextGenerator
	if app.Config.LLM.APIKey != "" || app.Config.LLM.BaseURL != "" {
		generator = llm.NewOpenAIGenerator(app.Config.LLM)
	}

	exportWorker := export.NewWorker(exportRepo, documentRepo, exportStore, 0)

	router := httpapi.New(
		httpapi.NewAssessmentHandler(assessment.NewService(assessmentRepo, referenceRepo, uow, generator)),
		httpapi.NewQualityHandler(quality.NewService(qualityRepo, qmpCache, app.Config.Cache.QMPTTL)),
		httpapi.NewDocumentHandler(document.NewService(documentRepo, uploadStore, uow)),
		httpapi.NewINDFormHandler(indform.NewService(exportStore)),
		httpapi.NewValidationHandler(validation.NewService(validationRepo, maudclient.New(app.Config.MAUD), app.Config.Cache.ValidationTTL)),
		httpapi.NewWorkflowHandler(workflow.NewService(workflowRepo, uow)),
		httpapi.NewExportHandler(export.NewService(exportRepo, documentRepo)),
	)

	return router, exportWorker
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
