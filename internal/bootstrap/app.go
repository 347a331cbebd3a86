package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"trialsage/internal/bootstrap/config"
	"trialsage/internal/bootstrap/database"
	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
)

type App struct {
	Config config.Config
	DB     *gorm.DB
}

func New(ctx context.Context, configFile string) (*App, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "loading application config", slog.String("config_file", configFile))

	cfg, err := config.Load(logCtx, configFile)
	if err != nil {
		return nil, errs.Wrap(err, "load config")
	}

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, errs.Wrap(err, "open database")
	}

	logging.Info(logCtx, "application bootstrap completed", slog.String("database_driver", cfg.Database.Driver))

	return &App{
		Config: cfg,
		DB:     db,
	}, nil
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := a.DB.WithContext(ctx).AutoMigrate(
		&model.ProtocolAssessment{},
		&model.AssessmentFeedback{},
		&model.CSRReport{},
		&model.QualityManagementPlan{},
		&model.CtqFactor{},
		&model.SectionGatingRule{},
		&model.Folder{},
		&model.Document{},
		&model.DocumentVersion{},
		&model.ModuleDocument{},
		&model.Workflow{},
		&model.ApprovalStep{},
		&model.WorkflowEvent{},
		&model.ValidationRecord{},
		&model.DeviceProfile{},
		&model.ExportJob{},
	); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	logging.Info(logCtx, "schema migration completed")
	return nil
}

// SeedReferenceCorpus loads curated study rows into csr_reports when the
// table is empty, so benchmark queries have data on a fresh install.
func (a *App) SeedReferenceCorpus(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	var count int64
	if err := a.DB.WithContext(ctx).Model(&model.CSRReport{}).Count(&count).Error; err != nil {
		return errs.Wrap(err, "count reference corpus")
	}
	if count > 0 {
		return nil
	}

	seed := []model.CSRReport{
		{Title: "Phase 3 randomized study of platinum doublet in advanced NSCLC", Sponsor: "Reference", Indication: "NSCLC", Phase: "Phase 3", SampleSize: 540, PrimaryEndpoint: "OS", StatisticalMethod: "log-rank test", Status: "completed"},
		{Title: "Phase 3 immunotherapy combination in NSCLC", Sponsor: "Reference", Indication: "NSCLC", Phase: "Phase 3", SampleSize: 410, PrimaryEndpoint: "OS", StatisticalMethod: "Cox proportional hazards", Status: "completed"},
		{Title: "Phase 2 targeted therapy in EGFR-mutant NSCLC", Sponsor: "Reference", Indication: "NSCLC", Phase: "Phase 2", SampleSize: 220, PrimaryEndpoint: "PFS", StatisticalMethod: "log-rank test", Status: "completed"},
		{Title: "Phase 2 second-line study in NSCLC", Sponsor: "Reference", Indication: "NSCLC", Phase: "Phase 2", SampleSize: 180, PrimaryEndpoint: "ORR", StatisticalMethod: "exact binomial", Status: "completed"},
		{Title: "Phase 3 adjuvant trial in HER2-positive breast cancer", Sponsor: "Reference", Indication: "Breast Cancer", Phase: "Phase 3", SampleSize: 800, PrimaryEndpoint: "DFS", StatisticalMethod: "Cox proportional hazards", Status: "completed"},
		{Title: "Phase 3 endocrine therapy study in breast cancer", Sponsor: "Reference", Indication: "Breast Cancer", Phase: "Phase 3", SampleSize: 650, PrimaryEndpoint: "OS", StatisticalMethod: "log-rank test", Status: "completed"},
		{Title: "Phase 2 basket study in solid tumors", Sponsor: "Reference", Indication: "Solid Tumors", Phase: "Phase 2", SampleSize: 120, PrimaryEndpoint: "ORR", StatisticalMethod: "exact binomial", Status: "completed"},
		{Title: "Phase 3 DMARD comparison in rheumatoid arthritis", Sponsor: "Reference", Indication: "Rheumatoid Arthritis", Phase: "Phase 3", SampleSize: 480, PrimaryEndpoint: "ACR20", StatisticalMethod: "logistic regression", Status: "completed"},
	}

	if err := a.DB.WithContext(ctx).Create(&seed).Error; err != nil {
		return errs.Wrap(err, "seed reference corpus")
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")),
		"reference corpus seeded",
		slog.Int("rows", len(seed)),
	)
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
