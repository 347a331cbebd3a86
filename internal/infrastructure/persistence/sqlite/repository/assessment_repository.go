package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	"trialsage/internal/ports"
)

type AssessmentRepository struct {
	db *gorm.DB
}

var _ ports.AssessmentRepository = (*AssessmentRepository)(nil)

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

func (r *AssessmentRepository) CreateAssessment(ctx context.Context, assessment ports.ProtocolAssessment) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.ProtocolAssessment{
		AssessmentID:   assessment.AssessmentID,
		TenantID:       assessment.TenantID,
		Indication:     assessment.Indication,
		Phase:          assessment.Phase,
		Endpoints:      encodeJSON(assessment.Endpoints),
		PopulationSize: assessment.PopulationSize,
		ResultJSON:     assessment.ResultJSON,
		CreatedAt:      assessment.CreatedAt,
	}

	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert protocol assessment")
	}
	return nil
}

func (r *AssessmentRepository) GetAssessment(ctx context.Context, tenantID string, assessmentID string) (ports.ProtocolAssessment, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ProtocolAssessment{}, err
	}

	var row model.ProtocolAssessment
	if err := db.
		Where("tenant_id = ? AND assessment_id = ?", tenantID, assessmentID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ProtocolAssessment{}, ports.ErrAssessmentNotFound
		}
		return ports.ProtocolAssessment{}, errs.Wrap(err, "query protocol assessment")
	}

	return ports.ProtocolAssessment{
		AssessmentID:   row.AssessmentID,
		TenantID:       row.TenantID,
		Indication:     row.Indication,
		Phase:          row.Phase,
		Endpoints:      decodeStrings(row.Endpoints),
		PopulationSize: row.PopulationSize,
		ResultJSON:     row.ResultJSON,
		CreatedAt:      row.CreatedAt,
	}, nil
}

func (r *AssessmentRepository) CreateFeedback(ctx context.Context, feedback ports.AssessmentFeedback) (ports.AssessmentFeedback, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.AssessmentFeedback{}, err
	}

	row := model.AssessmentFeedback{
		AssessmentID: feedback.AssessmentID,
		TenantID:     feedback.TenantID,
		Comment:      feedback.Comment,
		Rating:       feedback.Rating,
		Tags:         encodeJSON(feedback.Tags),
		CreatedAt:    feedback.CreatedAt,
	}

	if err := db.Create(&row).Error; err != nil {
		return ports.AssessmentFeedback{}, errs.Wrap(err, "insert assessment feedback")
	}

	feedback.FeedbackID = row.FeedbackID
	return feedback, nil
}

func (r *AssessmentRepository) ListFeedback(ctx context.Context, tenantID string, assessmentID string) ([]ports.AssessmentFeedback, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.AssessmentFeedback
	if err := db.
		Where("tenant_id = ? AND assessment_id = ?", tenantID, assessmentID).
		Order("feedback_id asc").
		Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query assessment feedback")
	}

	items := make([]ports.AssessmentFeedback, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.AssessmentFeedback{
			FeedbackID:   row.FeedbackID,
			AssessmentID: row.AssessmentID,
			TenantID:     row.TenantID,
			Comment:      row.Comment,
			Rating:       row.Rating,
			Tags:         decodeStrings(row.Tags),
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

// ReferenceRepository reads the csr_reports corpus. Queries are aggregate
// lookups; the corpus is shared across tenants.
type ReferenceRepository struct {
	db *gorm.DB
}

var _ ports.ReferenceRepository = (*ReferenceRepository)(nil)

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

func (r *ReferenceRepository) CountSimilarProtocols(ctx context.Context, indication string, phase string) (int, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	query := db.Model(&model.CSRReport{}).Where("indication = ?", indication)
	if strings.TrimSpace(phase) != "" {
		query = query.Where("phase = ?", phase)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count similar protocols")
	}
	return int(count), nil
}

func (r *ReferenceRepository) EndpointFrequency(ctx context.Context, indication string, endpoint string) (int, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.Model(&model.CSRReport{}).
		Where("indication = ? AND upper(primary_endpoint) = upper(?)", indication, endpoint).
		Count(&count).Error; err != nil {
		return 0, errs.Wrap(err, "count endpoint frequency")
	}
	return int(count), nil
}

func (r *ReferenceRepository) SampleSizeStats(ctx context.Context, indication string, phase string) (ports.SampleSizeStats, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.SampleSizeStats{}, err
	}

	query := db.Model(&model.CSRReport{}).
		Where("indication = ? AND sample_size > 0", indication)
	if strings.TrimSpace(phase) != "" {
		query = query.Where("phase = ?", phase)
	}

	var sizes []int
	if err := query.Pluck("sample_size", &sizes).Error; err != nil {
		return ports.SampleSizeStats{}, errs.Wrap(err, "query sample sizes")
	}
	if len(sizes) == 0 {
		return ports.SampleSizeStats{}, nil
	}

	sort.Ints(sizes)
	return ports.SampleSizeStats{
		Count:  len(sizes),
		Median: percentile(sizes, 0.50),
		P25:    percentile(sizes, 0.25),
		P75:    percentile(sizes, 0.75),
	}, nil
}

func (r *ReferenceRepository) TopStatisticalMethods(ctx context.Context, indication string, limit int) ([]string, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 3
	}

	var methods []string
	if err := db.Model(&model.CSRReport{}).
		Where("indication = ? AND statistical_method <> ''", indication).
		Group("statistical_method").
		Order("count(*) desc").
		Limit(limit).
		Pluck("statistical_method", &methods).Error; err != nil {
		return nil, errs.Wrap(err, "query statistical methods")
	}
	return methods, nil
}

// percentile uses nearest-rank on a sorted slice.
func percentile(sorted []int, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	rank := int(p*float64(len(sorted))+0.5) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return float64(sorted[rank])
}
