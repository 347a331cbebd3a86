package model

import "gorm.io/datatypes"

type ProtocolAssessment struct {
	AssessmentID   string         `gorm:"column:assessment_id;primaryKey"`
	TenantID       string         `gorm:"column:tenant_id;type:text;not null;index"`
	Indication     string         `gorm:"column:indication;type:text;not null"`
	Phase          string         `gorm:"column:phase;type:text;not null"`
	Endpoints      datatypes.JSON `gorm:"column:endpoints;not null"`
	PopulationSize int            `gorm:"column:population_size;not null;default:0"`
	ResultJSON     string         `gorm:"column:result_json;type:text;not null"`
	CreatedAt      string         `gorm:"column:created_at;type:text;not null"`
}

func (ProtocolAssessment) TableName() string {
	return "protocol_assessments"
}

type AssessmentFeedback struct {
	FeedbackID   uint64         `gorm:"column:feedback_id;primaryKey;autoIncrement"`
	AssessmentID string         `gorm:"column:assessment_id;type:text;not null;index"`
	TenantID     string         `gorm:"column:tenant_id;type:text;not null;index"`
	Comment      string         `gorm:"column:comment;type:text;not null"`
	Rating       int            `gorm:"column:rating;not null"`
	Tags         datatypes.JSON `gorm:"column:tags"`
	CreatedAt    string         `gorm:"column:created_at;type:text;not null"`
}

func (AssessmentFeedback) TableName() string {
	return "protocol_assessment_feedback"
}

// CSRReport is one row of the shared clinical-study reference corpus used to
// benchmark incoming protocol designs.
type CSRReport struct {
	ReportID          uint64 `gorm:"column:report_id;primaryKey;autoIncrement"`
	Title             string `gorm:"column:title;type:text;not null"`
	Sponsor           string `gorm:"column:sponsor;type:text"`
	Indication        string `gorm:"column:indication;type:text;not null;index"`
	Phase             string `gorm:"column:phase;type:text;not null;index"`
	SampleSize        int    `gorm:"column:sample_size;not null;default:0"`
	PrimaryEndpoint   string `gorm:"column:primary_endpoint;type:text"`
	StatisticalMethod string `gorm:"column:statistical_method;type:text"`
	Status            string `gorm:"column:status;type:text"`
}

func (CSRReport) TableName() string {
	return "csr_reports"
}
