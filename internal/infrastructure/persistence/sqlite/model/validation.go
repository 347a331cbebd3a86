package model

import "gorm.io/datatypes"

type ValidationRecord struct {
	RecordID     uint64 `gorm:"column:record_id;primaryKey;autoIncrement"`
	TenantID     string `gorm:"column:tenant_id;type:text;not null;index"`
	Service      string `gorm:"column:service;type:text;not null;index"`
	TargetID     string `gorm:"column:target_id;type:text;not null;index"`
	RequestJSON  string `gorm:"column:request_json;type:text;not null"`
	ResponseJSON string `gorm:"column:response_json;type:text;not null"`
	Outcome      string `gorm:"column:outcome;type:text;not null"`
	ValidatedAt  string `gorm:"column:validated_at;type:text;not null;index"`
}

func (ValidationRecord) TableName() string {
	return "validation_records"
}

type DeviceProfile struct {
	DeviceID      string         `gorm:"column:device_id;primaryKey"`
	TenantID      string         `gorm:"column:tenant_id;type:text;not null;index"`
	Name          string         `gorm:"column:name;type:text;not null"`
	DeviceClass   string         `gorm:"column:device_class;type:text;not null"`
	IntendedUse   string         `gorm:"column:intended_use;type:text"`
	FeatureVector datatypes.JSON `gorm:"column:feature_vector"`
	CreatedAt     string         `gorm:"column:created_at;type:text;not null"`
	UpdatedAt     string         `gorm:"column:updated_at;type:text;not null"`
}

func (DeviceProfile) TableName() string {
	return "device_profiles"
}
