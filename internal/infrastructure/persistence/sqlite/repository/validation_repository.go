package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trialsage/internal/errs"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	"trialsage/internal/ports"
)

type ValidationRepository struct {
	db *gorm.DB
}

var _ ports.ValidationRepository = (*ValidationRepository)(nil)

func NewValidationRepository(db *gorm.DB) *ValidationRepository {
	return &ValidationRepository{db: db}
}

func mapDevice(row model.DeviceProfile) ports.DeviceProfile {
	return ports.DeviceProfile{
		DeviceID:      row.DeviceID,
		TenantID:      row.TenantID,
		Name:          row.Name,
		DeviceClass:   row.DeviceClass,
		IntendedUse:   row.IntendedUse,
		FeatureVector: decodeFloat64s(row.FeatureVector),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func (r *ValidationRepository) CreateRecord(ctx context.Context, record ports.ValidationRecord) (ports.ValidationRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ValidationRecord{}, err
	}

	row := model.ValidationRecord{
		TenantID:     record.TenantID,
		Service:      record.Service,
		TargetID:     record.TargetID,
		RequestJSON:  record.RequestJSON,
		ResponseJSON: record.ResponseJSON,
		Outcome:      record.Outcome,
		ValidatedAt:  record.ValidatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.ValidationRecord{}, errs.Wrap(err, "insert validation record")
	}

	record.RecordID = row.RecordID
	return record, nil
}

func (r *ValidationRepository) LatestRecord(ctx context.Context, tenantID string, service string, targetID string) (ports.ValidationRecord, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.ValidationRecord{}, err
	}

	var row model.ValidationRecord
	if err := db.
		Where("tenant_id = ? AND service = ? AND target_id = ?", tenantID, service, targetID).
		Order("record_id desc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ValidationRecord{}, ports.ErrValidationRecordNotFound
		}
		return ports.ValidationRecord{}, errs.Wrap(err, "query latest validation record")
	}

	return ports.ValidationRecord{
		RecordID:     row.RecordID,
		TenantID:     row.TenantID,
		Service:      row.Service,
		TargetID:     row.TargetID,
		RequestJSON:  row.RequestJSON,
		ResponseJSON: row.ResponseJSON,
		Outcome:      row.Outcome,
		ValidatedAt:  row.ValidatedAt,
	}, nil
}

func (r *ValidationRepository) CreateDevice(ctx context.Context, device ports.DeviceProfile) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := model.DeviceProfile{
		DeviceID:      device.DeviceID,
		TenantID:      device.TenantID,
		Name:          device.Name,
		DeviceClass:   device.DeviceClass,
		IntendedUse:   device.IntendedUse,
		FeatureVector: encodeJSON(device.FeatureVector),
		CreatedAt:     device.CreatedAt,
		UpdatedAt:     device.UpdatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert device profile")
	}
	return nil
}

func (r *ValidationRepository) GetDevice(ctx context.Context, tenantID string, deviceID string) (ports.DeviceProfile, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.DeviceProfile{}, err
	}

	var row model.DeviceProfile
	if err := db.Where("tenant_id = ? AND device_id = ?", tenantID, deviceID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DeviceProfile{}, ports.ErrDeviceProfileNotFound
		}
		return ports.DeviceProfile{}, errs.Wrap(err, "query device profile")
	}
	return mapDevice(row), nil
}

func (r *ValidationRepository) ListDevices(ctx context.Context, tenantID string) ([]ports.DeviceProfile, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.DeviceProfile
	if err := db.Where("tenant_id = ?", tenantID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query device profiles")
	}

	items := make([]ports.DeviceProfile, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapDevice(row))
	}
	return items, nil
}

func (r *ValidationRepository) UpdateDevice(ctx context.Context, device ports.DeviceProfile) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.DeviceProfile{}).
		Where("tenant_id = ? AND device_id = ?", device.TenantID, device.DeviceID).
		Updates(map[string]any{
			"name":           device.Name,
			"device_class":   device.DeviceClass,
			"intended_use":   device.IntendedUse,
			"feature_vector": encodeJSON(device.FeatureVector),
			"updated_at":     device.UpdatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update device profile")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDeviceProfileNotFound
	}
	return nil
}

func (r *ValidationRepository) DeleteDevice(ctx context.Context, tenantID string, deviceID string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Where("tenant_id = ? AND device_id = ?", tenantID, deviceID).Delete(&model.DeviceProfile{})
	if result.Error != nil {
		return errs.Wrap(result.Error, "delete device profile")
	}
	if result.RowsAffected == 0 {
		return ports.ErrDeviceProfileNotFound
	}
	return nil
}
