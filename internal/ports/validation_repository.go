package ports

import (
	"context"
	"errors"
)

var (
	ErrValidationRecordNotFound = errors.New("validation record not found")
	ErrDeviceProfileNotFound    = errors.New("device profile not found")
)

// ValidationRecord caches the outcome of a prior third-party validation call
// so the proxy can degrade to the last known result when the upstream fails.
type ValidationRecord struct {
	RecordID     uint64
	TenantID     string
	Service      string
	TargetID     string
	RequestJSON  string
	ResponseJSON string
	Outcome      string
	ValidatedAt  string
}

type DeviceProfile struct {
	DeviceID      string
	TenantID      string
	Name          string
	DeviceClass   string
	IntendedUse   string
	FeatureVector []float64
	CreatedAt     string
	UpdatedAt     string
}

type ValidationRepository interface {
	CreateRecord(ctx context.Context, record ValidationRecord) (ValidationRecord, error)
	LatestRecord(ctx context.Context, tenantID string, service string, targetID string) (ValidationRecord, error)

	CreateDevice(ctx context.Context, device DeviceProfile) error
	GetDevice(ctx context.Context, tenantID string, deviceID string) (DeviceProfile, error)
	ListDevices(ctx context.Context, tenantID string) ([]DeviceProfile, error)
	UpdateDevice(ctx context.Context, device DeviceProfile) error
	DeleteDevice(ctx context.Context, tenantID string, deviceID string) error
}
