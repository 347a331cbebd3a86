package validation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"trialsage/internal/domain/device"
	"trialsage/internal/infrastructure/maudclient"
	"trialsage/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "trialsage/internal/infrastructure/persistence/sqlite/repository"
	"trialsage/internal/ports"
)

type stubValidator struct {
	response maudclient.ValidationResponse
	err      error
	calls    int
}

func (v *stubValidator) Validate(_ context.Context, _ string, _ maudclient.ValidationRequest) (maudclient.ValidationResponse, error) {
	v.calls++
	return v.response, v.err
}

func setupService(t *testing.T, validator Validator) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.ValidationRecord{}, &model.DeviceProfile{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewService(sqliterepo.NewValidationRepository(db), validator, time.Hour)
}

func TestValidatePersistsLiveOutcome(t *testing.T) {
	validator := &stubValidator{
		response: maudclient.ValidationResponse{
			Outcome: "validated",
			Details: json.RawMessage(`{"checks":12}`),
		},
	}
	svc := setupService(t, validator)
	ctx := context.Background()

	result, err := svc.Validate(ctx, ValidateInput{
		TenantID:    "acme",
		Service:     "maud",
		AlgorithmID: "algo-7",
		Payload:     map[string]any{"version": "2.1"},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Source != SourceLive || result.Outcome != "validated" {
		t.Fatalf("unexpected result: %+v", result)
	}

	latest, err := svc.LatestResult(ctx, "acme", "maud", "algo-7")
	if err != nil {
		t.Fatalf("latest result: %v", err)
	}
	if latest.Source != SourceCached || latest.Outcome != "validated" {
		t.Fatalf("unexpected persisted result: %+v", latest)
	}
	if string(latest.Details) != `{"checks":12}` {
		t.Fatalf("details not preserved: %s", latest.Details)
	}
}

func TestValidateDegradesToCachedOnUpstreamFailure(t *testing.T) {
	validator := &stubValidator{response: maudclient.ValidationResponse{Outcome: "validated"}}
	svc := setupService(t, validator)
	ctx := context.Background()

	if _, err := svc.Validate(ctx, ValidateInput{TenantID: "acme", Service: "maud", AlgorithmID: "algo-1"}); err != nil {
		t.Fatalf("priming validate: %v", err)
	}

	validator.err = fmt.Errorf("%w: status 503", maudclient.ErrUpstream)

	result, err := svc.Validate(ctx, ValidateInput{TenantID: "acme", Service: "maud", AlgorithmID: "algo-1"})
	if err != nil {
		t.Fatalf("degraded validate: %v", err)
	}
	if result.Source != SourceCached || result.Outcome != "validated" || result.Reason == "" {
		t.Fatalf("expected cached degradation, got %+v", result)
	}
}

func TestValidateWithoutCacheSurfacesUpstreamError(t *testing.T) {
	validator := &stubValidator{err: fmt.Errorf("%w: connection refused", maudclient.ErrUpstream)}
	svc := setupService(t, validator)

	_, err := svc.Validate(context.Background(), ValidateInput{TenantID: "acme", Service: "maud", AlgorithmID: "algo-9"})
	if !errors.Is(err, maudclient.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestValidateRefusesStaleCachedRecord(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.ValidationRecord{}, &model.DeviceProfile{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	repo := sqliterepo.NewValidationRepository(db)
	validator := &stubValidator{err: fmt.Errorf("%w: status 503", maudclient.ErrUpstream)}
	svc := NewService(repo, validator, time.Hour)
	ctx := context.Background()

	stale := time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339)
	_, err = repo.CreateRecord(ctx, ports.ValidationRecord{
		TenantID:     "acme",
		Service:      "maud",
		TargetID:     "algo-9",
		RequestJSON:  "{}",
		ResponseJSON: `{"outcome":"validated"}`,
		Outcome:      "validated",
		ValidatedAt:  stale,
	})
	if err != nil {
		t.Fatalf("seed stale record: %v", err)
	}

	_, err = svc.Validate(ctx, ValidateInput{TenantID: "acme", Service: "maud", AlgorithmID: "algo-9"})
	if !errors.Is(err, maudclient.ErrUpstream) {
		t.Fatalf("stale record must not mask the upstream failure, got %v", err)
	}
}

func TestLatestResultUnknownTarget(t *testing.T) {
	svc := setupService(t, &stubValidator{})

	_, err := svc.LatestResult(context.Background(), "acme", "maud", "never-validated")
	if !errors.Is(err, ports.ErrValidationRecordNotFound) {
		t.Fatalf("expected ErrValidationRecordNotFound, got %v", err)
	}
}

func TestDeviceLifecycleAndCompare(t *testing.T) {
	svc := setupService(t, &stubValidator{})
	ctx := context.Background()

	subject, err := svc.CreateDevice(ctx, DeviceInput{
		TenantID:      "acme",
		Name:          "CardioMon X",
		DeviceClass:   "II",
		IntendedUse:   "continuous cardiac monitoring",
		FeatureVector: []float64{1, 0, 1},
	})
	if err != nil {
		t.Fatalf("create device: %v", err)
	}

	near, err := svc.CreateDevice(ctx, DeviceInput{
		TenantID:      "acme",
		Name:          "CardioMon W",
		DeviceClass:   "II",
		FeatureVector: []float64{1, 0, 0.9},
	})
	if err != nil {
		t.Fatalf("create device: %v", err)
	}
	far, err := svc.CreateDevice(ctx, DeviceInput{
		TenantID:      "acme",
		Name:          "GlucoTrack",
		DeviceClass:   "II",
		FeatureVector: []float64{0, 1, 0},
	})
	if err != nil {
		t.Fatalf("create device: %v", err)
	}

	matches, err := svc.ComparePredicates(ctx, "acme", subject.DeviceID)
	if err != nil {
		t.Fatalf("compare predicates: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected two candidates, got %+v", matches)
	}
	if matches[0].DeviceID != near.DeviceID || matches[1].DeviceID != far.DeviceID {
		t.Fatalf("expected similarity ordering, got %+v", matches)
	}
	if matches[1].Similarity != 0 {
		t.Fatalf("orthogonal vectors must score zero, got %v", matches[1].Similarity)
	}

	updated, err := svc.UpdateDevice(ctx, "acme", subject.DeviceID, DeviceInput{Name: "CardioMon X2"})
	if err != nil {
		t.Fatalf("update device: %v", err)
	}
	if updated.Name != "CardioMon X2" || updated.DeviceClass != "II" {
		t.Fatalf("unexpected updated device: %+v", updated)
	}

	if err := svc.DeleteDevice(ctx, "acme", far.DeviceID); err != nil {
		t.Fatalf("delete device: %v", err)
	}
	if _, err := svc.GetDevice(ctx, "acme", far.DeviceID); !errors.Is(err, ports.ErrDeviceProfileNotFound) {
		t.Fatalf("expected ErrDeviceProfileNotFound, got %v", err)
	}
}

func TestCompareRequiresFeatureVector(t *testing.T) {
	svc := setupService(t, &stubValidator{})
	ctx := context.Background()

	subject, err := svc.CreateDevice(ctx, DeviceInput{TenantID: "acme", Name: "NoVector"})
	if err != nil {
		t.Fatalf("create device: %v", err)
	}

	_, err = svc.ComparePredicates(ctx, "acme", subject.DeviceID)
	if !errors.Is(err, device.ErrZeroVector) {
		t.Fatalf("expected ErrZeroVector, got %v", err)
	}
}
