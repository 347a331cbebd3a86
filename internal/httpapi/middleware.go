package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"trialsage/internal/bootstrap/logging"
)

const (
	tenantHeader  = "X-Tenant-Id"
	defaultTenant = "default"
)

type tenantKey struct{}

// TenantFromContext returns the tenant id resolved by the Tenant middleware.
func TenantFromContext(ctx context.Context) string {
	if tenant, ok := ctx.Value(tenantKey{}).(string); ok && tenant != "" {
		return tenant
	}
	return defaultTenant
}

// validTenant accepts tenant ids usable as a storage directory segment:
// letters, digits, '-', '_' and '.', never "." or "..".
func validTenant(tenant string) bool {
	if tenant == "" || tenant == "." || tenant == ".." {
		return false
	}
	for _, r := range tenant {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}

// Tenant resolves the tenant from the X-Tenant-Id header and stores it in
// the request context together with a matching log attribute.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenant := strings.TrimSpace(r.Header.Get(tenantHeader))
		if tenant == "" {
			tenant = defaultTenant
		}
		if !validTenant(tenant) {
			writeError(w, http.StatusBadRequest, "invalid tenant id")
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey{}, tenant)
		ctx = logging.WithAttrs(ctx, slog.String("tenant_id", tenant))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logging.Info(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// Recover converts handler panics into 500 responses and logs the stack.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.Error(r.Context(), "handler panic",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
