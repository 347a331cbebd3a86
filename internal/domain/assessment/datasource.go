package assessment

// DataOrigin tags whether reference figures came from a live corpus query or
// from the curated static fallback.
type DataOrigin string

const (
	OriginLive     DataOrigin = "live"
	OriginFallback DataOrigin = "fallback"
)

type DataSource struct {
	Origin DataOrigin `json:"origin"`
	Reason string     `json:"reason,omitempty"`
}

func Live() DataSource {
	return DataSource{Origin: OriginLive}
}

func Fallback(reason string) DataSource {
	return DataSource{Origin: OriginFallback, Reason: reason}
}

func (s DataSource) IsFallback() bool {
	return s.Origin == OriginFallback
}
