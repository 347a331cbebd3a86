package quality

import "errors"

var (
	ErrInvalidStatus    = errors.New("invalid quality management plan status")
	ErrInvalidRiskLevel = errors.New("invalid ctq risk level")
	ErrQMPReferenced    = errors.New("quality management plan is referenced by active gating rules")
	ErrSectionRequired  = errors.New("section key is required")
)
