package workflow

import "errors"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var (
	ErrStepsRequired   = errors.New("workflow requires at least one approval step")
	ErrInvalidDecision = errors.New("decision must be approve or reject")
	ErrTerminal        = errors.New("workflow is already terminal")
	ErrStepNotCurrent  = errors.New("decision must target the current pending step")
	ErrStepMissing     = errors.New("no step with the given order")
)

type Step struct {
	StepOrder int
	Status    string
}

// StatusOf derives the workflow status from its steps: rejected on the first
// rejected step, approved once every step is approved, pending otherwise.
func StatusOf(steps []Step) string {
	if len(steps) == 0 {
		return StatusPending
	}

	approved := 0
	for _, step := range steps {
		switch step.Status {
		case StatusRejected:
			return StatusRejected
		case StatusApproved:
			approved++
		}
	}

	if approved == len(steps) {
		return StatusApproved
	}
	return StatusPending
}

// CurrentStep returns the lowest-order pending step.
func CurrentStep(steps []Step) (Step, bool) {
	var current Step
	found := false
	for _, step := range steps {
		if step.Status != StatusPending {
			continue
		}
		if !found || step.StepOrder < current.StepOrder {
			current = step
			found = true
		}
	}
	return current, found
}

type DecisionOutcome struct {
	StepStatus     string
	WorkflowStatus string
	Terminal       bool
}

// ApplyDecision validates a decision against the linear approval chain and
// returns the resulting step and workflow statuses. The workflow is terminal
// on the first rejection or after the last step approves.
func ApplyDecision(steps []Step, stepOrder int, decision string) (DecisionOutcome, error) {
	if len(steps) == 0 {
		return DecisionOutcome{}, ErrStepsRequired
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return DecisionOutcome{}, ErrInvalidDecision
	}
	if StatusOf(steps) != StatusPending {
		return DecisionOutcome{}, ErrTerminal
	}

	exists := false
	for _, step := range steps {
		if step.StepOrder == stepOrder {
			exists = true
			break
		}
	}
	if !exists {
		return DecisionOutcome{}, ErrStepMissing
	}

	current, ok := CurrentStep(steps)
	if !ok || current.StepOrder != stepOrder {
		return DecisionOutcome{}, ErrStepNotCurrent
	}

	if decision == DecisionReject {
		return DecisionOutcome{
			StepStatus:     StatusRejected,
			WorkflowStatus: StatusRejected,
			Terminal:       true,
		}, nil
	}

	next := make([]Step, len(steps))
	copy(next, steps)
	for i := range next {
		if next[i].StepOrder == stepOrder {
			next[i].Status = StatusApproved
		}
	}

	status := StatusOf(next)
	return DecisionOutcome{
		StepStatus:     StatusApproved,
		WorkflowStatus: status,
		Terminal:       status != StatusPending,
	}, nil
}
