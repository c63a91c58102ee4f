package domain

import (
	"sort"
	"time"
)

// SystemUserID is recorded as the actor on automatically approved steps.
const SystemUserID = "system"

// WorkflowStatus is the state of a workflow instance.
type WorkflowStatus string

const (
	WorkflowPending  WorkflowStatus = "PENDING"
	WorkflowApproved WorkflowStatus = "APPROVED"
	WorkflowRejected WorkflowStatus = "REJECTED"
)

// IsTerminal reports whether no further transitions are possible.
func (s WorkflowStatus) IsTerminal() bool {
	return s == WorkflowApproved || s == WorkflowRejected
}

// ActionType is what an approver did (or is expected to do) at a step.
type ActionType string

const (
	ActionApprove ActionType = "APPROVE"
	ActionReject  ActionType = "REJECT"
)

// Workflow is an ordered approval chain for one entity kind within a tenant.
type Workflow struct {
	WorkflowID string         `json:"workflowID"`
	TenantID   string         `json:"tenantID"`
	EntityKind EntityKind     `json:"entityKind"`
	Name       string         `json:"name"`
	IsActive   bool           `json:"isActive"`
	Steps      []WorkflowStep `json:"steps"`
	AuditFields
}

// WorkflowStep names who may act at a given position in the chain.
type WorkflowStep struct {
	StepOrder          int        `json:"stepOrder"`
	ApproverRole       string     `json:"approverRole,omitempty"`
	ApproverPermission string     `json:"approverPermission,omitempty"`
	Action             ActionType `json:"action"`
	AutoApprove        bool       `json:"autoApprove"`
}

// SortedSteps returns the steps ordered by StepOrder.
func (w Workflow) SortedSteps() []WorkflowStep {
	steps := make([]WorkflowStep, len(w.Steps))
	copy(steps, w.Steps)
	sort.Slice(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })
	return steps
}

// FirstStep returns the lowest-ordered step.
func (w Workflow) FirstStep() (WorkflowStep, bool) {
	steps := w.SortedSteps()
	if len(steps) == 0 {
		return WorkflowStep{}, false
	}
	return steps[0], true
}

// Step returns the step with the given order.
func (w Workflow) Step(order int) (WorkflowStep, bool) {
	for _, s := range w.Steps {
		if s.StepOrder == order {
			return s, true
		}
	}
	return WorkflowStep{}, false
}

// NextStep returns the step following order, if any.
func (w Workflow) NextStep(order int) (WorkflowStep, bool) {
	for _, s := range w.SortedSteps() {
		if s.StepOrder > order {
			return s, true
		}
	}
	return WorkflowStep{}, false
}

// WorkflowInstance is one run of a workflow against a specific entity.
type WorkflowInstance struct {
	InstanceID  string         `json:"instanceID"`
	TenantID    string         `json:"tenantID"`
	WorkflowID  string         `json:"workflowID"`
	Entity      EntityRef      `json:"-"`
	CurrentStep int            `json:"currentStep"`
	Status      WorkflowStatus `json:"status"`
	InitiatedBy string         `json:"initiatedBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// WorkflowAction is an append-only record of a decision taken at a step.
type WorkflowAction struct {
	ActionID   string     `json:"actionID"`
	TenantID   string     `json:"tenantID"`
	InstanceID string     `json:"instanceID"`
	StepOrder  int        `json:"stepOrder"`
	UserID     string     `json:"userID"`
	Action     ActionType `json:"action"`
	Comment    string     `json:"comment,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
