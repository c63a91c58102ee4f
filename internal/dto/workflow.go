package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// WorkflowStepRequest describes one approval step.
type WorkflowStepRequest struct {
	StepOrder          int    `json:"stepOrder" binding:"required,min=1"`
	ApproverRole       string `json:"approverRole"`
	ApproverPermission string `json:"approverPermission"`
	Action             string `json:"action" binding:"omitempty,oneof=APPROVE REJECT"`
	AutoApprove        bool   `json:"autoApprove"`
}

// CreateWorkflowRequest defines a workflow for one entity kind.
type CreateWorkflowRequest struct {
	EntityKind string                `json:"entityKind" binding:"required"`
	Name       string                `json:"name" binding:"required"`
	Steps      []WorkflowStepRequest `json:"steps" binding:"required,min=1,dive"`
}

// StartWorkflowRequest starts approval for an entity.
type StartWorkflowRequest struct {
	EntityKind string `json:"entityKind" binding:"required"`
	EntityID   string `json:"entityId" binding:"required"`
}

// StepDecisionRequest approves or rejects the named step.
type StepDecisionRequest struct {
	StepOrder int    `json:"stepOrder" binding:"required,min=1"`
	Comment   string `json:"comment"`
}

// WorkflowInstanceResponse defines the data returned for a workflow instance.
type WorkflowInstanceResponse struct {
	InstanceID  string                  `json:"instanceID"`
	WorkflowID  string                  `json:"workflowID"`
	EntityKind  string                  `json:"entityKind"`
	EntityID    string                  `json:"entityID"`
	CurrentStep int                     `json:"currentStep"`
	Status      domain.WorkflowStatus   `json:"status"`
	InitiatedBy string                  `json:"initiatedBy"`
	CreatedAt   time.Time               `json:"createdAt"`
	CompletedAt *time.Time              `json:"completedAt,omitempty"`
	Actions     []domain.WorkflowAction `json:"actions,omitempty"`
}

// ToWorkflowSteps converts step requests to domain steps.
func ToWorkflowSteps(reqs []WorkflowStepRequest) []domain.WorkflowStep {
	steps := make([]domain.WorkflowStep, len(reqs))
	for i, r := range reqs {
		action := domain.ActionApprove
		if r.Action != "" {
			action = domain.ActionType(r.Action)
		}
		steps[i] = domain.WorkflowStep{
			StepOrder:          r.StepOrder,
			ApproverRole:       r.ApproverRole,
			ApproverPermission: r.ApproverPermission,
			Action:             action,
			AutoApprove:        r.AutoApprove,
		}
	}
	return steps
}

// ToWorkflowInstanceResponse converts a domain.WorkflowInstance to its DTO.
func ToWorkflowInstanceResponse(inst *domain.WorkflowInstance, actions []domain.WorkflowAction) WorkflowInstanceResponse {
	resp := WorkflowInstanceResponse{
		InstanceID:  inst.InstanceID,
		WorkflowID:  inst.WorkflowID,
		CurrentStep: inst.CurrentStep,
		Status:      inst.Status,
		InitiatedBy: inst.InitiatedBy,
		CreatedAt:   inst.CreatedAt,
		CompletedAt: inst.CompletedAt,
		Actions:     actions,
	}
	if inst.Entity != nil {
		resp.EntityKind = string(inst.Entity.Kind())
		resp.EntityID = inst.Entity.EntityID()
	}
	return resp
}
