package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// ApprovalHook is notified when an instance for its entity kind finishes.
type ApprovalHook interface {
	MarkApproved(ctx context.Context, tenantID string, entity domain.EntityRef) error
	RollbackToDraft(ctx context.Context, tenantID string, entity domain.EntityRef) error
}

// ApprovalStateReporter is implemented by hooks whose entities can count as
// approved without a finished instance, such as assets activated before their
// kind required approval.
type ApprovalStateReporter interface {
	IsApproved(ctx context.Context, tenantID string, entity domain.EntityRef) (bool, error)
}

// ApprovalGate is the part of the workflow engine posting depends on.
type ApprovalGate interface {
	// IsApproved asks the entity's hook whether its own state already counts as approved.
	IsApproved(ctx context.Context, tenantID string, entity domain.EntityRef) (bool, error)

	// RequiresApproval reports whether an active workflow exists for kind.
	RequiresApproval(ctx context.Context, tenantID string, kind domain.EntityKind) (bool, error)

	// LatestInstanceFor returns the newest instance for the entity, or ErrNotFound.
	LatestInstanceFor(ctx context.Context, tenantID string, entity domain.EntityRef) (*domain.WorkflowInstance, error)

	// Start opens an instance and runs any leading auto-approve steps.
	Start(ctx context.Context, tenantID string, entity domain.EntityRef, actor domain.Actor) (*domain.WorkflowInstance, error)
}

// WorkflowSvcFacade is the approval workflow engine
type WorkflowSvcFacade interface {
	ApprovalGate

	CreateWorkflow(ctx context.Context, tenantID string, req dto.CreateWorkflowRequest, userID string) (*domain.Workflow, error)

	// ApproveStep records an approval at stepOrder and advances the instance.
	ApproveStep(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor, comment string) (*domain.WorkflowInstance, error)

	// RejectStep records a rejection at stepOrder and ends the instance.
	RejectStep(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor, comment string) (*domain.WorkflowInstance, error)

	GetInstance(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error)
	ListActions(ctx context.Context, tenantID, instanceID string) ([]domain.WorkflowAction, error)

	// RegisterHook installs the hook called for instances of kind.
	RegisterHook(kind domain.EntityKind, hook ApprovalHook)
}
