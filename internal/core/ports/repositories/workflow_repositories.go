package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// WorkflowReader defines read operations for workflow definitions and runs
type WorkflowReader interface {
	FindWorkflowByID(ctx context.Context, tenantID, workflowID string) (*domain.Workflow, error)

	// FindActiveWorkflow returns the active workflow for an entity kind, or ErrNotFound.
	FindActiveWorkflow(ctx context.Context, tenantID string, kind domain.EntityKind) (*domain.Workflow, error)

	FindInstanceByID(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error)

	// FindInstanceByIDForUpdate locks the instance row for the surrounding transaction.
	FindInstanceByIDForUpdate(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error)

	// FindLatestInstance returns the most recently created instance for the entity, or ErrNotFound.
	FindLatestInstance(ctx context.Context, tenantID string, entity domain.EntityRef) (*domain.WorkflowInstance, error)

	ListActions(ctx context.Context, tenantID, instanceID string) ([]domain.WorkflowAction, error)
}

// WorkflowWriter defines write operations for workflow definitions and runs
type WorkflowWriter interface {
	// SaveWorkflow stores a new workflow and deactivates any other active
	// workflow of the same entity kind.
	SaveWorkflow(ctx context.Context, wf domain.Workflow) error
	SaveInstance(ctx context.Context, inst domain.WorkflowInstance) error
	UpdateInstance(ctx context.Context, inst domain.WorkflowInstance) error
	SaveAction(ctx context.Context, action domain.WorkflowAction) error
}

// WorkflowRepositoryFacade combines workflow reads and writes
type WorkflowRepositoryFacade interface {
	WorkflowReader
	WorkflowWriter
}
