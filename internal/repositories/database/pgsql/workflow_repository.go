package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWorkflowRepository struct {
	BaseRepository
}

func newPgxWorkflowRepository(pool *pgxpool.Pool) *PgxWorkflowRepository {
	return &PgxWorkflowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkflowRepositoryFacade = (*PgxWorkflowRepository)(nil)

const (
	workflowColumns = `workflow_id, tenant_id, entity_kind, name, is_active,
	created_at, created_by, last_updated_at, last_updated_by`
	instanceColumns = `instance_id, tenant_id, workflow_id, entity_kind, entity_id, current_step, status,
	initiated_by, created_at, updated_at, completed_at`
)

func (r *PgxWorkflowRepository) findWorkflow(ctx context.Context, where string, args ...any) (*domain.Workflow, error) {
	var wf domain.Workflow
	err := r.db(ctx).QueryRow(ctx, `SELECT `+workflowColumns+` FROM workflows WHERE `+where+`;`, args...).Scan(
		&wf.WorkflowID, &wf.TenantID, &wf.EntityKind, &wf.Name, &wf.IsActive,
		&wf.CreatedAt, &wf.CreatedBy, &wf.LastUpdatedAt, &wf.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db(ctx).Query(ctx, `
		SELECT step_order, approver_role, approver_permission, action, auto_approve
		FROM workflow_steps WHERE workflow_id = $1 ORDER BY step_order;`, wf.WorkflowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.WorkflowStep
		if err := rows.Scan(&s.StepOrder, &s.ApproverRole, &s.ApproverPermission, &s.Action, &s.AutoApprove); err != nil {
			return nil, err
		}
		wf.Steps = append(wf.Steps, s)
	}
	return &wf, rows.Err()
}

func (r *PgxWorkflowRepository) FindWorkflowByID(ctx context.Context, tenantID, workflowID string) (*domain.Workflow, error) {
	wf, err := r.findWorkflow(ctx, "tenant_id = $1 AND workflow_id = $2", tenantID, workflowID)
	if err != nil {
		return nil, notFoundOr(err, "workflow "+workflowID)
	}
	return wf, nil
}

func (r *PgxWorkflowRepository) FindActiveWorkflow(ctx context.Context, tenantID string, kind domain.EntityKind) (*domain.Workflow, error) {
	wf, err := r.findWorkflow(ctx, "tenant_id = $1 AND entity_kind = $2 AND is_active", tenantID, kind)
	if err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("no active workflow for %s", kind))
	}
	return wf, nil
}

func scanInstance(row rowScanner) (*domain.WorkflowInstance, error) {
	var inst domain.WorkflowInstance
	var kind, id string
	if err := row.Scan(
		&inst.InstanceID, &inst.TenantID, &inst.WorkflowID, &kind, &id, &inst.CurrentStep, &inst.Status,
		&inst.InitiatedBy, &inst.CreatedAt, &inst.UpdatedAt, &inst.CompletedAt,
	); err != nil {
		return nil, err
	}
	ref, err := domain.ParseEntityRef(kind, id)
	if err != nil {
		return nil, err
	}
	inst.Entity = ref
	return &inst, nil
}

func (r *PgxWorkflowRepository) FindInstanceByID(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error) {
	inst, err := scanInstance(r.db(ctx).QueryRow(ctx,
		`SELECT `+instanceColumns+` FROM workflow_instances WHERE tenant_id = $1 AND instance_id = $2;`, tenantID, instanceID))
	if err != nil {
		return nil, notFoundOr(err, "workflow instance "+instanceID)
	}
	return inst, nil
}

func (r *PgxWorkflowRepository) FindInstanceByIDForUpdate(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error) {
	inst, err := scanInstance(r.db(ctx).QueryRow(ctx,
		`SELECT `+instanceColumns+` FROM workflow_instances WHERE tenant_id = $1 AND instance_id = $2 FOR UPDATE;`, tenantID, instanceID))
	if err != nil {
		return nil, notFoundOr(err, "workflow instance "+instanceID)
	}
	return inst, nil
}

// FindLatestInstance orders by the insertion sequence so instances created in
// the same instant still have a well-defined latest.
func (r *PgxWorkflowRepository) FindLatestInstance(ctx context.Context, tenantID string, entity domain.EntityRef) (*domain.WorkflowInstance, error) {
	inst, err := scanInstance(r.db(ctx).QueryRow(ctx, `
		SELECT `+instanceColumns+` FROM workflow_instances
		WHERE tenant_id = $1 AND entity_kind = $2 AND entity_id = $3
		ORDER BY seq DESC LIMIT 1;`, tenantID, entity.Kind(), entity.EntityID()))
	if err != nil {
		return nil, notFoundOr(err, "no workflow instance for "+domain.RefKey(entity))
	}
	return inst, nil
}

func (r *PgxWorkflowRepository) ListActions(ctx context.Context, tenantID, instanceID string) ([]domain.WorkflowAction, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT action_id, tenant_id, instance_id, step_order, user_id, action, comment, created_at
		FROM workflow_actions WHERE tenant_id = $1 AND instance_id = $2
		ORDER BY created_at, seq;`, tenantID, instanceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflow actions", err)
	}
	defer rows.Close()

	actions := []domain.WorkflowAction{}
	for rows.Next() {
		var a domain.WorkflowAction
		if err := rows.Scan(&a.ActionID, &a.TenantID, &a.InstanceID, &a.StepOrder, &a.UserID, &a.Action, &a.Comment, &a.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan workflow action", err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating workflow actions", err)
	}
	return actions, nil
}

// SaveWorkflow deactivates the current workflow of the kind and inserts wf with its steps.
func (r *PgxWorkflowRepository) SaveWorkflow(ctx context.Context, wf domain.Workflow) error {
	return r.inTx(ctx, func(db querier) error {
		batch := &pgx.Batch{}
		if wf.IsActive {
			batch.Queue(`UPDATE workflows SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
				WHERE tenant_id = $1 AND entity_kind = $2 AND is_active;`,
				wf.TenantID, wf.EntityKind, wf.LastUpdatedAt, wf.LastUpdatedBy)
		}
		batch.Queue(`INSERT INTO workflows (`+workflowColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
			wf.WorkflowID, wf.TenantID, wf.EntityKind, wf.Name, wf.IsActive,
			wf.CreatedAt, wf.CreatedBy, wf.LastUpdatedAt, wf.LastUpdatedBy)
		for _, s := range wf.Steps {
			batch.Queue(`INSERT INTO workflow_steps (workflow_id, step_order, approver_role, approver_permission, action, auto_approve)
				VALUES ($1, $2, $3, $4, $5, $6);`,
				wf.WorkflowID, s.StepOrder, s.ApproverRole, s.ApproverPermission, s.Action, s.AutoApprove)
		}
		if err := db.SendBatch(ctx, batch).Close(); err != nil {
			return writeErr(err, "workflow "+wf.Name)
		}
		return nil
	})
}

func (r *PgxWorkflowRepository) SaveInstance(ctx context.Context, inst domain.WorkflowInstance) error {
	_, err := r.db(ctx).Exec(ctx, `INSERT INTO workflow_instances (`+instanceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
		inst.InstanceID, inst.TenantID, inst.WorkflowID, inst.Entity.Kind(), inst.Entity.EntityID(),
		inst.CurrentStep, inst.Status, inst.InitiatedBy, inst.CreatedAt, inst.UpdatedAt, inst.CompletedAt)
	if err != nil {
		return writeErr(err, "workflow instance "+inst.InstanceID)
	}
	return nil
}

func (r *PgxWorkflowRepository) UpdateInstance(ctx context.Context, inst domain.WorkflowInstance) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE workflow_instances SET current_step = $3, status = $4, updated_at = $5, completed_at = $6
		WHERE tenant_id = $1 AND instance_id = $2;`,
		inst.TenantID, inst.InstanceID, inst.CurrentStep, inst.Status, inst.UpdatedAt, inst.CompletedAt)
	return expectOne(tag, err, "workflow instance "+inst.InstanceID)
}

func (r *PgxWorkflowRepository) SaveAction(ctx context.Context, a domain.WorkflowAction) error {
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO workflow_actions (action_id, tenant_id, instance_id, step_order, user_id, action, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		a.ActionID, a.TenantID, a.InstanceID, a.StepOrder, a.UserID, a.Action, a.Comment, a.CreatedAt)
	if err != nil {
		return writeErr(err, "workflow action "+a.ActionID)
	}
	return nil
}
