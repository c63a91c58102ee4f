package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/google/uuid"
)

type workflowService struct {
	BaseService
	repo      portsrepo.WorkflowRepositoryFacade
	txManager portsrepo.TransactionManager

	hooksMu sync.RWMutex
	hooks   map[domain.EntityKind]portssvc.ApprovalHook
}

// WorkflowServiceOption is a functional option for configuring the workflow service
type WorkflowServiceOption func(*workflowService)

// WithWorkflowClock overrides the time source.
func WithWorkflowClock(clock func() time.Time) WorkflowServiceOption {
	return func(s *workflowService) {
		s.clock = clock
	}
}

// NewWorkflowService creates the approval workflow engine.
func NewWorkflowService(repo portsrepo.WorkflowRepositoryFacade, txManager portsrepo.TransactionManager, options ...WorkflowServiceOption) portssvc.WorkflowSvcFacade {
	svc := &workflowService{
		repo:      repo,
		txManager: txManager,
		hooks:     make(map[domain.EntityKind]portssvc.ApprovalHook),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// loggingHook is used for kinds nobody registered a hook for.
type loggingHook struct {
	svc *workflowService
}

func (h loggingHook) MarkApproved(ctx context.Context, tenantID string, entity domain.EntityRef) error {
	h.svc.LogDebug(ctx, "No approval hook registered", slog.String("entity", domain.RefKey(entity)))
	return nil
}

func (h loggingHook) RollbackToDraft(ctx context.Context, tenantID string, entity domain.EntityRef) error {
	h.svc.LogDebug(ctx, "No rejection hook registered", slog.String("entity", domain.RefKey(entity)))
	return nil
}

func (s *workflowService) RegisterHook(kind domain.EntityKind, hook portssvc.ApprovalHook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks[kind] = hook
}

func (s *workflowService) hookFor(kind domain.EntityKind) portssvc.ApprovalHook {
	s.hooksMu.RLock()
	defer s.hooksMu.RUnlock()
	if h, ok := s.hooks[kind]; ok {
		return h
	}
	return loggingHook{svc: s}
}

// CreateWorkflow stores a workflow and makes it the active one for its kind.
func (s *workflowService) CreateWorkflow(ctx context.Context, tenantID string, req dto.CreateWorkflowRequest, userID string) (*domain.Workflow, error) {
	kind := domain.EntityKind(strings.ToUpper(strings.TrimSpace(req.EntityKind)))
	if _, err := domain.ParseEntityRef(string(kind), "-"); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if len(req.Steps) == 0 {
		return nil, fmt.Errorf("%w: workflow needs at least one step", apperrors.ErrValidation)
	}
	seen := make(map[int]struct{}, len(req.Steps))
	for _, st := range req.Steps {
		if st.StepOrder < 1 {
			return nil, fmt.Errorf("%w: step order must be positive", apperrors.ErrValidation)
		}
		if _, dup := seen[st.StepOrder]; dup {
			return nil, fmt.Errorf("%w: duplicate step order %d", apperrors.ErrValidation, st.StepOrder)
		}
		switch domain.ActionType(st.Action) {
		case "", domain.ActionApprove:
		case domain.ActionReject:
			// Manual steps always allow both decisions.
			if !st.AutoApprove {
				return nil, fmt.Errorf("%w: step %d: REJECT requires an automatic step", apperrors.ErrValidation, st.StepOrder)
			}
		default:
			return nil, fmt.Errorf("%w: step %d: unknown action %q", apperrors.ErrValidation, st.StepOrder, st.Action)
		}
		seen[st.StepOrder] = struct{}{}
	}

	wf := domain.Workflow{
		WorkflowID:  uuid.NewString(),
		TenantID:    tenantID,
		EntityKind:  kind,
		Name:        req.Name,
		IsActive:    true,
		Steps:       dto.ToWorkflowSteps(req.Steps),
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	wf.Steps = wf.SortedSteps()

	if err := s.repo.SaveWorkflow(ctx, wf); err != nil {
		s.LogError(ctx, err, "Failed to save workflow", slog.String("entity_kind", string(kind)))
		return nil, err
	}
	s.LogInfo(ctx, "Workflow created",
		slog.String("workflow_id", wf.WorkflowID),
		slog.String("entity_kind", string(kind)),
		slog.Int("steps", len(wf.Steps)))
	return &wf, nil
}

// RequiresApproval reports whether an active workflow exists for kind.
func (s *workflowService) RequiresApproval(ctx context.Context, tenantID string, kind domain.EntityKind) (bool, error) {
	_, err := s.repo.FindActiveWorkflow(ctx, tenantID, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *workflowService) IsApproved(ctx context.Context, tenantID string, entity domain.EntityRef) (bool, error) {
	reporter, ok := s.hookFor(entity.Kind()).(portssvc.ApprovalStateReporter)
	if !ok {
		return false, nil
	}
	return reporter.IsApproved(ctx, tenantID, entity)
}

func (s *workflowService) LatestInstanceFor(ctx context.Context, tenantID string, entity domain.EntityRef) (*domain.WorkflowInstance, error) {
	return s.repo.FindLatestInstance(ctx, tenantID, entity)
}

func (s *workflowService) GetInstance(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error) {
	return s.repo.FindInstanceByID(ctx, tenantID, instanceID)
}

func (s *workflowService) ListActions(ctx context.Context, tenantID, instanceID string) ([]domain.WorkflowAction, error) {
	if _, err := s.repo.FindInstanceByID(ctx, tenantID, instanceID); err != nil {
		return nil, err
	}
	actions, err := s.repo.ListActions(ctx, tenantID, instanceID)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		return []domain.WorkflowAction{}, nil
	}
	return actions, nil
}

// Start opens an approval instance for entity at the workflow's first step
// and runs through any leading auto-approve steps.
func (s *workflowService) Start(ctx context.Context, tenantID string, entity domain.EntityRef, actor domain.Actor) (*domain.WorkflowInstance, error) {
	if entity == nil {
		return nil, fmt.Errorf("%w: entity reference is required", apperrors.ErrValidation)
	}
	var inst *domain.WorkflowInstance
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		wf, err := s.repo.FindActiveWorkflow(ctx, tenantID, entity.Kind())
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %s", apperrors.ErrNoWorkflowConfigured, entity.Kind())
			}
			return err
		}

		latest, err := s.repo.FindLatestInstance(ctx, tenantID, entity)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if latest != nil && latest.Status == domain.WorkflowPending {
			return fmt.Errorf("%w: instance %s", apperrors.ErrAlreadyInProgress, latest.InstanceID)
		}

		first, ok := wf.FirstStep()
		if !ok {
			return fmt.Errorf("%w: workflow %s has no steps", apperrors.ErrValidation, wf.WorkflowID)
		}
		now := s.Now()
		inst = &domain.WorkflowInstance{
			InstanceID:  uuid.NewString(),
			TenantID:    tenantID,
			WorkflowID:  wf.WorkflowID,
			Entity:      entity,
			CurrentStep: first.StepOrder,
			Status:      domain.WorkflowPending,
			InitiatedBy: actor.UserID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repo.SaveInstance(ctx, *inst); err != nil {
			return err
		}
		return s.runAutoApprove(ctx, wf, inst)
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoWorkflowConfigured) {
			s.LogError(ctx, err, "Failed to start workflow", slog.String("entity", domain.RefKey(entity)))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Workflow started",
		slog.String("instance_id", inst.InstanceID),
		slog.String("entity", domain.RefKey(entity)),
		slog.String("status", string(inst.Status)))
	return inst, nil
}

// ApproveStep records an approval at stepOrder and advances the instance.
func (s *workflowService) ApproveStep(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor, comment string) (*domain.WorkflowInstance, error) {
	var inst *domain.WorkflowInstance
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var (
			wf  *domain.Workflow
			err error
		)
		inst, wf, err = s.loadForDecision(ctx, tenantID, instanceID, stepOrder, actor)
		if err != nil {
			return err
		}
		if err := s.recordAction(ctx, inst, stepOrder, actor.UserID, domain.ActionApprove, comment); err != nil {
			return err
		}
		if err := s.advance(ctx, wf, inst); err != nil {
			return err
		}
		return s.runAutoApprove(ctx, wf, inst)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Workflow step approved",
		slog.String("instance_id", instanceID),
		slog.Int("step", stepOrder),
		slog.String("status", string(inst.Status)))
	return inst, nil
}

// RejectStep records a rejection and terminates the instance.
func (s *workflowService) RejectStep(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor, comment string) (*domain.WorkflowInstance, error) {
	var inst *domain.WorkflowInstance
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		inst, _, err = s.loadForDecision(ctx, tenantID, instanceID, stepOrder, actor)
		if err != nil {
			return err
		}
		if err := s.recordAction(ctx, inst, stepOrder, actor.UserID, domain.ActionReject, comment); err != nil {
			return err
		}
		return s.reject(ctx, inst)
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Workflow step rejected",
		slog.String("instance_id", instanceID),
		slog.Int("step", stepOrder))
	return inst, nil
}

func (s *workflowService) loadForDecision(ctx context.Context, tenantID, instanceID string, stepOrder int, actor domain.Actor) (*domain.WorkflowInstance, *domain.Workflow, error) {
	inst, err := s.repo.FindInstanceByIDForUpdate(ctx, tenantID, instanceID)
	if err != nil {
		return nil, nil, err
	}
	if inst.Status != domain.WorkflowPending {
		return nil, nil, fmt.Errorf("%w: instance %s is %s", apperrors.ErrNotPending, instanceID, inst.Status)
	}
	if stepOrder != inst.CurrentStep {
		return nil, nil, fmt.Errorf("%w: got step %d, current step is %d", apperrors.ErrStepMismatch, stepOrder, inst.CurrentStep)
	}
	wf, err := s.repo.FindWorkflowByID(ctx, tenantID, inst.WorkflowID)
	if err != nil {
		return nil, nil, err
	}
	step, ok := wf.Step(inst.CurrentStep)
	if !ok {
		return nil, nil, fmt.Errorf("%w: workflow %s has no step %d", apperrors.ErrStepMismatch, wf.WorkflowID, inst.CurrentStep)
	}
	if !actor.CanActOn(step) {
		return nil, nil, fmt.Errorf("%w: step %d", apperrors.ErrUnauthorized, step.StepOrder)
	}
	return inst, wf, nil
}

func (s *workflowService) recordAction(ctx context.Context, inst *domain.WorkflowInstance, stepOrder int, userID string, action domain.ActionType, comment string) error {
	return s.repo.SaveAction(ctx, domain.WorkflowAction{
		ActionID:   uuid.NewString(),
		TenantID:   inst.TenantID,
		InstanceID: inst.InstanceID,
		StepOrder:  stepOrder,
		UserID:     userID,
		Action:     action,
		Comment:    comment,
		CreatedAt:  s.Now(),
	})
}

// advance moves past the current step, completing the instance after the last one.
func (s *workflowService) advance(ctx context.Context, wf *domain.Workflow, inst *domain.WorkflowInstance) error {
	now := s.Now()
	inst.UpdatedAt = now
	if next, ok := wf.NextStep(inst.CurrentStep); ok {
		inst.CurrentStep = next.StepOrder
		return s.repo.UpdateInstance(ctx, *inst)
	}
	inst.Status = domain.WorkflowApproved
	inst.CompletedAt = &now
	if err := s.repo.UpdateInstance(ctx, *inst); err != nil {
		return err
	}
	return s.hookFor(inst.Entity.Kind()).MarkApproved(ctx, inst.TenantID, inst.Entity)
}

// reject terminates the instance and rolls the entity back to draft.
func (s *workflowService) reject(ctx context.Context, inst *domain.WorkflowInstance) error {
	now := s.Now()
	inst.Status = domain.WorkflowRejected
	inst.CompletedAt = &now
	inst.UpdatedAt = now
	if err := s.repo.UpdateInstance(ctx, *inst); err != nil {
		return err
	}
	return s.hookFor(inst.Entity.Kind()).RollbackToDraft(ctx, inst.TenantID, inst.Entity)
}

// runAutoApprove applies each consecutive automatic step's configured action
// as the system actor. An automatic REJECT step ends the instance.
func (s *workflowService) runAutoApprove(ctx context.Context, wf *domain.Workflow, inst *domain.WorkflowInstance) error {
	for inst.Status == domain.WorkflowPending {
		step, ok := wf.Step(inst.CurrentStep)
		if !ok || !step.AutoApprove {
			break
		}
		if step.Action == domain.ActionReject {
			if err := s.recordAction(ctx, inst, step.StepOrder, domain.SystemUserID, domain.ActionReject, "auto-rejected"); err != nil {
				return err
			}
			return s.reject(ctx, inst)
		}
		if err := s.recordAction(ctx, inst, step.StepOrder, domain.SystemUserID, domain.ActionApprove, "auto-approved"); err != nil {
			return err
		}
		if err := s.advance(ctx, wf, inst); err != nil {
			return err
		}
	}
	return nil
}
