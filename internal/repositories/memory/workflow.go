package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func copyWorkflow(w domain.Workflow) domain.Workflow {
	w.Steps = append([]domain.WorkflowStep(nil), w.Steps...)
	return w
}

func (s *Store) FindWorkflowByID(_ context.Context, tenantID, workflowID string) (*domain.Workflow, error) {
	var out *domain.Workflow
	err := s.read(func(st *state) error {
		w, ok := st.workflows[workflowID]
		if !ok || w.TenantID != tenantID {
			return fmt.Errorf("%w: workflow %s", apperrors.ErrNotFound, workflowID)
		}
		c := copyWorkflow(w)
		out = &c
		return nil
	})
	return out, err
}

func (s *Store) FindActiveWorkflow(_ context.Context, tenantID string, kind domain.EntityKind) (*domain.Workflow, error) {
	var out *domain.Workflow
	err := s.read(func(st *state) error {
		for _, w := range st.workflows {
			if w.TenantID == tenantID && w.EntityKind == kind && w.IsActive {
				c := copyWorkflow(w)
				out = &c
				return nil
			}
		}
		return fmt.Errorf("%w: no active workflow for %s", apperrors.ErrNotFound, kind)
	})
	return out, err
}

func (s *Store) FindInstanceByID(_ context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error) {
	var out *domain.WorkflowInstance
	err := s.read(func(st *state) error {
		inst, ok := st.instances[instanceID]
		if !ok || inst.TenantID != tenantID {
			return fmt.Errorf("%w: workflow instance %s", apperrors.ErrNotFound, instanceID)
		}
		out = &inst
		return nil
	})
	return out, err
}

// FindInstanceByIDForUpdate relies on units of work being serialized by txMu.
func (s *Store) FindInstanceByIDForUpdate(ctx context.Context, tenantID, instanceID string) (*domain.WorkflowInstance, error) {
	return s.FindInstanceByID(ctx, tenantID, instanceID)
}

func (s *Store) FindLatestInstance(_ context.Context, tenantID string, entity domain.EntityRef) (*domain.WorkflowInstance, error) {
	var out *domain.WorkflowInstance
	err := s.read(func(st *state) error {
		var best int64
		for id, inst := range st.instances {
			if inst.TenantID != tenantID || !domain.SameRef(inst.Entity, entity) {
				continue
			}
			if seq := st.instanceSeq[id]; out == nil || seq > best {
				c := inst
				out, best = &c, seq
			}
		}
		if out == nil {
			return fmt.Errorf("%w: no workflow instance for %s", apperrors.ErrNotFound, domain.RefKey(entity))
		}
		return nil
	})
	return out, err
}

func (s *Store) ListActions(_ context.Context, tenantID, instanceID string) ([]domain.WorkflowAction, error) {
	var out []domain.WorkflowAction
	_ = s.read(func(st *state) error {
		for _, a := range st.actions {
			if a.TenantID == tenantID && a.InstanceID == instanceID {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SaveWorkflow(ctx context.Context, wf domain.Workflow) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.workflows[wf.WorkflowID]; ok {
			return fmt.Errorf("%w: workflow %s already exists", apperrors.ErrDuplicate, wf.WorkflowID)
		}
		if wf.IsActive {
			for id, other := range st.workflows {
				if other.TenantID == wf.TenantID && other.EntityKind == wf.EntityKind && other.IsActive {
					other.IsActive = false
					st.workflows[id] = other
				}
			}
		}
		st.workflows[wf.WorkflowID] = copyWorkflow(wf)
		return nil
	})
}

func (s *Store) SaveInstance(ctx context.Context, inst domain.WorkflowInstance) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.instances[inst.InstanceID]; ok {
			return fmt.Errorf("%w: workflow instance %s already exists", apperrors.ErrDuplicate, inst.InstanceID)
		}
		st.instances[inst.InstanceID] = inst
		st.instanceSeq[inst.InstanceID] = st.nextSeq()
		return nil
	})
}

func (s *Store) UpdateInstance(ctx context.Context, inst domain.WorkflowInstance) error {
	return s.write(ctx, func(st *state) error {
		existing, ok := st.instances[inst.InstanceID]
		if !ok || existing.TenantID != inst.TenantID {
			return fmt.Errorf("%w: workflow instance %s", apperrors.ErrNotFound, inst.InstanceID)
		}
		st.instances[inst.InstanceID] = inst
		return nil
	})
}

func (s *Store) SaveAction(ctx context.Context, action domain.WorkflowAction) error {
	return s.write(ctx, func(st *state) error {
		st.actions = append(st.actions, action)
		return nil
	})
}
