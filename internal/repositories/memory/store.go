// Package memory is an in-process implementation of every repository port.
// It backs the service tests and local development without Postgres.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type txMarker struct{}

// Store keeps all tenants' data in maps guarded by mu. Units of work are
// serialized by txMu and rolled back by restoring a snapshot taken on entry.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

type state struct {
	accounts      map[string]domain.Account
	tenantConfigs map[string]domain.TenantAccountConfig
	years         map[string]domain.FiscalYear
	periods       map[string]domain.FiscalPeriod
	entries       map[string]domain.JournalEntry
	workflows     map[string]domain.Workflow
	instances     map[string]domain.WorkflowInstance
	instanceSeq   map[string]int64
	actions       []domain.WorkflowAction
	assets        map[string]domain.FixedAsset
	depreciations map[string]domain.AssetDepreciation
	seq           int64
}

func newState() *state {
	return &state{
		accounts:      make(map[string]domain.Account),
		tenantConfigs: make(map[string]domain.TenantAccountConfig),
		years:         make(map[string]domain.FiscalYear),
		periods:       make(map[string]domain.FiscalPeriod),
		entries:       make(map[string]domain.JournalEntry),
		workflows:     make(map[string]domain.Workflow),
		instances:     make(map[string]domain.WorkflowInstance),
		instanceSeq:   make(map[string]int64),
		assets:        make(map[string]domain.FixedAsset),
		depreciations: make(map[string]domain.AssetDepreciation),
	}
}

// clone copies the state deeply enough that later writes to the original
// never show through. Values holding slices are copied element-wise.
func (s *state) clone() *state {
	c := &state{
		accounts:      maps.Clone(s.accounts),
		tenantConfigs: maps.Clone(s.tenantConfigs),
		years:         maps.Clone(s.years),
		periods:       maps.Clone(s.periods),
		entries:       make(map[string]domain.JournalEntry, len(s.entries)),
		workflows:     make(map[string]domain.Workflow, len(s.workflows)),
		instances:     maps.Clone(s.instances),
		instanceSeq:   maps.Clone(s.instanceSeq),
		actions:       append([]domain.WorkflowAction(nil), s.actions...),
		assets:        maps.Clone(s.assets),
		depreciations: maps.Clone(s.depreciations),
		seq:           s.seq,
	}
	for id, e := range s.entries {
		c.entries[id] = copyEntry(e)
	}
	for id, w := range s.workflows {
		c.workflows[id] = copyWorkflow(w)
	}
	return c
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

// RunInTx implements portsrepo.TransactionManager.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}

// write applies fn under the write lock. Outside a unit of work it also takes
// txMu so a concurrent rollback cannot discard the change.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *state) nextSeq() int64 {
	s.seq++
	return s.seq
}

// Repositories returns a provider whose every port is served by this store.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     s,
		AccountRepo:   s,
		FiscalRepo:    s,
		JournalRepo:   s,
		ReportingRepo: s,
		WorkflowRepo:  s,
		AssetRepo:     s,
	}
}

var (
	_ portsrepo.TransactionManager       = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade  = (*Store)(nil)
	_ portsrepo.FiscalRepositoryFacade   = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ReportingRepository      = (*Store)(nil)
	_ portsrepo.WorkflowRepositoryFacade = (*Store)(nil)
	_ portsrepo.AssetRepositoryFacade    = (*Store)(nil)
)
