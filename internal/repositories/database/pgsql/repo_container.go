package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every repository port to Postgres.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:     newPgxTxManager(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		FiscalRepo:    newPgxFiscalRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
		WorkflowRepo:  newPgxWorkflowRepository(dbPool),
		AssetRepo:     newPgxAssetRepository(dbPool),
	}
}
