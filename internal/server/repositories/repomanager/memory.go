package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/personapi/internal/dbx"
	"github.com/dmitrijs2005/personapi/internal/server/repositories/persons"
)

// MemoryRepositoryManager hands out a single process-local repository,
// whatever handle it is given. Used by tests and local runs without a
// database.
type MemoryRepositoryManager struct {
	persons *persons.MemoryRepository
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *MemoryRepositoryManager) Persons(dbx.DBTX) persons.Repository {
	return m.persons
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{persons: persons.NewMemoryRepository()}
}
