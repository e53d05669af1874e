package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/personapi/internal/dbx"
	"github.com/dmitrijs2005/personapi/internal/server/repositories/persons"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Persons(db dbx.DBTX) persons.Repository
}
