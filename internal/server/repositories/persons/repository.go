// Package persons stores Person records. Every method is a single
// statement against the backing store; nothing is retried.
package persons

import (
	"context"

	"github.com/dmitrijs2005/personapi/internal/server/models"
)

type Repository interface {
	// List returns every person whose first name contains firstName,
	// ignoring case. An empty filter returns all rows. Order is whatever
	// the store yields.
	List(ctx context.Context, firstName string) ([]*models.Person, error)
	GetByID(ctx context.Context, id int64) (*models.Person, error)
	GetByEmail(ctx context.Context, email string) (*models.Person, error)
	Create(ctx context.Context, person *models.Person) (*models.Person, error)
	// Update, DeleteByID and DeleteAll return the number of affected rows.
	Update(ctx context.Context, id int64, update models.PersonUpdate) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
