package persons

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/dmitrijs2005/personapi/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*PostgresRepository)(nil)

func seed(t *testing.T, r *MemoryRepository, first, email string) *models.Person {
	t.Helper()
	p, err := r.Create(context.Background(), &models.Person{
		FirstName: first, LastName: "Test", Email: email, Password: "$2a$digest",
	})
	require.NoError(t, err)
	return p
}

func TestMemoryRepository_CreateAssignsIDs(t *testing.T) {
	r := NewMemoryRepository()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	a := seed(t, r, "Anna", "anna@example.com")
	b := seed(t, r, "Bob", "bob@example.com")

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, fixed, a.CreatedAt)
	assert.Equal(t, fixed, a.UpdatedAt)
}

func TestMemoryRepository_ListFilter(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "Anna", "anna@example.com")
	seed(t, r, "Bob", "bob@example.com")
	seed(t, r, "Joanne", "jo@example.com")

	all, err := r.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := r.List(context.Background(), "an")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Anna", got[0].FirstName)
	assert.Equal(t, "Joanne", got[1].FirstName)

	none, err := r.List(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	r := NewMemoryRepository()
	p := seed(t, r, "Anna", "anna@example.com")

	got, err := r.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	got.FirstName = "Changed"

	again, err := r.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", again.FirstName)
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	r := NewMemoryRepository()

	_, err := r.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryRepository_GetByEmailIgnoresCase(t *testing.T) {
	r := NewMemoryRepository()
	p := seed(t, r, "Anna", "anna@example.com")

	got, err := r.GetByEmail(context.Background(), "ANNA@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestMemoryRepository_DuplicateEmail(t *testing.T) {
	r := NewMemoryRepository()
	seed(t, r, "Anna", "anna@example.com")

	_, err := r.Create(context.Background(), &models.Person{FirstName: "A", LastName: "B", Email: "Anna@Example.com"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestMemoryRepository_ConcurrentRegistration(t *testing.T) {
	r := NewMemoryRepository()

	const n = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dups    int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := r.Create(context.Background(), &models.Person{
				FirstName: fmt.Sprintf("P%d", i), LastName: "X", Email: "same@example.com",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, common.ErrAlreadyExists):
				dups++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, dups)
}

func TestMemoryRepository_Update(t *testing.T) {
	r := NewMemoryRepository()
	p := seed(t, r, "Anna", "anna@example.com")
	other := seed(t, r, "Bob", "bob@example.com")

	later := p.UpdatedAt.Add(time.Hour)
	r.now = func() time.Time { return later }

	gender := "F"
	n, err := r.Update(context.Background(), p.ID, models.PersonUpdate{Gender: &gender})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Gender)
	assert.Equal(t, "F", *got.Gender)
	assert.Equal(t, "Anna", got.FirstName)
	assert.Equal(t, later, got.UpdatedAt)

	// keeping the own address is not a conflict
	own := "ANNA@example.com"
	n, err = r.Update(context.Background(), p.ID, models.PersonUpdate{Email: &own})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	taken := other.Email
	_, err = r.Update(context.Background(), p.ID, models.PersonUpdate{Email: &taken})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestMemoryRepository_UpdateNoop(t *testing.T) {
	r := NewMemoryRepository()
	p := seed(t, r, "Anna", "anna@example.com")

	n, err := r.Update(context.Background(), p.ID, models.PersonUpdate{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	name := "X"
	n, err = r.Update(context.Background(), 999, models.PersonUpdate{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestMemoryRepository_Delete(t *testing.T) {
	r := NewMemoryRepository()
	p := seed(t, r, "Anna", "anna@example.com")
	seed(t, r, "Bob", "bob@example.com")
	seed(t, r, "Carl", "carl@example.com")

	n, err := r.DeleteByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = r.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = r.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
