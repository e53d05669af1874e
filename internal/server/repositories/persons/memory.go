package persons

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/dmitrijs2005/personapi/internal/server/models"
)

// MemoryRepository keeps persons in process memory. It follows the same
// contract as PostgresRepository, including case-insensitive email
// uniqueness, and is safe for concurrent use.
type MemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Person
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[int64]*models.Person), now: time.Now}
}

func (r *MemoryRepository) List(_ context.Context, firstName string) ([]*models.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(firstName)
	result := make([]*models.Person, 0, len(r.rows))
	for _, p := range r.rows {
		if needle == "" || strings.Contains(strings.ToLower(p.FirstName), needle) {
			result = append(result, clonePerson(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*models.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return clonePerson(p), nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*models.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p := r.findEmail(email, 0); p != nil {
		return clonePerson(p), nil
	}
	return nil, common.ErrNotFound
}

func (r *MemoryRepository) Create(_ context.Context, person *models.Person) (*models.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findEmail(person.Email, 0) != nil {
		return nil, common.ErrAlreadyExists
	}

	r.nextID++
	now := r.now()
	person.ID = r.nextID
	person.CreatedAt = now
	person.UpdatedAt = now
	r.rows[person.ID] = clonePerson(person)

	return person, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, u models.PersonUpdate) (int64, error) {
	if u.IsEmpty() {
		return 0, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	if u.Email != nil && r.findEmail(*u.Email, id) != nil {
		return 0, common.ErrAlreadyExists
	}

	setString(&p.FirstName, u.FirstName)
	setString(&p.LastName, u.LastName)
	setString(&p.Email, u.Email)
	setOptional(&p.Gender, u.Gender)
	setOptional(&p.Religion, u.Religion)
	setOptional(&p.Nationality, u.Nationality)
	setString(&p.Password, u.Password)
	p.UpdatedAt = r.now()

	return 1, nil
}

func (r *MemoryRepository) DeleteByID(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

func (r *MemoryRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.rows))
	r.rows = make(map[int64]*models.Person)
	return n, nil
}

// findEmail must be called with mu held. skipID excludes one row, so an
// update may keep its own address.
func (r *MemoryRepository) findEmail(email string, skipID int64) *models.Person {
	for id, p := range r.rows {
		if id != skipID && strings.EqualFold(p.Email, email) {
			return p
		}
	}
	return nil
}

func clonePerson(p *models.Person) *models.Person {
	c := *p
	c.Gender = cloneString(p.Gender)
	c.Religion = cloneString(p.Religion)
	c.Nationality = cloneString(p.Nationality)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setOptional(dst **string, v *string) {
	if v != nil {
		*dst = cloneString(v)
	}
}
