package persons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/dmitrijs2005/personapi/internal/dbx"
	"github.com/dmitrijs2005/personapi/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const selectPersons = `SELECT id, first_name, last_name, email, gender, religion, nationality, password, created_at, updated_at
		 FROM persons`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, firstName string) ([]*models.Person, error) {
	query := selectPersons
	var args []any
	if firstName != "" {
		query += `
		 WHERE first_name ILIKE '%' || $1 || '%'`
		args = append(args, escapeLike(firstName))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	query := selectPersons + `
		 WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Person, error) {
	query := selectPersons + `
		 WHERE lower(email) = lower($1)`

	return r.getOne(ctx, query, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Person, error) {
	p, err := scanPerson(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, person *models.Person) (*models.Person, error) {
	query :=
		`INSERT INTO persons (first_name, last_name, email, gender, religion, nationality, password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		person.FirstName, person.LastName, person.Email,
		person.Gender, person.Religion, person.Nationality, person.Password,
	).Scan(&person.ID, &person.CreatedAt, &person.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return person, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, update models.PersonUpdate) (int64, error) {
	if update.IsEmpty() {
		return 0, nil
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	add("first_name", update.FirstName)
	add("last_name", update.LastName)
	add("email", update.Email)
	add("gender", update.Gender)
	add("religion", update.Religion)
	add("nationality", update.Nationality)
	add("password", update.Password)

	args = append(args, id)
	query := `UPDATE persons SET ` + strings.Join(sets, ", ") + `, updated_at = now()
		 WHERE id = $` + strconv.Itoa(len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, common.ErrAlreadyExists
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return rowsAffected(res)
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM persons`)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(s scanner) (*models.Person, error) {
	p := &models.Person{}
	err := s.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email,
		&p.Gender, &p.Religion, &p.Nationality, &p.Password,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// escapeLike makes s match literally inside a LIKE pattern that uses the
// default backslash escape.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
