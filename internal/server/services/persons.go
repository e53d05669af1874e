// Package services contains server-side business logic. PersonService
// covers registration, login and the person CRUD operations; every call
// is one repository round trip bounded by the configured acquire timeout.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/personapi/internal/common"
	"github.com/dmitrijs2005/personapi/internal/dbx"
	"github.com/dmitrijs2005/personapi/internal/server/auth"
	"github.com/dmitrijs2005/personapi/internal/server/config"
	"github.com/dmitrijs2005/personapi/internal/server/models"
	"github.com/dmitrijs2005/personapi/internal/server/repositories/repomanager"
)

// RegisterInput carries a validated registration payload.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Gender      *string
	Religion    *string
	Nationality *string
}

type PersonService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      *auth.TokenIssuer
	timeout     time.Duration

	// compared against when the email is unknown, so both login
	// failures cost one bcrypt comparison
	dummyDigest string
}

func NewPersonService(db dbx.DBTX, m repomanager.RepositoryManager, cfg *config.Config) *PersonService {
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	dummy, _ := hasher.Hash("personapi-timing-equalizer")

	return &PersonService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      auth.NewTokenIssuer(cfg.SecretKey, cfg.AccessTokenValidityDuration),
		timeout:     cfg.DBAcquireTimeout,
		dummyDigest: dummy,
	}
}

// Tokens exposes the issuer so the transport can verify access tokens.
func (s *PersonService) Tokens() *auth.TokenIssuer {
	return s.tokens
}

func (s *PersonService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *PersonService) List(ctx context.Context, firstName string) ([]*models.Person, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	list, err := s.repomanager.Persons(s.db).List(ctx, firstName)
	if err != nil {
		return nil, internal(err)
	}
	return list, nil
}

// Get returns common.ErrNotFound when no person has the id.
func (s *PersonService) Get(ctx context.Context, id int64) (*models.Person, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repomanager.Persons(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, internal(err)
	}
	return p, nil
}

// Update applies a partial update and reports how many rows changed (0 or
// 1). A supplied password is stored as a fresh digest.
func (s *PersonService) Update(ctx context.Context, id int64, u models.PersonUpdate) (int64, error) {
	if u.Password != nil {
		digest, err := s.hasher.Hash(*u.Password)
		if err != nil {
			return 0, err
		}
		u.Password = &digest
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repomanager.Persons(s.db).Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return 0, common.ErrAlreadyExists
		}
		return 0, internal(err)
	}
	return n, nil
}

func (s *PersonService) Delete(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repomanager.Persons(s.db).DeleteByID(ctx, id)
	if err != nil {
		return 0, internal(err)
	}
	return n, nil
}

func (s *PersonService) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.repomanager.Persons(s.db).DeleteAll(ctx)
	if err != nil {
		return 0, internal(err)
	}
	return n, nil
}

// Register hashes the password and stores the person. The unique email
// index decides duplicates, reported as common.ErrAlreadyExists.
func (s *PersonService) Register(ctx context.Context, in RegisterInput) (*models.Person, error) {
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	person := &models.Person{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Gender:      in.Gender,
		Religion:    in.Religion,
		Nationality: in.Nationality,
		Password:    digest,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repomanager.Persons(s.db).Create(ctx, person)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, internal(err)
	}
	return p, nil
}

// Login checks the credentials and issues an access token. Unknown email
// and wrong password both yield common.ErrUnauthorized.
func (s *PersonService) Login(ctx context.Context, email, password string) (*models.Person, string, error) {
	lookupCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repomanager.Persons(s.db).GetByEmail(lookupCtx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", internal(err)
	}

	if !s.hasher.Verify(password, p.Password) {
		return nil, "", common.ErrUnauthorized
	}

	token, err := s.tokens.Issue(auth.Identity{PersonID: p.ID, Email: p.Email})
	if err != nil {
		return nil, "", internal(err)
	}

	return p, token, nil
}

func internal(err error) error {
	return fmt.Errorf("%w: %v", common.ErrInternal, err)
}
