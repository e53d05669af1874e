// Package emailcheck decides whether an address is worth registering.
// Verifiers are selected by config: DNS (MX) lookup, an external HTTP
// verification API, or none.
package emailcheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/personapi/internal/server/config"
)

var ErrUnverified = errors.New("email address could not be verified")

type Verifier interface {
	Verify(ctx context.Context, email string) error
}

// NopVerifier accepts every address.
type NopVerifier struct{}

func (NopVerifier) Verify(context.Context, string) error { return nil }

// New returns the verifier selected by cfg.EmailCheckMode.
func New(cfg *config.Config) (Verifier, error) {
	switch cfg.EmailCheckMode {
	case config.EmailCheckMX, "":
		return NewMXVerifier(nil), nil
	case config.EmailCheckHTTP:
		if cfg.EmailCheckURL == "" {
			return nil, errors.New("email check url is required in http mode")
		}
		return NewHTTPVerifier(cfg.EmailCheckURL, defaultHTTPTimeout), nil
	case config.EmailCheckNone:
		return NopVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown email check mode %q", cfg.EmailCheckMode)
	}
}

func domainOf(email string) (string, error) {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", fmt.Errorf("%w: malformed address", ErrUnverified)
	}
	return strings.ToLower(email[at+1:]), nil
}
