package emailcheck

import (
	"context"
	"fmt"
	"net"
)

// Resolver is the subset of *net.Resolver used for lookups.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// MXVerifier accepts an address when its domain can receive mail: it has
// MX records, or failing that an A/AAAA record (implicit MX).
type MXVerifier struct {
	resolver Resolver
}

// NewMXVerifier uses net.DefaultResolver when r is nil.
func NewMXVerifier(r Resolver) *MXVerifier {
	if r == nil {
		r = net.DefaultResolver
	}
	return &MXVerifier{resolver: r}
}

func (v *MXVerifier) Verify(ctx context.Context, email string) error {
	domain, err := domainOf(email)
	if err != nil {
		return err
	}

	mx, err := v.resolver.LookupMX(ctx, domain)
	if err == nil && len(mx) > 0 {
		// RFC 7505 null MX: the domain explicitly accepts no mail
		if len(mx) == 1 && (mx[0].Host == "." || mx[0].Host == "") {
			return fmt.Errorf("%w: %s accepts no mail", ErrUnverified, domain)
		}
		return nil
	}

	hosts, herr := v.resolver.LookupHost(ctx, domain)
	if herr != nil || len(hosts) == 0 {
		return fmt.Errorf("%w: no mail host for %s", ErrUnverified, domain)
	}
	return nil
}
