package emailcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultHTTPTimeout = 5 * time.Second

type verifyResponse struct {
	Deliverable bool `json:"deliverable"`
}

// HTTPVerifier asks an external API: GET {url}?email=<address>, answered
// with {"deliverable": true|false}.
type HTTPVerifier struct {
	url        string
	httpClient *resty.Client
}

func NewHTTPVerifier(url string, timeout time.Duration) *HTTPVerifier {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &HTTPVerifier{url: url, httpClient: client}
}

func (v *HTTPVerifier) Verify(ctx context.Context, email string) error {
	if _, err := domainOf(email); err != nil {
		return err
	}

	var result verifyResponse
	resp, err := v.httpClient.R().
		SetContext(ctx).
		SetQueryParam("email", email).
		SetResult(&result).
		Get(v.url)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnverified, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: verification api status %d", ErrUnverified, resp.StatusCode())
	}
	if !result.Deliverable {
		return fmt.Errorf("%w: not deliverable", ErrUnverified)
	}

	return nil
}
