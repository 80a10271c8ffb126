// Package probe polls the application's health endpoint until it answers.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxWait allows for cold starts: suspended services can take well
// over a minute to come back on the first request.
const DefaultMaxWait = 2 * time.Minute

type Prober struct {
	Client  *http.Client
	MaxWait time.Duration
}

func New() *Prober {
	return &Prober{
		Client:  &http.Client{Timeout: 10 * time.Second},
		MaxWait: DefaultMaxWait,
	}
}

// WaitReady polls url with exponential backoff until it returns a 2xx
// status, the context is cancelled, or MaxWait elapses. The returned error
// is the last failure observed.
func (p *Prober) WaitReady(ctx context.Context, url string) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = p.MaxWait

	check := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := p.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("health check %s: status %d", url, resp.StatusCode)
		}
		return nil
	}

	if err := backoff.Retry(check, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("waiting for %s: %w", url, err)
	}
	return nil
}
