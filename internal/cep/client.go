package cep

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/pkg/brasilapi"
	"github.com/ptbr-tools/sampler-cli/pkg/viacep"
)

// Lookuper resolves a single 8-digit postal code into an Outcome.
// Implementations never return a Go error for per-item problems; every
// failure mode is folded into the outcome so callers need no broad
// error handling around individual lookups.
type Lookuper interface {
	Lookup(ctx context.Context, code string) Outcome
}

// Client queries ViaCEP first and falls back to BrasilAPI when ViaCEP
// has no entry or is unavailable, mirroring the multi-provider behavior
// of the cep-promise directory stack. No caching: repeated calls with
// the same code re-query.
type Client struct {
	primary  viacep.Client
	fallback brasilapi.Client
	timeout  time.Duration
}

// ClientOption configures the lookup client.
type ClientOption func(*Client)

// WithTimeout sets the per-lookup deadline (default 10s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithFallback sets the secondary directory client. Pass nil to
// disable the waterfall.
func WithFallback(fb brasilapi.Client) ClientOption {
	return func(c *Client) {
		c.fallback = fb
	}
}

// NewClient creates a lookup client over the given primary directory.
func NewClient(primary viacep.Client, opts ...ClientOption) *Client {
	c := &Client{
		primary:  primary,
		fallback: brasilapi.NewClient(),
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup issues one lookup for code, which must already be in the
// dash-stripped 8-digit form the directory services expect.
func (c *Client) Lookup(ctx context.Context, code string) Outcome {
	if !IsEightDigits(code) {
		return failure(code, FailureMalformed, "cep is not 8 digits")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr, err := c.primary.Lookup(ctx, code)
	if err == nil {
		return Outcome{Code: code, Live: &Live{
			CEP:          addr.CEP,
			State:        addr.State,
			City:         addr.City,
			Neighborhood: addr.Neighborhood,
			Street:       addr.Street,
			Service:      "viacep",
		}}
	}

	if kind := classify(ctx, err); kind == FailureTimeout {
		return failure(code, FailureTimeout, eris.ToString(err, false))
	}

	if c.fallback == nil {
		return failure(code, classify(ctx, err), eris.ToString(err, false))
	}

	zap.L().Debug("cep: primary lookup failed, trying fallback",
		zap.String("cep", code),
		zap.Error(err),
	)

	fb, fbErr := c.fallback.Lookup(ctx, code)
	if fbErr != nil {
		// Report the primary's classification unless the fallback
		// found a harder failure.
		if classify(ctx, fbErr) == FailureTimeout {
			return failure(code, FailureTimeout, eris.ToString(fbErr, false))
		}
		return failure(code, classify(ctx, err), eris.ToString(err, false))
	}

	return Outcome{Code: code, Live: &Live{
		CEP:          fb.CEP,
		State:        fb.State,
		City:         fb.City,
		Neighborhood: fb.Neighborhood,
		Street:       fb.Street,
		Service:      fb.Service,
	}}
}

// classify maps a transport error onto a FailureKind.
func classify(ctx context.Context, err error) FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil:
		return FailureTimeout
	case errors.Is(err, viacep.ErrNotFound) || errors.Is(err, brasilapi.ErrNotFound):
		return FailureNotFound
	default:
		return FailureService
	}
}

// IsEightDigits reports whether s is exactly 8 ASCII digits.
func IsEightDigits(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
