// Package viacep provides a client for the ViaCEP postal directory API.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// ErrNotFound is returned when the directory has no entry for the CEP.
var ErrNotFound = errors.New("viacep: cep not found")

// Client defines the ViaCEP lookup operation.
type Client interface {
	// Lookup fetches the address registered for an 8-digit CEP.
	Lookup(ctx context.Context, cep string) (*Address, error)
}

// Address is the parsed ViaCEP response. Fields the directory has no
// data for come back as empty strings.
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"logradouro"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	// Erro is set by ViaCEP when the CEP does not exist. The API has
	// returned it both as a bool and as the string "true".
	Erro json.RawMessage `json:"erro,omitempty"`
}

// notFound reports whether the response carries the ViaCEP error marker.
func (a *Address) notFound() bool {
	s := string(a.Erro)
	return s == "true" || s == `"true"`
}

// Option configures the ViaCEP client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a ViaCEP client. ViaCEP is a free public service;
// the default limiter keeps batch runs polite.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://viacep.com.br/ws",
		limiter: rate.NewLimiter(10, 10),
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Lookup(ctx context.Context, cep string) (*Address, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "viacep: rate limiter wait")
	}

	url := fmt.Sprintf("%s/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "viacep: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "viacep: do request")
	}
	defer resp.Body.Close() //nolint:errcheck

	// ViaCEP answers 400 for syntactically invalid CEPs.
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("viacep: status %d: %s", resp.StatusCode, string(body))
	}

	var addr Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return nil, eris.Wrap(err, "viacep: decode response")
	}

	if addr.notFound() {
		return nil, ErrNotFound
	}

	return &addr, nil
}
