package wikidata

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/Gobusters/ectologger"

	apperrors "github.com/pntechnology/Helianthus/pkg/errors"
	"github.com/pntechnology/Helianthus/pkg/httpclient"
	"github.com/pntechnology/Helianthus/pkg/tracing"
)

// Config holds the SPARQL endpoint settings.
type Config struct {
	Endpoint     string
	UserAgent    string
	QueryTimeout time.Duration
	AskTimeout   time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Client reads from a SPARQL endpoint. Timeouts are retried with a fixed
// backoff up to MaxAttempts; any other failure is definitive and surfaces
// immediately.
type Client struct {
	http   *httpclient.Client
	config Config
	logger ectologger.Logger
}

func NewClient(config Config, http *httpclient.Client, logger ectologger.Logger) *Client {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	return &Client{
		http:   http,
		config: config,
		logger: logger,
	}
}

// Term is a single RDF term in a result row.
type Term struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Binding is one result row, keyed by projection variable.
type Binding map[string]Term

// Get returns the value bound to the variable, or nil when the variable is
// absent from the row.
func (b Binding) Get(name string) *string {
	term, ok := b[name]
	if !ok {
		return nil
	}
	return &term.Value
}

type resultsEnvelope struct {
	Results *struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

// Select runs a SELECT query and returns its result rows.
func (c *Client) Select(ctx context.Context, query string) ([]Binding, error) {
	ctx, span := tracing.StartSpan(ctx, "wikidata.Select")
	defer span.End()

	envelope, err := c.query(ctx, query, c.config.QueryTimeout)
	if err != nil {
		return nil, err
	}

	if envelope.Results == nil {
		return nil, apperrors.NewSourceError(0, "response has no results section").AddEndpoint(c.config.Endpoint)
	}
	return envelope.Results.Bindings, nil
}

// Ask runs an ASK query and returns its boolean result.
func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "wikidata.Ask")
	defer span.End()

	envelope, err := c.query(ctx, query, c.config.AskTimeout)
	if err != nil {
		return false, err
	}

	if envelope.Boolean == nil {
		return false, apperrors.NewSourceError(0, "response has no boolean section").AddEndpoint(c.config.Endpoint)
	}
	return *envelope.Boolean, nil
}

func (c *Client) query(ctx context.Context, query string, timeout time.Duration) (*resultsEnvelope, error) {
	requestURL := c.config.Endpoint + "?query=" + url.QueryEscape(query)
	headers := map[string]string{
		"Accept":     "application/sparql-results+json",
		"User-Agent": c.config.UserAgent,
	}

	var resp *httpclient.Response
	for attempt := 1; ; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		var err error
		resp, err = c.http.Get(attemptCtx, requestURL, headers)
		cancel()
		if err == nil {
			break
		}

		if !httpclient.IsTimeout(err) {
			return nil, apperrors.NewSourceErrorf(0, "request failed: %v", err).AddEndpoint(c.config.Endpoint)
		}

		if attempt >= c.config.MaxAttempts {
			return nil, apperrors.NewSourceUnavailableError(attempt, "query timed out").AddEndpoint(c.config.Endpoint)
		}

		c.logger.WithContext(ctx).Warnf("Query timed out, retrying in %s (attempt %d of %d)",
			c.config.RetryBackoff, attempt, c.config.MaxAttempts)
		select {
		case <-time.After(c.config.RetryBackoff):
		case <-ctx.Done():
			return nil, apperrors.NewSourceUnavailableError(attempt, "query timed out").AddEndpoint(c.config.Endpoint)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewSourceErrorf(resp.StatusCode, "unexpected status").AddEndpoint(c.config.Endpoint)
	}

	var envelope resultsEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, apperrors.NewSourceErrorf(0, "failed to decode response: %v", err).AddEndpoint(c.config.Endpoint)
	}

	return &envelope, nil
}
