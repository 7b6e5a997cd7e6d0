// Package languagetool implements [scribe.Corrector] on top of the
// LanguageTool /v2/check HTTP API.
package languagetool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/rs/zerolog"
)

// DefaultURL is the public LanguageTool check endpoint.
const DefaultURL = "https://api.languagetool.org/v2/check"

const (
	defaultLanguage = "en"
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 512
)

// Interface compliance check.
var _ scribe.Corrector = (*Client)(nil)

// Client calls the LanguageTool service. It performs no retries.
type Client struct {
	url        string
	language   string
	policy     Policy
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithURL sets the check endpoint. Default is [DefaultURL].
func WithURL(u string) Option {
	return func(c *Client) { c.url = u }
}

// WithLanguage sets the language tag sent with every request. Default is "en".
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithPolicy sets how corrections are applied. Default is [PolicySubstring].
func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a LanguageTool [Client].
func New(opts ...Option) *Client {
	c := &Client{
		url:        DefaultURL,
		language:   defaultLanguage,
		policy:     PolicySubstring,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Match is one correction record returned by the service.
type Match struct {
	Message      string        `json:"message"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Context      Context       `json:"context"`
	Replacements []Replacement `json:"replacements"`
}

// Context is the excerpt of the checked text surrounding a match.
type Context struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// Replacement is one suggested fix, ranked by position in Match.Replacements.
type Replacement struct {
	Value string `json:"value"`
}

type checkResponse struct {
	Matches []Match `json:"matches"`
}

// Check submits text to the service and returns its matches in service order.
func (c *Client) Check(ctx context.Context, text string) ([]Match, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("languagetool: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("languagetool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("languagetool: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("languagetool: decode response: %w", err)
	}
	c.log.Debug().
		Int("matches", len(out.Matches)).
		Dur("duration", time.Since(start)).
		Msg("grammar check")
	return out.Matches, nil
}

// Correct checks text and applies the top replacement of every match using
// the client's policy. With no matches the text is returned unchanged.
func (c *Client) Correct(ctx context.Context, text string) (string, error) {
	matches, err := c.Check(ctx, text)
	if err != nil {
		return "", err
	}
	return Apply(text, matches, c.policy), nil
}
