// Package mock provides test doubles for scribe interfaces using function fields.
package mock

import (
	"context"

	"github.com/fwojciec/scribe"
)

// Interface compliance check.
var _ scribe.Provider = (*Provider)(nil)

// Provider is a test double for scribe.Provider.
// Set GenerateFn before calling Generate.
type Provider struct {
	GenerateFn func(ctx context.Context, req scribe.Request) (scribe.Response, error)
}

// Generate delegates to GenerateFn.
func (p *Provider) Generate(ctx context.Context, req scribe.Request) (scribe.Response, error) {
	return p.GenerateFn(ctx, req)
}

// Reply returns a Provider that always answers with reply and text.
func Reply(reply scribe.Reply, text string) *Provider {
	return &Provider{
		GenerateFn: func(context.Context, scribe.Request) (scribe.Response, error) {
			return scribe.Response{Reply: reply, Text: text, StopReason: scribe.StopEndTurn}, nil
		},
	}
}
