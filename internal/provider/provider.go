// Package provider defines the contract for remote fixture sources.
package provider

import (
	"context"
	"time"

	"porrapp/internal/fixture"
)

// Provider fetches the fixtures scheduled on or near the given date.
//
// A day with no fixtures yields (nil, nil): emptiness is a legitimate
// answer, distinct from network or parse failures.
type Provider interface {
	FetchByDate(ctx context.Context, date time.Time) ([]fixture.Fixture, error)
}
