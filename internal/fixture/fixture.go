// Package fixture holds the match domain model shared by the scheduler core
// and its adapters.
package fixture

import (
	"strconv"
	"strings"
	"time"
)

// Canonical lifecycle statuses. The provider may report other values
// (suspensions, postponements); those pass through unchanged.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusFinished   = "Finished"
)

// Fixture is one scheduled match, uniquely identified by a stable code.
// Code never changes after creation.
type Fixture struct {
	Code     string    `json:"code"`
	Date     time.Time `json:"date"`
	Status   string    `json:"status"`
	HomeTeam Team      `json:"home_team"`
	AwayTeam Team      `json:"away_team"`
	Score    Score     `json:"score"`
}

// Team is an opaque team descriptor; FullName is the only field the core
// relies on (error context, printed lines).
type Team struct {
	FullName   string `json:"full_name"`
	AbbName    string `json:"abb_name,omitempty"`
	CommonName string `json:"common_name,omitempty"`
	Country    string `json:"country,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

type Score struct {
	Home TeamScore `json:"home"`
	Away TeamScore `json:"away"`
}

// TeamScore totals are string-encoded by the provider and must be compared
// as opaque strings, never parsed, except for display.
type TeamScore struct {
	Total string `json:"total"`
	Sub   string `json:"sub,omitempty"`
}

// DisplayTotal returns a best-effort numeric total for presentation.
// Malformed totals render as 0; they still diff correctly as strings.
func (ts TeamScore) DisplayTotal() int {
	n, err := strconv.Atoi(strings.TrimSpace(ts.Total))
	if err != nil {
		return 0
	}
	return n
}

// Title is the human identity of a fixture, used in logs and alerts.
func (f Fixture) Title() string {
	return f.HomeTeam.FullName + " vs " + f.AwayTeam.FullName
}

// Finished reports whether the fixture reached its terminal status.
func (f Fixture) Finished() bool { return f.Status == StatusFinished }

// NormalizeStatus maps known provider spellings onto the canonical set.
// Unknown values are returned as-is.
func NormalizeStatus(raw string) string {
	switch strings.TrimSpace(raw) {
	case "Pendiente", "Scheduled", StatusPending:
		return StatusPending
	case "En juego", "In Progress", StatusInProgress:
		return StatusInProgress
	case "Finalizado", "Full Time", StatusFinished:
		return StatusFinished
	default:
		return raw
	}
}
