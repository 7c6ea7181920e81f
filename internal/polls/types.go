// Package polls models the betting-pool side of the app: polls, guesses and
// per-user success statistics settled when a tracked game finishes.
package polls

import "time"

type Modality string

const (
	ModalityPrivate Modality = "private"
	ModalityPublic  Modality = "public"
)

type Poll struct {
	ID        string
	GameCode  string
	Author    string
	Code      string
	Modality  Modality
	CreatedAt time.Time
	UpdatedAt time.Time

	Guesses []Guess
}

type Guess struct {
	ID            string
	PollID        string
	GameCode      string
	Author        string
	HomeTeamScore int
	AwayTeamScore int
	CreatedAt     time.Time
}

// UserStats aggregates a user's record across finished public polls.
type UserStats struct {
	UserID          string
	TotalSubmitted  int
	TotalFinished   int
	TotalSuccessful int
	SuccessRate     float64
	CurrentStreak   int
	BestStreak      int
	AvgScoreDiff    float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
