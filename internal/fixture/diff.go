package fixture

// Outcome is the semantic diff between two snapshots of the same fixture.
// It is a change detector, not a delta detector: two goals landing between
// polls are reported as a single scoring event for that side.
type Outcome struct {
	StatusChanged bool
	HomeScored    bool
	AwayScored    bool
}

// Unchanged reports whether nothing notable happened since the last poll.
func (o Outcome) Unchanged() bool {
	return !o.StatusChanged && !o.HomeScored && !o.AwayScored
}

// Diff compares the last-known snapshot against a freshly fetched one.
// All comparisons are exact string equality; score totals are never parsed,
// so a transition from a malformed sentinel to a number still counts as a
// scoring event.
func Diff(previous, current Fixture) Outcome {
	return Outcome{
		StatusChanged: previous.Status != current.Status,
		HomeScored:    previous.Score.Home.Total != current.Score.Home.Total,
		AwayScored:    previous.Score.Away.Total != current.Score.Away.Total,
	}
}
