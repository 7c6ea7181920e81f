package unidadeditorial

import (
	"time"

	"porrapp/internal/fixture"
)

func mapMatch(m matchData) fixture.Fixture {
	return fixture.Fixture{
		Code:     m.ID,
		Date:     parseStartDate(m.StartDate),
		Status:   fixture.NormalizeStatus(statusName(m.SportEvent.Status)),
		HomeTeam: mapTeam(m.SportEvent.Competitors.HomeTeam),
		AwayTeam: mapTeam(m.SportEvent.Competitors.AwayTeam),
		Score: fixture.Score{
			Home: fixture.TeamScore{Total: m.Score.HomeTeam.TotalScore, Sub: m.Score.HomeTeam.SubScore},
			Away: fixture.TeamScore{Total: m.Score.AwayTeam.TotalScore, Sub: m.Score.AwayTeam.SubScore},
		},
	}
}

func mapTeam(t team) fixture.Team {
	return fixture.Team{
		FullName:   t.FullName,
		AbbName:    t.AbbName,
		CommonName: t.CommonName,
		Country:    t.CountryName,
		ImageURL:   t.ImageURL,
	}
}

// statusName prefers the English alternate when present; the base name is
// usually the Spanish one ("Pendiente", "En juego", "Finalizado").
func statusName(s status) string {
	if s.Alternates.EnEN != "" {
		return s.Alternates.EnEN
	}
	return s.Name
}

func parseStartDate(raw string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
