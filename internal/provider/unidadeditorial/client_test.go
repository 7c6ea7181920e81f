package unidadeditorial

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"porrapp/internal/fixture"
)

const samplePayload = `{
  "status": "OK",
  "data": [
    {
      "id": "2026-03-07-rma-fcb",
      "lastUpdate": "2026-03-07T20:59:00Z",
      "startDate": "2026-03-07T21:00:00Z",
      "sportEvent": {
        "name": "Real Madrid - FC Barcelona",
        "competitors": {
          "homeTeam": {"id": "rma", "abbName": "RMA", "fullName": "Real Madrid", "commonName": "Real Madrid", "countryName": "España"},
          "awayTeam": {"id": "fcb", "abbName": "FCB", "fullName": "FC Barcelona", "commonName": "Barcelona", "countryName": "España"}
        },
        "matchDay": "28",
        "status": {"id": 1, "name": "En juego", "alternateNames": {"esES": "En juego", "enEN": "InProgress"}}
      },
      "score": {
        "homeTeam": {"totalScore": "1", "subScore": "0"},
        "awayTeam": {"totalScore": "0", "subScore": "0"}
      }
    }
  ],
  "timestamp": "2026-03-07T21:10:00Z"
}`

func TestFetchByDate(t *testing.T) {
	t.Parallel()
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != eventsPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"site":       q.Get("site"),
			"tournament": q.Get("tournament"),
			"fields":     q.Get("fields"),
			"date":       q.Get("date"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, TimezoneOffset: 2})
	day := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	fixtures, err := c.FetchByDate(context.Background(), day)
	if err != nil {
		t.Fatalf("FetchByDate: %v", err)
	}

	if gotQuery["date"] != "2026-3-7" {
		t.Fatalf("date param = %q, want unpadded 2026-3-7", gotQuery["date"])
	}
	if gotQuery["site"] != defaultSite || gotQuery["tournament"] != defaultTournament {
		t.Fatalf("unexpected site/tournament params: %+v", gotQuery)
	}
	if gotQuery["fields"] != requestedFields {
		t.Fatalf("fields param = %q", gotQuery["fields"])
	}

	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(fixtures))
	}
	f := fixtures[0]
	if f.Code != "2026-03-07-rma-fcb" {
		t.Fatalf("Code = %q", f.Code)
	}
	if f.Status != fixture.StatusInProgress {
		t.Fatalf("Status = %q, want %q", f.Status, fixture.StatusInProgress)
	}
	if f.Score.Home.Total != "1" || f.Score.Away.Total != "0" {
		t.Fatalf("unexpected score: %+v", f.Score)
	}
	if f.HomeTeam.FullName != "Real Madrid" || f.AwayTeam.FullName != "FC Barcelona" {
		t.Fatalf("unexpected teams: %q vs %q", f.HomeTeam.FullName, f.AwayTeam.FullName)
	}
	if !f.Date.Equal(time.Date(2026, 3, 7, 21, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date = %v", f.Date)
	}
}

func TestFetchByDateEmptyDay(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","data":[],"timestamp":"2026-03-08T03:00:00Z"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	fixtures, err := c.FetchByDate(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("empty day must not be an error, got %v", err)
	}
	if fixtures != nil {
		t.Fatalf("expected nil fixtures for empty day, got %v", fixtures)
	}
}

func TestFetchByDateUpstreamError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	if _, err := c.FetchByDate(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestStatusNameFallsBackToSpanish(t *testing.T) {
	t.Parallel()
	s := status{Name: "Finalizado"}
	if got := fixture.NormalizeStatus(statusName(s)); got != fixture.StatusFinished {
		t.Fatalf("normalized status = %q, want %q", got, fixture.StatusFinished)
	}
}
