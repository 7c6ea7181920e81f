package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"porrapp/internal/fixture"
	"porrapp/internal/polls"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

type sqliteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open initializes the SQLite store, creating the file and schema on first use.
func Open(cfg Config, log zerolog.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA foreign_keys = ON")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	st.log.Debug().Str("path", path).Msg("sqlite store ready")
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---- fixtures ----

func (s *sqliteStore) UpsertFixtures(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fixtures(code, date, status, home_team, away_team,
		                     home_total, home_sub, away_total, away_sub, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(code) DO UPDATE SET
		    date=excluded.date, status=excluded.status,
		    home_team=excluded.home_team, away_team=excluded.away_team,
		    home_total=excluded.home_total, home_sub=excluded.home_sub,
		    away_total=excluded.away_total, away_sub=excluded.away_sub,
		    updated_at=excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, f := range fixtures {
		home, away, err := marshalTeams(f)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			f.Code, f.Date.UTC().Format(time.RFC3339Nano), f.Status, home, away,
			f.Score.Home.Total, f.Score.Home.Sub, f.Score.Away.Total, f.Score.Away.Sub, now,
		); err != nil {
			return fmt.Errorf("upsert fixture %s: %w", f.Code, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) GetFixtureByCode(ctx context.Context, code string) (fixture.Fixture, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, date, status, home_team, away_team,
		       home_total, home_sub, away_total, away_sub
		FROM fixtures WHERE code = ?`, code)
	f, err := scanFixture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return fixture.Fixture{}, false, nil
	}
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	return f, true, nil
}

func (s *sqliteStore) UpdateFixtureByCode(ctx context.Context, f fixture.Fixture) error {
	home, away, err := marshalTeams(f)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE fixtures SET date=?, status=?, home_team=?, away_team=?,
		       home_total=?, home_sub=?, away_total=?, away_sub=?, updated_at=?
		WHERE code=?`,
		f.Date.UTC().Format(time.RFC3339Nano), f.Status, home, away,
		f.Score.Home.Total, f.Score.Home.Sub, f.Score.Away.Total, f.Score.Away.Sub,
		time.Now().UTC().Format(time.RFC3339Nano), f.Code)
	if err != nil {
		return fmt.Errorf("update fixture %s: %w", f.Code, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The tracker may observe a fixture the window never ingested
		// (provider gap); fall back to insert semantics.
		return s.UpsertFixtures(ctx, []fixture.Fixture{f})
	}
	return nil
}

func (s *sqliteStore) ListFixturesBetween(ctx context.Context, from, to time.Time) ([]fixture.Fixture, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, date, status, home_team, away_team,
		       home_total, home_sub, away_total, away_sub
		FROM fixtures WHERE date >= ? AND date < ? ORDER BY date`,
		from.UTC().Format(time.RFC3339Nano), to.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fixture.Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFixture(r rowScanner) (fixture.Fixture, error) {
	var (
		f          fixture.Fixture
		date       string
		home, away []byte
	)
	if err := r.Scan(&f.Code, &date, &f.Status, &home, &away,
		&f.Score.Home.Total, &f.Score.Home.Sub, &f.Score.Away.Total, &f.Score.Away.Sub); err != nil {
		return fixture.Fixture{}, err
	}
	if t, err := time.Parse(time.RFC3339Nano, date); err == nil {
		f.Date = t
	}
	if err := json.Unmarshal(home, &f.HomeTeam); err != nil {
		return fixture.Fixture{}, fmt.Errorf("decode home team for %s: %w", f.Code, err)
	}
	if err := json.Unmarshal(away, &f.AwayTeam); err != nil {
		return fixture.Fixture{}, fmt.Errorf("decode away team for %s: %w", f.Code, err)
	}
	return f, nil
}

func marshalTeams(f fixture.Fixture) ([]byte, []byte, error) {
	home, err := json.Marshal(f.HomeTeam)
	if err != nil {
		return nil, nil, err
	}
	away, err := json.Marshal(f.AwayTeam)
	if err != nil {
		return nil, nil, err
	}
	return home, away, nil
}

// ---- polls ----

func (s *sqliteStore) CreatePoll(ctx context.Context, p polls.Poll) (polls.Poll, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO polls(id, game_code, author, code, modality, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?)`,
		p.ID, p.GameCode, p.Author, p.Code, string(p.Modality),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return polls.Poll{}, fmt.Errorf("create poll for game %s: %w", p.GameCode, err)
	}
	return p, nil
}

func (s *sqliteStore) AddGuess(ctx context.Context, g polls.Guess) (polls.Guess, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO guesses(id, poll_id, game_code, author, home_team_score, away_team_score, created_at)
		VALUES(?,?,?,?,?,?,?)`,
		g.ID, g.PollID, g.GameCode, g.Author, g.HomeTeamScore, g.AwayTeamScore,
		g.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return polls.Guess{}, fmt.Errorf("add guess to poll %s: %w", g.PollID, err)
	}
	return g, nil
}

func (s *sqliteStore) GetPublicPoll(ctx context.Context, gameCode string) (polls.Poll, bool, error) {
	var (
		p        polls.Poll
		modality string
		created  string
		updated  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, game_code, author, code, modality, created_at, updated_at
		FROM polls WHERE game_code = ? AND modality = 'public'`, gameCode).
		Scan(&p.ID, &p.GameCode, &p.Author, &p.Code, &modality, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return polls.Poll{}, false, nil
	}
	if err != nil {
		return polls.Poll{}, false, err
	}
	p.Modality = polls.Modality(modality)
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, poll_id, game_code, author, home_team_score, away_team_score, created_at
		FROM guesses WHERE poll_id = ? ORDER BY created_at`, p.ID)
	if err != nil {
		return polls.Poll{}, false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			g  polls.Guess
			at string
		)
		if err := rows.Scan(&g.ID, &g.PollID, &g.GameCode, &g.Author,
			&g.HomeTeamScore, &g.AwayTeamScore, &at); err != nil {
			return polls.Poll{}, false, err
		}
		g.CreatedAt, _ = time.Parse(time.RFC3339Nano, at)
		p.Guesses = append(p.Guesses, g)
	}
	return p, true, rows.Err()
}

func (s *sqliteStore) GetUserStats(ctx context.Context, userID string) (polls.UserStats, bool, error) {
	var (
		st               polls.UserStats
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, total_submitted, total_finished, total_successful,
		       success_rate, current_streak, best_streak, avg_score_diff,
		       created_at, updated_at
		FROM public_poll_stats WHERE user_id = ?`, userID).
		Scan(&st.UserID, &st.TotalSubmitted, &st.TotalFinished, &st.TotalSuccessful,
			&st.SuccessRate, &st.CurrentStreak, &st.BestStreak, &st.AvgScoreDiff,
			&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return polls.UserStats{}, false, nil
	}
	if err != nil {
		return polls.UserStats{}, false, err
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return st, true, nil
}

func (s *sqliteStore) UpsertUserStats(ctx context.Context, st polls.UserStats) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO public_poll_stats(user_id, total_submitted, total_finished,
		    total_successful, success_rate, current_streak, best_streak,
		    avg_score_diff, created_at, updated_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(user_id) DO UPDATE SET
		    total_submitted=excluded.total_submitted,
		    total_finished=excluded.total_finished,
		    total_successful=excluded.total_successful,
		    success_rate=excluded.success_rate,
		    current_streak=excluded.current_streak,
		    best_streak=excluded.best_streak,
		    avg_score_diff=excluded.avg_score_diff,
		    updated_at=excluded.updated_at`,
		st.UserID, st.TotalSubmitted, st.TotalFinished, st.TotalSuccessful,
		st.SuccessRate, st.CurrentStreak, st.BestStreak, st.AvgScoreDiff, now, now)
	if err != nil {
		return fmt.Errorf("upsert stats for %s: %w", st.UserID, err)
	}
	return nil
}
