package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cyno-agent/cyno/internal/engine"
)

// ProfileDB persists candidate profiles in Postgres so parsed resumes
// survive restarts and the matcher can run without re-parsing.
type ProfileDB struct {
	pool *pgxpool.Pool
}

// Package-level instance, set from main.
var profileDB *ProfileDB

// SetProfileDB sets the package-level profile DB instance.
func SetProfileDB(db *ProfileDB) { profileDB = db }

// GetProfileDB returns the package-level profile DB instance (may be nil).
func GetProfileDB() *ProfileDB { return profileDB }

const profileSchema = `CREATE TABLE IF NOT EXISTS candidate_profiles (
	id         BIGSERIAL PRIMARY KEY,
	profile    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// ConnectProfileDB creates a pgx pool and ensures the schema exists.
func ConnectProfileDB(ctx context.Context, databaseURL string) (*ProfileDB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 5
	config.MinConns = 1
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET search_path TO public")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, profileSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	slog.Info("profile postgres connected", slog.String("addr", config.ConnConfig.Host))
	return &ProfileDB{pool: pool}, nil
}

func (db *ProfileDB) Close() { db.pool.Close() }

// SaveProfile stores a profile snapshot and returns its ID.
func (db *ProfileDB) SaveProfile(ctx context.Context, profile engine.CandidateProfile) (int64, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return 0, fmt.Errorf("profiledb: marshal: %w", err)
	}

	var id int64
	err = db.pool.QueryRow(ctx,
		`INSERT INTO candidate_profiles (profile) VALUES ($1) RETURNING id`,
		data).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("profiledb: insert: %w", err)
	}
	return id, nil
}

// LoadLatest returns the most recently saved profile, or pgx.ErrNoRows when
// none exists yet.
func (db *ProfileDB) LoadLatest(ctx context.Context) (engine.CandidateProfile, time.Time, error) {
	var data []byte
	var createdAt time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT profile, created_at FROM candidate_profiles ORDER BY id DESC LIMIT 1`).
		Scan(&data, &createdAt)
	if err != nil {
		return engine.CandidateProfile{}, time.Time{}, err
	}

	var profile engine.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return engine.CandidateProfile{}, time.Time{}, fmt.Errorf("profiledb: decode: %w", err)
	}
	return profile, createdAt, nil
}
