// Package store provides storage backends for completed risk assessments.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/vitalpath/riskscreen/internal/models"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists assessments in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresStore ready")
	return &PostgresStore{db: db}, nil
}

// Close releases the database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveAssessment persists a completed assessment and returns its id.
func (s *PostgresStore) SaveAssessment(userID string, assessment models.DualRiskAssessment, answers []models.Answer) (string, error) {
	assessmentJSON, answersJSON, err := marshalRecord(assessment, answers)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO assessments (id, user_id, assessment, answers, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, userID, assessmentJSON, answersJSON, time.Now().UTC(),
	)
	if err != nil {
		slog.Error("PostgresStore SaveAssessment failed", "error", err, "userID", userID)
		return "", fmt.Errorf("failed to insert assessment for %s: %w", userID, err)
	}
	return id, nil
}

// ListAssessments returns the user's assessments, newest first.
func (s *PostgresStore) ListAssessments(userID string) ([]StoredAssessment, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, assessment, answers, created_at FROM assessments WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		slog.Error("PostgresStore ListAssessments query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []StoredAssessment
	for rows.Next() {
		var rec StoredAssessment
		var assessmentJSON, answersJSON string
		if err := rows.Scan(&rec.ID, &rec.UserID, &assessmentJSON, &answersJSON, &rec.CreatedAt); err != nil {
			slog.Error("PostgresStore ListAssessments scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		if err := unmarshalRecord(&rec, assessmentJSON, answersJSON); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("PostgresStore ListAssessments rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate assessment rows: %w", err)
	}
	return records, nil
}

// LatestAssessment returns the newest assessment for the user, or nil.
func (s *PostgresStore) LatestAssessment(userID string) (*StoredAssessment, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, assessment, answers, created_at FROM assessments WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	)
	var rec StoredAssessment
	var assessmentJSON, answersJSON string
	err := row.Scan(&rec.ID, &rec.UserID, &assessmentJSON, &answersJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore LatestAssessment scan failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to fetch latest assessment: %w", err)
	}
	if err := unmarshalRecord(&rec, assessmentJSON, answersJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}
