// Package store provides storage backends for completed risk assessments.
//
// This file implements the SQLite-backed store.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "embed"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vitalpath/riskscreen/internal/models"
)

// DefaultDirPermissions defines the default permissions for database directories.
const DefaultDirPermissions = 0755

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteStore persists assessments in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN. The DSN is a
// file path to the database file; its directory is created if missing.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(cfg.DSN)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLiteStore ready", "dsn", cfg.DSN)
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAssessment persists a completed assessment and returns its id.
func (s *SQLiteStore) SaveAssessment(userID string, assessment models.DualRiskAssessment, answers []models.Answer) (string, error) {
	assessmentJSON, answersJSON, err := marshalRecord(assessment, answers)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO assessments (id, user_id, assessment, answers, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, assessmentJSON, answersJSON, time.Now().UTC(),
	)
	if err != nil {
		slog.Error("SQLiteStore SaveAssessment failed", "error", err, "userID", userID)
		return "", fmt.Errorf("failed to insert assessment for %s: %w", userID, err)
	}
	slog.Debug("SQLiteStore SaveAssessment succeeded", "id", id, "userID", userID)
	return id, nil
}

// ListAssessments returns the user's assessments, newest first.
func (s *SQLiteStore) ListAssessments(userID string) ([]StoredAssessment, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, assessment, answers, created_at FROM assessments WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		slog.Error("SQLiteStore ListAssessments query failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []StoredAssessment
	for rows.Next() {
		var rec StoredAssessment
		var assessmentJSON, answersJSON string
		if err := rows.Scan(&rec.ID, &rec.UserID, &assessmentJSON, &answersJSON, &rec.CreatedAt); err != nil {
			slog.Error("SQLiteStore ListAssessments scan failed", "error", err)
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}
		if err := unmarshalRecord(&rec, assessmentJSON, answersJSON); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("SQLiteStore ListAssessments rows iteration failed", "error", err)
		return nil, fmt.Errorf("failed to iterate assessment rows: %w", err)
	}
	return records, nil
}

// LatestAssessment returns the newest assessment for the user, or nil.
func (s *SQLiteStore) LatestAssessment(userID string) (*StoredAssessment, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, assessment, answers, created_at FROM assessments WHERE user_id = ? ORDER BY created_at DESC LIMIT 1`,
		userID,
	)
	var rec StoredAssessment
	var assessmentJSON, answersJSON string
	err := row.Scan(&rec.ID, &rec.UserID, &assessmentJSON, &answersJSON, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore LatestAssessment scan failed", "error", err, "userID", userID)
		return nil, fmt.Errorf("failed to fetch latest assessment: %w", err)
	}
	if err := unmarshalRecord(&rec, assessmentJSON, answersJSON); err != nil {
		return nil, err
	}
	return &rec, nil
}
