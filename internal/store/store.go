// Package store provides storage backends for completed risk assessments.
//
// It includes an in-memory store for tests and development, plus SQLite and
// PostgreSQL backends. The core produces a valid assessment regardless of
// whether persistence later succeeds.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vitalpath/riskscreen/internal/models"
)

// Opts holds configuration options for store implementations.
type Opts struct {
	// DSN is the database connection string (file path for SQLite).
	DSN string
}

// Option configures store options.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// StoredAssessment is the persisted form of one completed interview.
type StoredAssessment struct {
	ID         string                    `json:"id"`
	UserID     string                    `json:"user_id"`
	Assessment models.DualRiskAssessment `json:"assessment"`
	Answers    []models.Answer           `json:"answers"`
	CreatedAt  time.Time                 `json:"created_at"`
}

// Store is the persistence collaborator for assessments. The round trip
// must be lossless for every assessment and answer field.
type Store interface {
	// SaveAssessment persists a completed assessment and returns its id.
	SaveAssessment(userID string, assessment models.DualRiskAssessment, answers []models.Answer) (string, error)
	// ListAssessments returns all stored assessments for a user, newest first.
	ListAssessments(userID string) ([]StoredAssessment, error)
	// LatestAssessment returns the newest stored assessment for a user, or
	// nil when the user has none.
	LatestAssessment(userID string) (*StoredAssessment, error)
}

// InMemoryStore is a thread-safe in-memory store for assessments.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []StoredAssessment
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// SaveAssessment persists the assessment in memory.
func (s *InMemoryStore) SaveAssessment(userID string, assessment models.DualRiskAssessment, answers []models.Answer) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := StoredAssessment{
		ID:         uuid.NewString(),
		UserID:     userID,
		Assessment: assessment,
		Answers:    answers,
		CreatedAt:  time.Now().UTC(),
	}
	s.records = append(s.records, rec)
	return rec.ID, nil
}

// ListAssessments returns the user's assessments, newest first.
func (s *InMemoryStore) ListAssessments(userID string) ([]StoredAssessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []StoredAssessment
	for _, rec := range s.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// LatestAssessment returns the newest assessment for the user, or nil.
func (s *InMemoryStore) LatestAssessment(userID string) (*StoredAssessment, error) {
	records, err := s.ListAssessments(userID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// marshalRecord serializes the assessment and answers for SQL backends.
func marshalRecord(assessment models.DualRiskAssessment, answers []models.Answer) (assessmentJSON, answersJSON string, err error) {
	a, err := json.Marshal(assessment)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize assessment: %w", err)
	}
	b, err := json.Marshal(answers)
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize answers: %w", err)
	}
	return string(a), string(b), nil
}

// unmarshalRecord restores the assessment and answers from their stored form.
func unmarshalRecord(rec *StoredAssessment, assessmentJSON, answersJSON string) error {
	if err := json.Unmarshal([]byte(assessmentJSON), &rec.Assessment); err != nil {
		return fmt.Errorf("failed to parse stored assessment: %w", err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
		return fmt.Errorf("failed to parse stored answers: %w", err)
	}
	return nil
}
