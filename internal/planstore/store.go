// Package planstore keeps the current plan in memory and mirrors it to a
// single durable key.
package planstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"FitAICoach/internal/models"
	"github.com/rs/zerolog/log"
)

// Key under which the plan is persisted.
const Key = "fitnessplan"

// Storage is a durable string key/value store.
type Storage interface {
	// Get returns found == false when the key has never been written.
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
}

// Store owns the current plan. Only Save and Load replace it.
type Store struct {
	storage Storage

	mu      sync.RWMutex
	current *models.Plan
}

func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Save makes plan current and overwrites the persisted copy.
func (s *Store) Save(plan models.Plan) error {
	s.mu.Lock()
	s.current = &plan
	s.mu.Unlock()

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := s.storage.Set(Key, data); err != nil {
		return fmt.Errorf("failed to persist plan: %w", err)
	}
	return nil
}

// Load reads the persisted plan. Absent or undecodable data reports
// found == false and leaves the current plan untouched.
func (s *Store) Load() (models.Plan, bool) {
	data, found, err := s.storage.Get(Key)
	if err != nil {
		log.Warn().Err(err).Str("key", Key).Msg("Failed to read saved plan")
		return models.Plan{}, false
	}
	if !found {
		return models.Plan{}, false
	}

	plan, err := decodePlan(data)
	if err != nil {
		log.Warn().Err(err).Str("key", Key).Msg("Ignoring corrupt saved plan")
		return models.Plan{}, false
	}

	s.mu.Lock()
	s.current = &plan
	s.mu.Unlock()
	return plan, true
}

// Clear drops the in-memory plan. The persisted copy is kept.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// Current returns the in-memory plan, if any.
func (s *Store) Current() (models.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Plan{}, false
	}
	return *s.current, true
}

var errNotObject = errors.New("saved plan is not a JSON object")

func decodePlan(data []byte) (models.Plan, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return models.Plan{}, errNotObject
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()

	var plan models.Plan
	if err := dec.Decode(&plan); err != nil {
		return models.Plan{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return models.Plan{}, errors.New("trailing data after saved plan")
	}
	return plan, nil
}
