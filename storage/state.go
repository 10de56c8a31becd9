package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// StateStore persists the fingerprint of the last digest that was
// confirmed sent, so the next run can suppress an identical resend.
// The file is the bot's only durable state.
type StateStore struct {
	filePath string
	mutex    sync.Mutex
}

type stateFile struct {
	Version     int       `json:"version"`
	Fingerprint string    `json:"last_fingerprint"`
	SavedAt     time.Time `json:"saved_at"`
}

const stateFileVersion = 1

// NewStateStore creates a store backed by the given file path
func NewStateStore(filePath string) *StateStore {
	return &StateStore{filePath: filePath}
}

// LoadFingerprint returns the persisted fingerprint. A missing state
// file means a first run and yields an empty fingerprint, not an
// error; a corrupt file is an error so the operator notices.
func (s *StateStore) LoadFingerprint() (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithFields(logrus.Fields{
				"component": "StateStore",
				"path":      s.filePath,
			}).Debug("No state file yet, treating as first run")
			return "", nil
		}
		return "", fmt.Errorf("failed to read state file %s: %w", s.filePath, err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return "", fmt.Errorf("failed to parse state file %s: %w", s.filePath, err)
	}

	return state.Fingerprint, nil
}

// SaveFingerprint atomically replaces the persisted fingerprint. The
// write goes to a temp file in the same directory and is renamed into
// place, so a crash mid-write cannot corrupt the previous state.
func (s *StateStore) SaveFingerprint(fingerprint string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	state := stateFile{
		Version:     stateFileVersion,
		Fingerprint: fingerprint,
		SavedAt:     time.Now().UTC(),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	directory := filepath.Dir(s.filePath)
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", directory, err)
	}

	tempFile, err := os.CreateTemp(directory, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tempPath, s.filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace state file %s: %w", s.filePath, err)
	}

	logrus.WithFields(logrus.Fields{
		"component":   "StateStore",
		"path":        s.filePath,
		"fingerprint": fingerprint,
	}).Debug("Persisted digest fingerprint")

	return nil
}
