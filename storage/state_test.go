package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateStoreRoundTrip(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	store := NewStateStore(statePath)

	if err := store.SaveFingerprint("abc123"); err != nil {
		t.Fatalf("SaveFingerprint failed: %v", err)
	}

	fingerprint, err := store.LoadFingerprint()
	if err != nil {
		t.Fatalf("LoadFingerprint failed: %v", err)
	}
	if fingerprint != "abc123" {
		t.Errorf("fingerprint = %q, want abc123", fingerprint)
	}
}

func TestStateStoreMissingFileIsFirstRun(t *testing.T) {
	store := NewStateStore(filepath.Join(t.TempDir(), "never-written.json"))

	fingerprint, err := store.LoadFingerprint()
	if err != nil {
		t.Fatalf("a missing state file must not be an error: %v", err)
	}
	if fingerprint != "" {
		t.Errorf("fingerprint = %q, want empty on first run", fingerprint)
	}
}

func TestStateStoreOverwrite(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	store := NewStateStore(statePath)

	if err := store.SaveFingerprint("first"); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.SaveFingerprint("second"); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	fingerprint, err := store.LoadFingerprint()
	if err != nil {
		t.Fatalf("LoadFingerprint failed: %v", err)
	}
	if fingerprint != "second" {
		t.Errorf("fingerprint = %q, want second", fingerprint)
	}

	// The atomic rename must leave no temp files behind.
	entries, err := os.ReadDir(filepath.Dir(statePath))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the state file in the directory, found %d entries", len(entries))
	}
}

func TestStateStoreCreatesParentDirectories(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "nested", "deeper", "state.json")
	store := NewStateStore(statePath)

	if err := store.SaveFingerprint("nested"); err != nil {
		t.Fatalf("SaveFingerprint must create parent directories: %v", err)
	}

	fingerprint, err := store.LoadFingerprint()
	if err != nil || fingerprint != "nested" {
		t.Errorf("round trip through nested path failed: %q, %v", fingerprint, err)
	}
}

func TestStateStoreCorruptFileIsAnError(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(statePath, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStateStore(statePath)
	if _, err := store.LoadFingerprint(); err == nil {
		t.Fatal("a corrupt state file must surface as an error")
	}
}
