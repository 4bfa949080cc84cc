package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.json")
	store := NewFileStore(path)

	// Missing file means no preference, not an error.
	got, err := store.PreferredSchool()
	if err != nil {
		t.Fatalf("PreferredSchool on missing file: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty preference, got %q", got)
	}

	if err := store.SetPreferredSchool("sch-b"); err != nil {
		t.Fatalf("SetPreferredSchool: %v", err)
	}
	got, err = store.PreferredSchool()
	if err != nil {
		t.Fatalf("PreferredSchool: %v", err)
	}
	if got != "sch-b" {
		t.Errorf("preference = %q, want sch-b", got)
	}

	// A second store over the same path sees the persisted value.
	other := NewFileStore(path)
	got, err = other.PreferredSchool()
	if err != nil {
		t.Fatalf("PreferredSchool via new store: %v", err)
	}
	if got != "sch-b" {
		t.Errorf("persisted preference = %q, want sch-b", got)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path)
	if _, err := store.PreferredSchool(); err == nil {
		t.Error("corrupt file must surface an error")
	}
}
