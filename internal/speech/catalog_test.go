package speech

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog_EmptyPathReturnsDefault(t *testing.T) {
	voices, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(voices) != len(DefaultCatalog) {
		t.Errorf("expected default catalog, got %d voices", len(voices))
	}
}

func TestLoadCatalog_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.yaml")
	content := `voices:
  - name: Test Voice
    language: en-US
    gender: female
    tags: [neural, premium]
    local: true
  - name: Backup
    language: en-GB
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	voices, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(voices) != 2 {
		t.Fatalf("expected 2 voices, got %d", len(voices))
	}
	v := voices[0]
	if v.Name != "Test Voice" || v.Language != "en-US" || !v.Local {
		t.Errorf("unexpected voice: %+v", v)
	}
	if len(v.Tags) != 2 || v.Tags[0] != "neural" {
		t.Errorf("tags not parsed: %v", v.Tags)
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	if _, err := LoadCatalog("/nonexistent/voices.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCatalog_EmptyInventoryRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.yaml")
	os.WriteFile(path, []byte("voices: []\n"), 0644)

	if _, err := LoadCatalog(path); err == nil {
		t.Error("expected error for empty inventory")
	}
}
