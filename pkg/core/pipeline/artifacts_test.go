package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testRunContext(t *testing.T) *RunContext {
	t.Helper()
	rc, err := NewRunContext(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("NewRunContext failed: %v", err)
	}
	return rc
}

func TestNewRunContextDirectoryNaming(t *testing.T) {
	rc := testRunContext(t)

	base := filepath.Base(rc.Dir)
	parts := strings.Split(base, "_")
	if len(parts) != 3 {
		t.Fatalf("run dir %q should be date_TICKER_id", base)
	}
	if parts[0] != rc.Started.Format("2006-01-02") {
		t.Errorf("date segment = %q", parts[0])
	}
	if parts[1] != "TEST" {
		t.Errorf("ticker segment = %q, want upper-cased TEST", parts[1])
	}
	if len(parts[2]) != 8 || !strings.HasPrefix(rc.RunID, parts[2]) {
		t.Errorf("id segment %q should be the run id prefix of %q", parts[2], rc.RunID)
	}

	if info, err := os.Stat(rc.Dir); err != nil || !info.IsDir() {
		t.Error("run directory should exist")
	}
}

func TestArtifactWriterHashesAndManifest(t *testing.T) {
	rc := testRunContext(t)
	w := NewArtifactWriter(rc)

	payload := []byte("hello artifacts\n")
	if err := w.WriteBytes("note.txt", payload); err != nil {
		t.Fatalf("WriteBytes failed: %v", err)
	}
	if err := w.WriteJSON("data.json", map[string]int{"a": 1}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := w.WriteManifest(); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}

	raw, err := os.ReadFile(rc.Path("manifest.json"))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("manifest not valid JSON: %v", err)
	}

	if m.RunID != rc.RunID || m.Ticker != "TEST" {
		t.Errorf("manifest identity = %s/%s", m.RunID, m.Ticker)
	}
	if len(m.Files) != 2 {
		t.Fatalf("manifest lists %d files, want 2", len(m.Files))
	}
	if _, ok := m.Files["manifest.json"]; ok {
		t.Error("manifest must not list itself")
	}

	// Recorded hash matches the bytes on disk
	sum := sha256.Sum256(payload)
	if m.Files["note.txt"] != hex.EncodeToString(sum[:]) {
		t.Errorf("note.txt hash = %s", m.Files["note.txt"])
	}
	onDisk, err := os.ReadFile(rc.Path("data.json"))
	if err != nil {
		t.Fatal(err)
	}
	diskSum := sha256.Sum256(onDisk)
	if m.Files["data.json"] != hex.EncodeToString(diskSum[:]) {
		t.Error("data.json hash does not match file contents")
	}
}

func TestArtifactNamesSorted(t *testing.T) {
	rc := testRunContext(t)
	w := NewArtifactWriter(rc)
	for _, name := range []string{"c.json", "a.json", "b.json"} {
		if err := w.WriteBytes(name, []byte("{}")); err != nil {
			t.Fatal(err)
		}
	}
	names := w.ArtifactNames()
	want := []string{"a.json", "b.json", "c.json"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names = %v, want %v", names, want)
			break
		}
	}
}
