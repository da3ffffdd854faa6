package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ArtifactWriter accumulates run outputs and records a SHA-256 per file so a
// run can be verified after the fact.
type ArtifactWriter struct {
	rc     *RunContext
	hashes map[string]string
}

// NewArtifactWriter creates a writer bound to one run directory.
func NewArtifactWriter(rc *RunContext) *ArtifactWriter {
	return &ArtifactWriter{rc: rc, hashes: make(map[string]string)}
}

// WriteJSON marshals v with indentation and writes it as a named artifact.
func (w *ArtifactWriter) WriteJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	return w.WriteBytes(name, append(data, '\n'))
}

// WriteBytes writes a named artifact and records its hash.
func (w *ArtifactWriter) WriteBytes(name string, data []byte) error {
	if err := os.WriteFile(w.rc.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	sum := sha256.Sum256(data)
	w.hashes[name] = hex.EncodeToString(sum[:])
	return nil
}

// Manifest is the run-level index written last: run identity plus the hash of
// every artifact produced.
type Manifest struct {
	RunID     string            `json:"run_id"`
	Ticker    string            `json:"ticker"`
	StartedAt string            `json:"started_at"`
	Files     map[string]string `json:"files"` // name -> sha256
}

// WriteManifest writes manifest.json for the run. The manifest itself is not
// listed in its own file map.
func (w *ArtifactWriter) WriteManifest() error {
	m := Manifest{
		RunID:     w.rc.RunID,
		Ticker:    w.rc.Ticker,
		StartedAt: w.rc.Started.UTC().Format("2006-01-02T15:04:05Z"),
		Files:     w.hashes,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(w.rc.Path("manifest.json"), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ArtifactNames lists written artifacts in sorted order.
func (w *ArtifactWriter) ArtifactNames() []string {
	names := make([]string, 0, len(w.hashes))
	for name := range w.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
