// Package publish writes the merged table and its manifest for the publishing step.
package publish

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/situations/internal/table"
)

// Manifest describes a generated dataset for the catalog publisher.
type Manifest struct {
	Name         string     `yaml:"name"`
	Title        string     `yaml:"title"`
	Maintainer   string     `yaml:"maintainer"`
	Organization string     `yaml:"owner_org"`
	DatasetDate  string     `yaml:"dataset_date"`
	StartDate    string     `yaml:"start_date"`
	EndDate      string     `yaml:"end_date"`
	Locations    []string   `yaml:"locations"`
	Tags         []string   `yaml:"tags"`
	Resources    []Resource `yaml:"resources"`
}

// Resource describes one file of the manifest.
type Resource struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Format      string   `yaml:"format"`
	File        string   `yaml:"file"`
	Rows        int      `yaml:"rows"`
	Columns     []string `yaml:"columns"`
}

// StageCSV writes t to a temporary file next to path, creating parent
// directories, and returns its name. The caller either Commits or Discards it.
func StageCSV(path string, t *table.Table) (string, error) {
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf, t); err != nil {
		return "", fmt.Errorf("encode table: %w", err)
	}
	return stage(path, buf.Bytes())
}

// Commit renames a staged file into place at path.
func Commit(staged, path string) error {
	if err := os.Rename(staged, path); err != nil {
		os.Remove(staged)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Discard removes a staged file that will not be published.
func Discard(staged string) {
	_ = os.Remove(staged)
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return writeFile(path, buf.Bytes())
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

func writeFile(path string, data []byte) error {
	staged, err := stage(path, data)
	if err != nil {
		return err
	}
	return Commit(staged, path)
}

func stage(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return tmpName, nil
}
