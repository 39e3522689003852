// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the stored days (optionally one month) to
// <index-dir>/export.yaml and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, month int) (string, error) {
	days, err := s.Days(ctx, month)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.yaml")
	data, err := yaml.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the stored days (optionally one month) to
// <index-dir>/export.json and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, month int) (string, error) {
	days, err := s.Days(ctx, month)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.indexDir, "export.json")
	data, err := json.MarshalIndent(days, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}
