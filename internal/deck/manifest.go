// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qa-deck/pkg/types"
)

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m types.Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return WriteFileAtomic(path, data)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (types.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Manifest{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m types.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return types.Manifest{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
