// Package manifest loads a prebuilt snapshot of the route table.
//
// In verified (production) environments the aggregation step is skipped by
// reading assets/build/routes.json, a serialized registry snapshot produced
// at build time. The manifest is trusted as-is; staleness against the actual
// route units is a known risk and is not validated at load time.
//
// Any failure to obtain or parse the manifest falls back to a full directory
// scan. The fallback never surfaces an error to the caller.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/routehub-io/routehub/pkg/registry"
)

// DefaultPath is the conventional manifest location.
const DefaultPath = "assets/build/routes.json"

// Load reads and parses a manifest file into a registry snapshot.
func Load(path string) (registry.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes manifest bytes into a registry snapshot.
func Parse(data []byte) (registry.Snapshot, error) {
	var snap registry.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing routes manifest: %w", err)
	}
	return snap, nil
}

// Write serializes a registry snapshot to path. Used by build tooling to
// produce the manifest the loader consumes.
func Write(path string, snap registry.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
