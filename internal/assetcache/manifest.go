package assetcache

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the fixed, versioned list of asset paths a cache generation
// is populated from. The version string names the generation.
type Manifest struct {
	Version string   `yaml:"version"`
	Assets  []string `yaml:"assets"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if manifest.Version == "" {
		return nil, fmt.Errorf("manifest version is required")
	}
	if len(manifest.Assets) == 0 {
		return nil, fmt.Errorf("manifest lists no assets")
	}
	return &manifest, nil
}
