package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/nbmerge/internal/merge"
)

// ProjectConfig holds project-level settings loaded from nbmerge.yml.
type ProjectConfig struct {
	// Policy gates which conflict kinds are auto-resolved.
	Policy *merge.ResolutionPolicy `yaml:"policy,omitempty"`

	// OutputPath is the default path for the merged notebook.
	OutputPath string `yaml:"outputPath,omitempty"`

	// ReportPath, when set, makes every merge also write a JSON report.
	ReportPath string `yaml:"reportPath,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Load attempts to read nbmerge.yml or nbmerge.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"nbmerge.yml", "nbmerge.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// ResolvedPolicy returns the configured policy, or the default policy when
// the config does not override it.
func (c *ProjectConfig) ResolvedPolicy() merge.ResolutionPolicy {
	if c.Policy == nil {
		return merge.DefaultPolicy()
	}
	return *c.Policy
}
