package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ProcessConfig describes an external command exposed as a workflow handler.
type ProcessConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
	Timeout     time.Duration     `yaml:"timeout" json:"timeout"`
}

// ConfigFile represents the structure of handlers.yaml.
type ConfigFile struct {
	Handlers []ProcessConfig `yaml:"handlers" json:"handlers"`
}

// LoadHandlers reads a configuration file (YAML or JSON) and returns the
// handler configs keyed by name. A missing file yields an empty map.
func LoadHandlers(path string) (map[string]ProcessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]ProcessConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read handlers config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	out := make(map[string]ProcessConfig, len(cfg.Handlers))
	for _, h := range cfg.Handlers {
		if h.Name == "" {
			continue
		}
		if h.Command == "" {
			return nil, fmt.Errorf("handler '%s' has no command", h.Name)
		}
		out[h.Name] = h
	}
	return out, nil
}
