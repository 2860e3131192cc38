package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScenarioAsset describes one asset in a batch scenario.
type ScenarioAsset struct {
	Name     string `yaml:"name"`
	DataFile string `yaml:"data_file"`
	Signal   string `yaml:"signal"` // "label-replay" (default) or "sma-crossover"
}

// Scenario describes a batch of asset runs loaded from a YAML file.
type Scenario struct {
	Name    string          `yaml:"name"`
	Workers int             `yaml:"workers"` // Overrides WORKERS when positive
	Assets  []ScenarioAsset `yaml:"assets"`
}

// Signal source names accepted in scenario files.
const (
	SignalLabelReplay = "label-replay"
	SignalCrossover   = "sma-crossover"
)

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file '%s': %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario file '%s': %w", path, err)
	}

	var errs []string
	if len(sc.Assets) == 0 {
		errs = append(errs, "scenario must list at least one asset")
	}
	seen := make(map[string]bool, len(sc.Assets))
	for i, asset := range sc.Assets {
		if asset.Name == "" {
			errs = append(errs, fmt.Sprintf("asset %d: name must be set", i))
		}
		if asset.DataFile == "" {
			errs = append(errs, fmt.Sprintf("asset %d (%s): data_file must be set", i, asset.Name))
		}
		if seen[asset.Name] {
			errs = append(errs, fmt.Sprintf("asset %d: duplicate name %q", i, asset.Name))
		}
		seen[asset.Name] = true
		switch asset.Signal {
		case "", SignalLabelReplay, SignalCrossover:
		default:
			errs = append(errs, fmt.Sprintf("asset %d (%s): unknown signal %q", i, asset.Name, asset.Signal))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("scenario validation failed: %s", strings.Join(errs, "; "))
	}
	return &sc, nil
}

// SignalName returns the asset's signal source, defaulting to label replay.
func (a ScenarioAsset) SignalName() string {
	if a.Signal == "" {
		return SignalLabelReplay
	}
	return a.Signal
}
