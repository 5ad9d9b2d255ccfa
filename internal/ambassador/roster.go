package ambassador

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rosterFile is the on-disk roster format.
type rosterFile struct {
	Ambassadors []Ambassador `yaml:"ambassadors"`
}

// LoadRoster reads an ambassador roster from a YAML file.
func LoadRoster(path string) ([]Ambassador, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	for i, a := range rf.Ambassadors {
		if a.ID == "" {
			return nil, fmt.Errorf("roster entry %d: missing id", i)
		}
		if a.Zip == "" {
			return nil, fmt.Errorf("roster entry %s: missing location_zip", a.ID)
		}
		for _, s := range a.Services {
			if !ValidService(s) {
				return nil, fmt.Errorf("roster entry %s: unknown service %q", a.ID, s)
			}
		}
	}

	return rf.Ambassadors, nil
}

// SaveRoster writes the roster to a YAML file.
func SaveRoster(path string, roster []Ambassador) error {
	data, err := yaml.Marshal(rosterFile{Ambassadors: roster})
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}
