package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nox-hq/riskboard/core/entity"
)

// LoadFile decodes a snapshot from a .json, .yaml or .yml file. It does not
// validate; Store.Load does.
func LoadFile(path string) (entity.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("reading snapshot file: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses snapshot bytes in the format implied by ext. An unknown
// extension is parsed as JSON.
func Decode(data []byte, ext string) (entity.Snapshot, error) {
	var snap entity.Snapshot
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return entity.Snapshot{}, fmt.Errorf("parsing snapshot YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &snap); err != nil {
			return entity.Snapshot{}, fmt.Errorf("parsing snapshot JSON: %w", err)
		}
	}
	return snap, nil
}
