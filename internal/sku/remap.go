package sku

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRemap reads the revised-SKU table, a flat YAML mapping of old SKU to
// replacement. A missing file yields an empty table.
func LoadRemap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load sku map %q: %w", path, err)
	}

	out := map[string]string{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse sku map %q: %w", path, err)
	}
	return out, nil
}
