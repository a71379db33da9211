package factorsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// FileSource reads factor rows from a local JSON file, either a bare array
// or the endpoint's {"items": [...]} envelope. Used by the CLI for offline
// table builds.
type FileSource struct {
	Path string
}

// Fetch reads and decodes the file.
func (s FileSource) Fetch(_ context.Context) ([]model.EmissionFactorRow, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read factors file: %w", err)
	}
	var rows []model.EmissionFactorRow
	if err := json.Unmarshal(data, &rows); err == nil {
		return rows, nil
	}
	var body struct {
		Items []model.EmissionFactorRow `json:"items"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode factors file %s: %w", s.Path, err)
	}
	return body.Items, nil
}
