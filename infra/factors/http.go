// Package factorsource provides emission factor row sources: the remote
// catalog endpoint and local files for offline use.
package factorsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/core/model"
)

// Config defines the remote catalog endpoint.
type Config struct {
	Endpoint               string `json:"endpoint"`
	TimeoutSeconds         int    `json:"timeout_seconds"`
	RefreshIntervalMinutes int    `json:"refresh_interval_minutes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.RefreshIntervalMinutes <= 0 {
		c.RefreshIntervalMinutes = 60
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	return nil
}

// HTTPSource fetches factor rows from the catalog's list endpoint, which
// returns {"items": [...]}.
type HTTPSource struct {
	client   *http.Client
	endpoint string
}

// NewHTTPSource creates a source for the configured endpoint.
func NewHTTPSource(cfg Config) *HTTPSource {
	return &HTTPSource{
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		endpoint: cfg.Endpoint,
	}
}

// Fetch GETs the endpoint and decodes the row list.
func (s *HTTPSource) Fetch(ctx context.Context) ([]model.EmissionFactorRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch factors: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch factors: unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Items []model.EmissionFactorRow `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode factors: %w", err)
	}
	return body.Items, nil
}
