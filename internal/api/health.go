package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// HealthStatus is the server's view of itself plus the round trip it took to ask.
type HealthStatus struct {
	Status   string        `json:"status"`
	Version  string        `json:"version,omitempty"`
	Realtime string        `json:"realtime,omitempty"`
	Latency  time.Duration `json:"-"`
}

// OK reports whether the server said it is healthy.
func (h HealthStatus) OK() bool {
	return strings.EqualFold(h.Status, "ok")
}

// Health calls /api/health. Older servers answer with a bare object and newer ones
// wrap it in the data envelope; both are accepted.
func (c *Client) Health() (*HealthStatus, error) {
	start := time.Now()
	data, err := c.get("/api/health")
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	var payload struct {
		HealthStatus
		Data *HealthStatus `json:"data"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	out := payload.HealthStatus
	if payload.Data != nil {
		out = *payload.Data
	}
	if out.Status == "" {
		return nil, fmt.Errorf("decode response: missing status")
	}
	out.Latency = elapsed
	return &out, nil
}
