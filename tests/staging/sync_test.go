//go:build staging

package staging

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"testing"
)

// stagingConfigID returns the config ID seeded in the staging environment,
// or skips the test when none is configured.
func stagingConfigID(t *testing.T) string {
	t.Helper()
	id := os.Getenv("STAGING_CONFIG_ID")
	if id == "" {
		t.Skip("STAGING_CONFIG_ID not set")
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		t.Fatalf("STAGING_CONFIG_ID must be numeric, got %q", id)
	}
	return id
}

func TestVersionEndpoint(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/version", nil)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var info struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if info.Version == "" {
		t.Error("Expected non-empty version")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	resp, body := makeRequest(t, "GET", "/metrics", nil)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(body) == 0 {
		t.Error("Expected non-empty metrics output")
	}
}

func TestSyncStatus(t *testing.T) {
	configID := stagingConfigID(t)

	resp, body := makeRequest(t, "GET", "/api/v1/sync/"+configID+"/status", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var status struct {
		ConfigID int64 `json:"config_id"`
		Running  bool  `json:"running"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if strconv.FormatInt(status.ConfigID, 10) != configID {
		t.Errorf("Expected config_id %s, got %d", configID, status.ConfigID)
	}
}

func TestSyncRunsList(t *testing.T) {
	configID := stagingConfigID(t)

	resp, body := makeRequest(t, "GET", "/api/v1/sync/"+configID+"/runs?limit=5", nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var runs struct {
		ConfigID int64 `json:"config_id"`
		Runs     []struct {
			Status string `json:"status"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(body, &runs); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(runs.Runs) > 5 {
		t.Errorf("Expected at most 5 runs, got %d", len(runs.Runs))
	}
}

func TestSyncStatusUnknownConfig(t *testing.T) {
	resp, _ := makeRequest(t, "GET", "/api/v1/sync/999999999/status", nil)

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestAuthRequired(t *testing.T) {
	// Build a request without the API key header
	req, err := http.NewRequest("GET", stagingURL+"/api/v1/sync/1/status", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}
