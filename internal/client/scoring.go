package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

// ScoringClient talks to the external resume scoring service. The service
// parses the resume and computes the ATS match; both are opaque to this API.
type ScoringClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewScoringClient configures a client for the given base URL.
func NewScoringClient(baseURL string, timeout time.Duration) *ScoringClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScoringClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ScoreRequest is the scoring service payload. Content is the raw resume
// file, base64-encoded on the wire.
type ScoreRequest struct {
	FileName       string `json:"file_name"`
	Content        []byte `json:"content"`
	JobDescription string `json:"job_description"`
}

// Score submits one resume against one job description.
func (c *ScoringClient) Score(ctx context.Context, req ScoreRequest) (*models.ResumeAnalysis, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal scoring request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build scoring request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "scoring service unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, appErrors.Wrap(
			fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, string(raw)),
			appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "scoring service failed",
		)
	}

	var analysis models.ResumeAnalysis
	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "invalid scoring service response")
	}
	return &analysis, nil
}
