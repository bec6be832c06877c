// Package poller implements the dashboard refresh clients. Guides and
// programmers keep their dashboards current by polling the portal API on
// fixed intervals rather than holding open connections.
package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aegisworks/aegis-api/internal/models"
	appErrors "github.com/aegisworks/aegis-api/pkg/errors"
)

// Client is a typed HTTP client for the portal API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// NewClient builds a client for the portal at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Login authenticates against the portal and stores the bearer token for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string, role models.UserRole) (*models.LoginResponse, error) {
	payload, err := json.Marshal(models.LoginRequest{Email: email, Password: password, Role: role})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var login models.LoginResponse
	if err := c.do(req, &login); err != nil {
		return nil, err
	}
	c.token = login.AccessToken
	return &login, nil
}

// SetToken installs a previously issued bearer token.
func (c *Client) SetToken(token string) { c.token = token }

// PendingRequests fetches the guide's unresolved session requests.
func (c *Client) PendingRequests(ctx context.Context, guideID string) ([]models.SessionRequest, error) {
	var requests []models.SessionRequest
	if err := c.get(ctx, "/api/session-requests/"+guideID, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// Notifications fetches the user's notification feed.
func (c *Client) Notifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.get(ctx, "/api/notifications/"+userID, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one notification as read on the portal.
func (c *Client) MarkRead(ctx context.Context, notificationID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/notifications/"+notificationID+"/read", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Sessions fetches the programmer's scheduled sessions.
func (c *Client) Sessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.get(ctx, "/api/sessions/programmer", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "portal unreachable")
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "malformed portal response")
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if env.Error != nil {
			return env.Error
		}
		return appErrors.Wrap(fmt.Errorf("status %d", resp.StatusCode), appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "portal request failed")
	}
	if out == nil || env.Data == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "malformed portal payload")
	}
	return nil
}
