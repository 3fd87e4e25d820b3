package widget

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"UD_missions_miniapp/internal/model"
	"UD_missions_miniapp/pkg/auth"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	statusEndpoint = "/missions/status"
	claimEndpoint  = "/missions/claim/"

	defaultTimeout = 30 * time.Second
)

// StatusClient is the mission backend as seen by the widget.
type StatusClient interface {
	FetchStatus(ctx context.Context, user *User) (*model.MissionStatus, error)
	Claim(ctx context.Context, user *User, kind model.MissionKind) (*model.MissionStatus, error)
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status code: %d, message: %s", e.StatusCode, e.Message)
}

type statusPayload struct {
	Points          int        `json:"points"`
	LastHourlyClaim *time.Time `json:"lastHourlyClaim"`
	LastDailyClaim  *time.Time `json:"lastDailyClaim"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) FetchStatus(ctx context.Context, user *User) (*model.MissionStatus, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, statusEndpoint, user)
	if err != nil {
		return nil, err
	}

	return decodeStatus(body)
}

func (c *Client) Claim(ctx context.Context, user *User, kind model.MissionKind) (*model.MissionStatus, error) {
	body, err := c.makeRequest(ctx, http.MethodPost, claimEndpoint+kind.String(), user)
	if err != nil {
		return nil, err
	}

	return decodeStatus(body)
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, user *User) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("Accept", "application/json")
	if user != nil {
		req.Header.Set("Authorization", auth.HeaderValue(user.InitData))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to make request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var payload errorPayload
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Message
		}

		return nil, apiErr
	}

	return body, nil
}

func decodeStatus(body []byte) (*model.MissionStatus, error) {
	var payload statusPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal status, raw response: %s", string(body))
	}

	points := payload.Points
	if points < 0 {
		points = 0
	}

	return &model.MissionStatus{
		Points:          points,
		LastHourlyClaim: payload.LastHourlyClaim,
		LastDailyClaim:  payload.LastDailyClaim,
	}, nil
}
