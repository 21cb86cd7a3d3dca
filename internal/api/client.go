// Package api is the client of the CityPeople backend: JSON and multipart
// POSTs with bearer auth and the current user's phone injected.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/psds-microservice/citypeople-service/internal/errs"
	"go.uber.org/zap"
)

// Endpoint is a path relative to the API base URL.
type Endpoint string

const (
	EndpointUser        Endpoint = "user"
	EndpointContacts    Endpoint = "contacts"
	EndpointVideos      Endpoint = "videos"
	EndpointAddFriend   Endpoint = "friends/add"
	EndpointCreateGroup Endpoint = "groups/create"
	EndpointSendVideo   Endpoint = "videos/upload"
	EndpointAccept      Endpoint = "friends/accept"
)

// Parameter names used by the backend.
const (
	ParamName     = "name"
	ParamPhone    = "phone"
	ParamContacts = "contacts"
	ParamFriendID = "friend_id"
	ParamIDs      = "ids"
	ParamFriends  = "friends"
	ParamGroups   = "groups"
	ParamLocation = "location"
	ParamVideo    = "video"
	ParamAccept   = "accept"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 60 * time.Second

// CredentialSource supplies the phone and bearer token of the signed-in user.
// It returns errs.ErrTokenExpired when no usable token is cached.
type CredentialSource interface {
	Credential(ctx context.Context) (phone, token string, err error)
}

// StatusError is a non-2xx response.
type StatusError struct {
	Endpoint Endpoint
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Endpoint, e.Code, e.Body)
}

// Client talks to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	log     *zap.Logger
}

// NewClient creates a client. A non-positive timeout means DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, creds CredentialSource, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
		log:     log,
	}
}

// credential fails fast, before any network I/O, when there is no token.
func (c *Client) credential(ctx context.Context) (string, string, error) {
	phone, token, err := c.creds.Credential(ctx)
	if err != nil {
		return "", "", err
	}
	if token == "" {
		return "", "", errs.ErrTokenExpired
	}
	return phone, token, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint Endpoint, params map[string]any, out any) error {
	phone, token, err := c.credential(ctx)
	if err != nil {
		return err
	}
	body := map[string]any{ParamPhone: phone}
	for k, v := range params {
		if _, ok := body[k]; !ok {
			body[k] = v
		}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: encode params: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+string(endpoint), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint Endpoint, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}
	c.log.Debug("api: response",
		zap.String("endpoint", string(endpoint)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: truncate(string(data), 256)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", errs.ErrDecode, endpoint, err)
	}
	return nil
}

func rejected(msg *string) error {
	if msg == nil || *msg == "" {
		return errs.ErrRejected
	}
	return fmt.Errorf("%w: %s", errs.ErrRejected, *msg)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
