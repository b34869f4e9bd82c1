package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"annograph/domain/core/graph"
	"annograph/infrastructure/config"
	"annograph/interfaces/convert"
	pkgerrors "annograph/pkg/errors"
)

const apiPrefix = "/api/v1"

// Client talks to the remote annotation server. Authentication is token
// based; a client built with credentials instead of a token logs in on
// first use. The client implements the passage source and sink ports.
type Client struct {
	baseURL    string
	email      string
	password   string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the given remote settings
func NewClient(cfg config.RemoteConfig, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, pkgerrors.NewInvalidConfigurationError("remote server URL is required")
	}
	if cfg.Token == "" && (cfg.Email == "" || cfg.Password == "") {
		return nil, pkgerrors.NewInvalidConfigurationError(
			"remote server needs a token or an email and password")
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		email:      cfg.Email,
		password:   cfg.Password,
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// Login exchanges the configured credentials for a token. Called
// automatically when no token is set.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"email":    c.email,
		"password": c.password,
	})
	if err != nil {
		return pkgerrors.NewInternalError("failed to encode login request").WithCause(err)
	}

	resp, err := c.do(ctx, http.MethodPost, apiPrefix+"/login/", bytes.NewReader(body), false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.NewUnauthorizedError("remote login failed")
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pkgerrors.NewExternalError("annotation server", err)
	}
	if out.Token == "" {
		return pkgerrors.NewExternalError("annotation server",
			errors.New("login returned no token"))
	}
	c.token = out.Token
	c.logger.Debug("logged in to remote server", zap.String("url", c.baseURL))
	return nil
}

// Fetch retrieves a passage by id from the remote server
func (c *Client) Fetch(ctx context.Context, id string) (*graph.Passage, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/passages/%s/", apiPrefix, id), nil, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, pkgerrors.NewNotFoundError("remote passage " + id)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, pkgerrors.NewUnauthorizedError("remote server rejected the token")
	default:
		return nil, pkgerrors.NewExternalError("annotation server",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("failed to read remote passage", err)
	}
	p, err := convert.FromJSON(data)
	if err != nil {
		return nil, err
	}
	c.logger.Info("fetched remote passage", zap.String("passageID", p.ID()))
	return p, nil
}

// Submit uploads a passage to the remote server
func (c *Client) Submit(ctx context.Context, p *graph.Passage) error {
	if err := c.ensureToken(ctx); err != nil {
		return err
	}

	data, err := convert.ToJSON(p)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, apiPrefix+"/passages/", bytes.NewReader(data), true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return pkgerrors.NewExternalError("annotation server",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	c.logger.Info("submitted passage", zap.String("passageID", p.ID()))
	return nil
}

func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" {
		return nil
	}
	return c.Login(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, auth bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build remote request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if auth {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.NewNetworkError("remote request failed", err)
	}
	return resp, nil
}
