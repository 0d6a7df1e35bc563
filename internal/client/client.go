// Package client is a typed HTTP client for the SignalForge API. The login
// state is held in an injected SessionStore.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/dto"
	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"github.com/google/uuid"
)

const maxResponseBytes = 8 * 1024 * 1024

var (
	// ErrNotLoggedIn is returned by calls that need a session when none is stored.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrSessionForOtherServer means the stored session was issued by a
	// different server than the one this client talks to. Its token is not sent.
	ErrSessionForOtherServer = errors.New("stored session belongs to another server")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// UnreachableError means the request never got an HTTP response.
type UnreachableError struct {
	URL string
	Err error
}

func (e *UnreachableError) Error() string {
	return "unable to connect to the server at " + e.URL
}

func (e *UnreachableError) Unwrap() error { return e.Err }

type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
}

func New(baseURL string, sessions SessionStore) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
	}
}

// Signup creates an account and stores the returned session.
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.SignupRequest{Email: email, Password: password, FullName: fullName}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, c.remember(resp)
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, c.remember(resp)
}

// Logout forgets the stored session. The server keeps no session state.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.MeResponse
	if err := c.authed(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) ListSignals(ctx context.Context) ([]models.Signal, error) {
	var resp dto.SignalListResponse
	if err := c.authed(ctx, http.MethodGet, "/api/signals", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Signals, nil
}

func (c *Client) CreateSignal(ctx context.Context, req dto.CreateSignalRequest) (*models.Signal, error) {
	var resp dto.SignalResponse
	if err := c.authed(ctx, http.MethodPost, "/api/signals", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Signal, nil
}

// CreateBatch stores every request or none of them.
func (c *Client) CreateBatch(ctx context.Context, reqs []dto.CreateSignalRequest) (*dto.BatchCreateResponse, error) {
	var resp dto.BatchCreateResponse
	if err := c.authed(ctx, http.MethodPost, "/api/signals/batch", dto.BatchCreateRequest{Signals: reqs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ingest has the server classify and store content.
func (c *Client) Ingest(ctx context.Context, content string) (*dto.IngestResponse, error) {
	var resp dto.IngestResponse
	if err := c.authed(ctx, http.MethodPost, "/api/signals/ingest", dto.ContentRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateLabel(ctx context.Context, id uuid.UUID, label *string) (*models.Signal, error) {
	var resp dto.SignalResponse
	path := "/api/signals/" + id.String() + "/label"
	if err := c.authed(ctx, http.MethodPatch, path, dto.LabelRequest{EmailLabel: label}, &resp); err != nil {
		return nil, err
	}
	return &resp.Signal, nil
}

// DeleteAllSignals removes every signal of the logged-in user.
func (c *Client) DeleteAllSignals(ctx context.Context) (int64, error) {
	var resp dto.DeleteSignalsResponse
	if err := c.authed(ctx, http.MethodDelete, "/api/signals", nil, &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

func (c *Client) remember(resp dto.AuthResponse) error {
	err := c.sessions.Save(Session{Server: c.baseURL, Token: resp.Token, User: resp.User})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (c *Client) authed(ctx context.Context, method, path string, body, out any) error {
	session, err := c.sessions.Load()
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotLoggedIn
	}
	if strings.TrimRight(session.Server, "/") != c.baseURL {
		return fmt.Errorf("%w: logged in to %q, not %q", ErrSessionForOtherServer, session.Server, c.baseURL)
	}

	err = c.do(ctx, method, path, session.Token, body, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		// the stored token is dead; drop it so the next call asks for a login
		if clearErr := c.sessions.Clear(); clearErr != nil {
			return errors.Join(err, clearErr)
		}
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && ctx.Err() == nil {
			return &UnreachableError{URL: c.baseURL, Err: err}
		}
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
