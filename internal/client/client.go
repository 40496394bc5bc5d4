package client

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

	"github.com/SAP-F-2025/school-directory/internal/models"
	"github.com/SAP-F-2025/school-directory/internal/validator"
)

var (
	// ErrTimeout is returned when a call outlived its per-call timeout or the caller cancelled it
	ErrTimeout = errors.New("request timed out")

	// ErrRequestFailed covers transport failures and non-2xx responses
	ErrRequestFailed = errors.New("request failed")
)

// APIError is a non-2xx response from the school API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("school api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("school api returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() []error {
	if e.StatusCode == http.StatusGatewayTimeout {
		return []error{ErrRequestFailed, ErrTimeout}
	}
	return []error{ErrRequestFailed}
}

// SchoolAPI is what the views need from the backend
type SchoolAPI interface {
	ListSchools(ctx context.Context) ([]models.School, error)
	CreateSchool(ctx context.Context, req *validator.SchoolCreateRequest) (uint, error)
}

// Client talks to the school directory REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a client. Each call is bounded by timeout on top of the caller's context.
func New(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}
}

type createResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListSchools fetches every school, newest first
func (c *Client) ListSchools(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	if err := c.do(ctx, http.MethodGet, "/api/schools", nil, &schools); err != nil {
		return nil, err
	}
	if schools == nil {
		schools = []models.School{}
	}
	return schools, nil
}

// CreateSchool submits a school and returns the id assigned by the store
func (c *Client) CreateSchool(ctx context.Context, req *validator.SchoolCreateRequest) (uint, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/api/schools", req, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: parsing %s %s response: %v", ErrRequestFailed, method, path, err)
		}
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, method, path string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s %s: %v", ErrTimeout, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
}
