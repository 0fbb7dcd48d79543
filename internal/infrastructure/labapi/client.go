package labapi

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

	"lab-appointment-web/config"

	"github.com/sirupsen/logrus"
)

// maxErrorBody caps how much of a failed response is kept for the message
const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from the lab API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lab api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("lab api: status %d: %s", e.StatusCode, e.Message)
}

// StatusCode returns the upstream status of err, or 0 when err is not an
// APIError (network failure, timeout, decode error).
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsStatus reports whether err is an APIError with one of the given codes.
func IsStatus(err error, codes ...int) bool {
	status := StatusCode(err)
	for _, code := range codes {
		if status == code {
			return true
		}
	}
	return false
}

// Client talks JSON to the lab REST API. Callers pass the session's bearer
// token per call; the client itself holds no identity.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func NewClient(cfg config.APIConfig, log *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Do sends body (if any) as JSON and decodes a 2xx response into out (if
// non-nil). Any other status is returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("lab api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Ping checks that the API answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tests", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("lab api unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// errorMessage pulls "message" (or "error") out of a JSON error body and
// falls back to the raw text.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
