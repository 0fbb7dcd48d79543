package labapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lab-appointment-web/config"

	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(config.APIConfig{BaseURL: srv.URL + "/", Timeout: time.Second}, log)
}

func TestClient_DoSendsTokenAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/appointments/book" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["isHomeVisit"] != true {
			t.Errorf("unexpected body %v (%v)", body, err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":12,"status":"PENDING"}`))
	})

	var out struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	err := c.Do(context.Background(), http.MethodPost, "/appointments/book", "tok", map[string]bool{"isHomeVisit": true}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.ID != 12 || out.Status != "PENDING" {
		t.Errorf("unexpected decode %+v", out)
	}
}

func TestClient_DoReturnsAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json message", http.StatusConflict, `{"message":"Username already exists"}`, "Username already exists"},
		{"json error field", http.StatusBadRequest, `{"error":"Bad Request"}`, "Bad Request"},
		{"plain text", http.StatusInternalServerError, "boom\n", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := c.Do(context.Background(), http.MethodGet, "/user/me", "", nil, nil)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Message != tt.wantMsg {
				t.Errorf("got %d %q", apiErr.StatusCode, apiErr.Message)
			}
			if !IsStatus(err, tt.status) {
				t.Error("IsStatus should match")
			}
		})
	}
}

func TestClient_EmptyBodyIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var out map[string]interface{}
	if err := c.Do(context.Background(), http.MethodPut, "/admin/appointments/1/status", "tok", map[string]string{"status": "CONFIRMED"}, &out); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestClient_TimeoutIsNotAnAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	c.http.Timeout = 20 * time.Millisecond

	err := c.Do(context.Background(), http.MethodGet, "/tests", "", nil, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if StatusCode(err) != 0 {
		t.Errorf("expected transport error, got status %d", StatusCode(err))
	}
}
