package httputil

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/streamstack/pkg/errors"
	"github.com/matzehuels/streamstack/pkg/observability"
)

func testClient(headers map[string]string) *Client {
	return NewClient(headers, WithRetry(3, time.Millisecond))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.Header.Get("X-Token"); got != "secret" {
			t.Errorf("X-Token = %q", got)
		}
		fmt.Fprint(w, `[{"key":"Heating","values":[]}]`)
	}))
	defer srv.Close()

	data, err := testClient(map[string]string{"X-Token": "secret"}).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"key":"Heating","values":[]}]` {
		t.Errorf("body = %s", data)
	}
}

func TestFetchStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		check     func(error) bool
	}{
		{"not found", http.StatusNotFound, 1, func(err error) bool { return errors.Is(err, errors.ErrCodeFileNotFound) }},
		{"server error", http.StatusBadGateway, 3, func(err error) bool { return err != nil }},
		{"rate limited", http.StatusTooManyRequests, 3, func(err error) bool { return err != nil }},
		{"forbidden", http.StatusForbidden, 1, func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := testClient(nil).Fetch(context.Background(), srv.URL)
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestFetchRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	data, err := testClient(nil).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" || calls.Load() != 2 {
		t.Errorf("body %q after %d calls", data, calls.Load())
	}
}

func TestFetchNotURL(t *testing.T) {
	_, err := testClient(nil).Fetch(context.Background(), "requests.json")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/data.json": true,
		"http://localhost:8080/x":       true,
		"ftp://example.com/x":           false,
		"data/requests.json":            false,
		"-":                             false,
		"https://":                      false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRetry(t *testing.T) {
	transient := &RetryableError{Err: fmt.Errorf("flaky")}
	permanent := fmt.Errorf("broken")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   error
	}{
		{"success", []error{nil}, 1, nil},
		{"recovers", []error{transient, nil}, 2, nil},
		{"permanent", []error{permanent}, 1, permanent},
		{"exhausted", []error{transient, transient, transient}, 3, transient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), 3, time.Millisecond, func() error {
				err := tt.errs[calls]
				calls++
				return err
			})
			if err != tt.wantErr {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error { return &RetryableError{Err: fmt.Errorf("flaky")} })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	requests, responses []string
	statuses            []int
}

func (h *recordingHooks) OnRequest(_ context.Context, host, path string) {
	h.requests = append(h.requests, path)
}

func (h *recordingHooks) OnResponse(_ context.Context, host, path string, status int, _ time.Duration) {
	h.responses = append(h.responses, path)
	h.statuses = append(h.statuses, status)
}

func TestFetchHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	if _, err := testClient(nil).Fetch(context.Background(), srv.URL+"/requests.json"); err != nil {
		t.Fatal(err)
	}
	if len(hooks.requests) != 1 || hooks.requests[0] != "/requests.json" {
		t.Errorf("requests = %v", hooks.requests)
	}
	if len(hooks.statuses) != 1 || hooks.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}
