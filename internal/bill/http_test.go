package bill

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

func newBillServer(t *testing.T, handler http.HandlerFunc) *HTTPResolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	r, err := NewHTTPResolver(srv.URL + "/")
	if err != nil {
		t.Fatalf("NewHTTPResolver() error = %v", err)
	}
	return r
}

func TestHTTPResolver_OK(t *testing.T) {
	var gotPath string
	r := newBillServer(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		_ = json.NewEncoder(w).Encode(validRecord())
	})

	rec, err := r.Resolve(context.Background(), "ABC-123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if gotPath != "/bills/ABC-123" {
		t.Errorf("request path = %q, want /bills/ABC-123", gotPath)
	}
	if rec != validRecord() {
		t.Errorf("Resolve() = %+v, want %+v", rec, validRecord())
	}
}

func TestHTTPResolver_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"not found", http.StatusNotFound, `{"error":"no bill"}`, errors.ErrUnknownReference},
		{"bad request", http.StatusBadRequest, "", errors.ErrMalformedReference},
		{"unprocessable", http.StatusUnprocessableEntity, "", errors.ErrMalformedReference},
		{"server error", http.StatusInternalServerError, "", errors.ErrResolverUnreachable},
		{"bad gateway", http.StatusBadGateway, "", errors.ErrResolverUnreachable},
		{"garbage body", http.StatusOK, "{not json", errors.ErrMalformedRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBillServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := r.Resolve(context.Background(), "ABC-123")
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}

func TestHTTPResolver_NotFoundSuggestion(t *testing.T) {
	r := newBillServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no bill","suggestion":"ABC-124"}`))
	})

	_, err := r.Resolve(context.Background(), "ABC-123")
	var resErr *errors.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() error = %v, want ResolutionError", err)
	}
	if resErr.Suggestion != "ABC-124" {
		t.Errorf("Suggestion = %q, want ABC-124", resErr.Suggestion)
	}
}

func TestHTTPResolver_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r, err := NewHTTPResolver(url)
	if err != nil {
		t.Fatalf("NewHTTPResolver() error = %v", err)
	}
	_, err = r.Resolve(context.Background(), "ABC-123")
	if !errors.Is(err, errors.ErrResolverUnreachable) {
		t.Errorf("Resolve() error = %v, want unreachable", err)
	}
	if !errors.IsRetryable(err) {
		t.Error("unreachable errors should be retryable")
	}
}

func TestHTTPResolver_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	r := newBillServer(t, func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Resolve(ctx, "ABC-123")
	if !errors.Is(err, errors.ErrResolverUnreachable) {
		t.Errorf("Resolve() error = %v, want unreachable", err)
	}
}

func TestNewHTTPResolver_RejectsRelativeURL(t *testing.T) {
	for _, in := range []string{"", "bills.local", "/bills"} {
		if _, err := NewHTTPResolver(in); !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("NewHTTPResolver(%q) error = %v, want invalid input", in, err)
		}
	}
}
