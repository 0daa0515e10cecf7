package bill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Iron-Ham/solarsizer/internal/errors"
)

// DefaultHTTPTimeout bounds a single lookup when the caller's context has no
// deadline of its own.
const DefaultHTTPTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// HTTPResolver fetches records from GET {BaseURL}/bills/{reference}.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// HTTPOption configures an HTTPResolver.
type HTTPOption func(*HTTPResolver)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(r *HTTPResolver) {
		r.client = c
	}
}

// NewHTTPResolver returns a resolver for the lookup service at baseURL.
func NewHTTPResolver(baseURL string, opts ...HTTPOption) (*HTTPResolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewValidationError("bill lookup base URL must be absolute").
			WithField("resolver.base_url").WithValue(baseURL).WithCause(err)
	}
	r := &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve implements Resolver.
func (r *HTTPResolver) Resolve(ctx context.Context, reference string) (Record, error) {
	endpoint := r.baseURL + "/bills/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Record{}, errors.NewResolutionError(errors.MalformedReference, reference, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Record{}, errors.NewResolutionError(errors.Unreachable, reference, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Record{}, errors.NewResolutionError(errors.Unreachable, reference, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return Record{}, errors.NewResolutionError(errors.UnknownReference, reference, nil).
			WithSuggestion(suggestionFrom(body))
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return Record{}, errors.NewResolutionError(errors.MalformedReference, reference, nil)
	default:
		return Record{}, errors.NewResolutionError(errors.Unreachable, reference,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return Record{}, errors.NewMalformedRecordError("body", nil, "is not valid JSON").
			WithReference(reference)
	}
	return rec, nil
}

// errorBody is the JSON shape the bill server uses for failures.
type errorBody struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func suggestionFrom(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) != nil {
		return ""
	}
	return eb.Suggestion
}
