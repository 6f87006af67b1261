package utils

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
)

// ErrInvalidResponse is returned when a 2xx body is not the expected JSON.
var ErrInvalidResponse = errors.New("invalid JSON response")

// maxErrorBody bounds how much of a failed response is kept for error text.
const maxErrorBody = 4 << 10

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Status, e.Body)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
}

// API is a small JSON-over-HTTP helper bound to one base URL. Prepare, when
// set, runs on every request before it is sent (auth and CSRF headers).
type API struct {
	client  *http.Client
	baseURL string
	Prepare func(ctx context.Context, req *http.Request) error
}

func NewAPI(baseURL string, client *http.Client) *API {
	if client == nil {
		client = http.DefaultClient
	}
	return &API{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *API) BaseURL() string {
	return a.baseURL
}

func (a *API) Client() *http.Client {
	return a.client
}

// URL joins path onto the base URL, escaping each path segment.
func (a *API) URL(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return a.baseURL + "/" + strings.Join(segments, "/")
}

// Do sends req and returns the body of a 2xx response.
func (a *API) Do(ctx context.Context, req *http.Request) ([]byte, error) {
	if a.Prepare != nil {
		if err := a.Prepare(ctx, req); err != nil {
			return nil, err
		}
	}

	resp, err := a.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method: req.Method,
			Path:   req.URL.Path,
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return io.ReadAll(resp.Body)
}

// Get fetches path and returns the raw body.
func (a *API) Get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequest("GET", a.URL(path), nil)
	if err != nil {
		return nil, err
	}
	return a.Do(ctx, req)
}

// GetJSON fetches path and decodes the JSON body into v.
func (a *API) GetJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequest("GET", a.URL(path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	body, err := a.Do(ctx, req)
	if err != nil {
		return err
	}
	return decode(body, v)
}

// PostJSON sends in as a JSON body and decodes the response into out when out is non-nil.
func (a *API) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequest("POST", a.URL(path), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	body, err := a.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(body, out)
}

// PostForm sends a prepared multipart (or other) body with its content type.
func (a *API) PostForm(ctx context.Context, path, contentType string, form io.Reader) ([]byte, error) {
	req, err := http.NewRequest("POST", a.URL(path), form)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	return a.Do(ctx, req)
}

func decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
