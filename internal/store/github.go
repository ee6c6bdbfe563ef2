package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"predleague/engine/internal/metrics"
)

// GitHubStore implements Store against the GitHub repository contents API.
// Each document is a file in the repo; the file's blob SHA is the revision
// token, and GitHub enforces optimistic concurrency by rejecting a PUT whose
// SHA no longer matches HEAD.
type GitHubStore struct {
	baseURL    string
	token      string
	branch     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// GitHubConfig holds the settings needed to address one repository. BaseURL
// overrides the public API host, for GitHub Enterprise or tests.
type GitHubConfig struct {
	Token      string
	RepoOwner  string
	RepoName   string
	Branch     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// NewGitHubStore creates a store client for the configured repository.
func NewGitHubStore(cfg GitHubConfig) *GitHubStore {
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	apiHost := cfg.BaseURL
	if apiHost == "" {
		apiHost = "https://api.github.com"
	}

	return &GitHubStore{
		baseURL:    fmt.Sprintf("%s/repos/%s/%s/contents", apiHost, cfg.RepoOwner, cfg.RepoName),
		token:      cfg.Token,
		branch:     branch,
		maxRetries: maxRetries,
		retryDelay: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// contentsResponse is the subset of the contents API response we use.
type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// putRequest is the body of a contents API PUT.
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// Get fetches a document and its revision token.
func (s *GitHubStore) Get(ctx context.Context, path string) (*Document, error) {
	url := fmt.Sprintf("%s/%s?ref=%s", s.baseURL, path, s.branch)

	body, status, err := s.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		metrics.StoreCallsTotal.WithLabelValues("get", "error").Inc()
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var resp contentsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			metrics.StoreCallsTotal.WithLabelValues("get", "error").Inc()
			return nil, fmt.Errorf("failed to unmarshal contents response for %s: %w", path, err)
		}
		// The API wraps base64 content at 60 columns.
		raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
		if err != nil {
			metrics.StoreCallsTotal.WithLabelValues("get", "error").Inc()
			return nil, &DecodeError{Path: path, Err: err}
		}
		metrics.StoreCallsTotal.WithLabelValues("get", "ok").Inc()
		return &Document{Content: string(raw), Revision: resp.SHA}, nil

	case http.StatusNotFound:
		metrics.StoreCallsTotal.WithLabelValues("get", "not_found").Inc()
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)

	default:
		metrics.StoreCallsTotal.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("get %s: store returned status %d: %s", path, status, string(body))
	}
}

// Put writes a document. An empty revision creates the file; otherwise the
// revision must match the stored one or the store rejects the write.
func (s *GitHubStore) Put(ctx context.Context, path, content, revision, message string) (string, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, path)

	reqBody, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  s.branch,
		SHA:     revision,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal put request for %s: %w", path, err)
	}

	body, status, err := s.do(ctx, http.MethodPut, url, reqBody)
	if err != nil {
		metrics.StoreCallsTotal.WithLabelValues("put", "error").Inc()
		return "", err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		var resp putResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			metrics.StoreCallsTotal.WithLabelValues("put", "error").Inc()
			return "", fmt.Errorf("failed to unmarshal put response for %s: %w", path, err)
		}
		metrics.StoreCallsTotal.WithLabelValues("put", "ok").Inc()
		return resp.Content.SHA, nil

	case http.StatusConflict, http.StatusUnprocessableEntity:
		// 409 for a stale SHA, 422 for a create against an existing file.
		metrics.StoreCallsTotal.WithLabelValues("put", "conflict").Inc()
		metrics.StoreConflictsTotal.Inc()
		return "", fmt.Errorf("put %s: %w", path, ErrConflict)

	default:
		metrics.StoreCallsTotal.WithLabelValues("put", "error").Inc()
		return "", fmt.Errorf("put %s: store returned status %d: %s", path, status, string(body))
	}
}

// do performs one HTTP request with retry on transient failures. Conflict and
// not-found statuses are returned to the caller unretried; only network
// errors and retryable status codes re-enter the loop.
func (s *GitHubStore) do(ctx context.Context, method, url string, reqBody []byte) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s
			backoff := s.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying store request after backoff")

			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
		}

		var bodyReader io.Reader
		if reqBody != nil {
			bodyReader = bytes.NewReader(reqBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "token "+s.token)
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if reqBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := s.httpClient.Do(req)
		metrics.StoreCallDuration.WithLabelValues(strings.ToLower(method)).Observe(time.Since(start).Seconds())
		if err != nil {
			lastErr = fmt.Errorf("store request failed: %w", err)
			if attempt < s.maxRetries {
				continue
			}
			return nil, 0, lastErr
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			if attempt < s.maxRetries {
				continue
			}
			return nil, 0, lastErr
		}

		switch resp.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			lastErr = fmt.Errorf("store returned retryable status %d: %s", resp.StatusCode, string(body))
			if attempt < s.maxRetries {
				log.Warn().
					Str("url", url).
					Int("status", resp.StatusCode).
					Int("attempt", attempt+1).
					Msg("Received retryable error, will retry")
				continue
			}
			return nil, 0, lastErr

		default:
			return body, resp.StatusCode, nil
		}
	}

	return nil, 0, lastErr
}
