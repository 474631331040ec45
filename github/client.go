package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Sentinel errors distinguishing the upstream failure modes. Not-found
// and bad-credential are permanent for a given user; rate-limited is
// transient and the user is retried on a later invocation.
var (
	ErrUserNotFound   = errors.New("github user not found")
	ErrBadCredentials = errors.New("github credentials rejected")
	ErrRateLimited    = errors.New("github rate limit exceeded")
)

// Event is one entry from a user's public activity stream
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      Repo      `json:"repo"`
	Payload   Payload   `json:"payload"`
}

// Repo identifies the repository an event occurred in
type Repo struct {
	Name string `json:"name"` // "owner/name"
}

// Payload carries the kind-specific event details we care about.
// Unknown fields are ignored during decoding.
type Payload struct {
	Size    int      `json:"size"` // push commit-count hint, may be zero
	Action  string   `json:"action"`
	Commits []Commit `json:"commits"` // push commit list, may be truncated or empty
}

// Commit is the abbreviated commit record embedded in a push event
type Commit struct {
	SHA     string `json:"sha"`
	Message string `json:"message"`
}

// RepoCommit is a commit fetched from the repository commits API,
// used for per-day enrichment detail.
type RepoCommit struct {
	SHA     string
	Message string
	Date    time.Time
	Files   []string
}

// Client talks to the GitHub REST API. It holds no mutable state and
// never writes anywhere; every method is a single bounded round trip.
type Client struct {
	baseURL    string
	httpClient *http.Client
	perPage    int
}

// NewClient creates a GitHub API client. baseURL is overridable for tests.
func NewClient(baseURL string, perPage int) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		perPage:    perPage,
	}
}

// ListUserEvents fetches one page of a user's public activity events.
// Page numbering starts at 1.
func (c *Client) ListUserEvents(ctx context.Context, username, token string, page int) ([]Event, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events?per_page=%d&page=%d",
		c.baseURL, url.PathEscape(username), c.perPage, page)

	body, err := c.get(ctx, endpoint, token, username)
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events for %s: %w", username, err)
	}

	return events, nil
}

// ListRepoCommits fetches the commits authored in [since, until) on one
// repository, for per-day summary enrichment.
func (c *Client) ListRepoCommits(ctx context.Context, owner, repo, token string, since, until time.Time) ([]RepoCommit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d&since=%s&until=%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), c.perPage,
		url.QueryEscape(since.UTC().Format(time.RFC3339)),
		url.QueryEscape(until.UTC().Format(time.RFC3339)))

	body, err := c.get(ctx, endpoint, token, owner+"/"+repo)
	if err != nil {
		return nil, err
	}

	var raw []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode commits for %s/%s: %w", owner, repo, err)
	}

	commits := make([]RepoCommit, 0, len(raw))
	for _, r := range raw {
		commits = append(commits, RepoCommit{
			SHA:     r.SHA,
			Message: r.Commit.Message,
			Date:    r.Commit.Author.Date,
		})
	}

	return commits, nil
}

// GetCommit fetches the full detail of one commit, including the list
// of changed files.
func (c *Client) GetCommit(ctx context.Context, owner, repo, token, sha string) (*RepoCommit, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/commits/%s",
		c.baseURL, url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))

	body, err := c.get(ctx, endpoint, token, owner+"/"+repo)
	if err != nil {
		return nil, err
	}

	var raw struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
		Files []struct {
			Filename string `json:"filename"`
		} `json:"files"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode commit %s: %w", sha, err)
	}

	commit := &RepoCommit{
		SHA:     raw.SHA,
		Message: raw.Commit.Message,
		Date:    raw.Commit.Author.Date,
	}
	for _, f := range raw.Files {
		commit.Files = append(commit.Files, f.Filename)
	}

	return commit, nil
}

func (c *Client) get(ctx context.Context, endpoint, token, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", subject, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed for %s: %w", subject, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", subject, ErrUserNotFound)
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", subject, ErrBadCredentials)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%s: %w", subject, ErrRateLimited)
	case http.StatusForbidden:
		if isRateLimited(resp) {
			return nil, fmt.Errorf("%s: %w", subject, ErrRateLimited)
		}
		return nil, fmt.Errorf("%s: %w", subject, ErrBadCredentials)
	default:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, subject)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", subject, err)
	}

	return body, nil
}

// isRateLimited distinguishes a 403 caused by rate limiting from one
// caused by missing scopes.
func isRateLimited(resp *http.Response) bool {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return false
	}
	n, err := strconv.Atoi(remaining)
	return err == nil && n <= 0
}
