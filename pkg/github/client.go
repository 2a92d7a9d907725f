package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"resume-assistant-be/internal/entity"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL = "https://api.github.com"

	MaxRepositories = 10
	MaxReadmeBytes  = 2000

	readmeConcurrency = 4
	userAgent         = "resume-assistant-be"
)

var (
	ErrInvalidUsername = errors.New("github: invalid username")
	ErrUserNotFound    = errors.New("github: user not found")
)

// GitHub logins: alphanumerics and single hyphens, at most 39 characters.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

// Fetcher loads the public repositories of a GitHub user.
type Fetcher interface {
	FetchRepositories(ctx context.Context, username string) ([]entity.GithubRepository, error)
}

type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

var _ Fetcher = &Client{}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type apiRepository struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Language    string     `json:"language"`
	Stars       int        `json:"stargazers_count"`
	Forks       int        `json:"forks_count"`
	HtmlUrl     string     `json:"html_url"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// FetchRepositories returns the most recently updated repositories of username,
// at most MaxRepositories, each with a README excerpt. A repository without a
// readable README keeps its description as the excerpt.
func (c *Client) FetchRepositories(ctx context.Context, username string) ([]entity.GithubRepository, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	listURL := fmt.Sprintf("%s/users/%s/repos?sort=updated&per_page=%d", c.BaseURL, url.PathEscape(username), MaxRepositories)
	resp, err := c.get(ctx, listURL, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("github: list repositories: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("github: list repositories: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listed []apiRepository
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("github: decode repositories: %w", err)
	}
	if len(listed) > MaxRepositories {
		listed = listed[:MaxRepositories]
	}

	repos := make([]entity.GithubRepository, len(listed))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(readmeConcurrency)

	for i, r := range listed {
		repos[i] = entity.GithubRepository{
			Name:        r.Name,
			Description: r.Description,
			Language:    r.Language,
			Stars:       r.Stars,
			Forks:       r.Forks,
			HtmlUrl:     r.HtmlUrl,
			UpdatedAt:   r.UpdatedAt,
			Readme:      r.Description,
		}

		eg.Go(func() error {
			readme, err := c.readme(egCtx, username, r.Name)
			if err != nil {
				// a missing README is not fatal, a cancelled fetch is
				if ctxErr := egCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				return nil
			}
			if readme != "" {
				repos[i].Readme = readme
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("github: fetch readmes: %w", err)
	}
	return repos, nil
}

func (c *Client) readme(ctx context.Context, owner, repo string) (string, error) {
	readmeURL := fmt.Sprintf("%s/repos/%s/%s/readme", c.BaseURL, url.PathEscape(owner), url.PathEscape(repo))
	resp, err := c.get(ctx, readmeURL, "application/vnd.github.raw")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("readme %s/%s: status %d", owner, repo, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxReadmeBytes))
	if err != nil {
		return "", err
	}
	// the byte cut may split a rune
	return strings.ToValidUTF8(string(body), ""), nil
}

func (c *Client) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}
