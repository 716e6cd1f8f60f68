// Package github resolves the data version badge from the commit history of
// the data file.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/brewmap/internal/domain"
)

// ErrNoCommits is returned when the history of the data file is empty.
var ErrNoCommits = errors.New("no commit found for data file")

// Client queries the GitHub REST API for the latest commit touching a path.
type Client struct {
	http   *resty.Client
	repo   string
	path   string
	logger *slog.Logger
}

// NewClient creates a client for repo ("owner/name") and the file path inside it.
func NewClient(baseURL, repo, path string, timeout time.Duration, logger *slog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("X-GitHub-Api-Version", "2022-11-28")
	return &Client{http: rc, repo: repo, path: path, logger: logger}
}

// LatestCommit returns the version info of the newest commit touching the path.
func (c *Client) LatestCommit(ctx context.Context) (domain.VersionInfo, error) {
	var commits []commit
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"path":     c.path,
			"per_page": "1",
		}).
		SetResult(&commits).
		Get("/repos/" + c.repo + "/commits")
	if err != nil {
		return domain.VersionInfo{}, fmt.Errorf("commits request: %w", err)
	}
	if resp.IsError() {
		return domain.VersionInfo{}, fmt.Errorf("github API error: status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(commits) == 0 {
		return domain.VersionInfo{}, ErrNoCommits
	}
	return c.versionInfo(commits[0])
}

func (c *Client) versionInfo(cm commit) (domain.VersionInfo, error) {
	date := cm.Commit.Committer.Date
	if date == "" {
		date = cm.Commit.Author.Date
	}
	at, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return domain.VersionInfo{}, fmt.Errorf("parse commit date %q: %w", date, err)
	}

	sha := cm.SHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	url := cm.HTMLURL
	if url == "" {
		url = fmt.Sprintf("https://github.com/%s/commits/main/%s", c.repo, c.path)
	}
	return domain.VersionInfo{CommittedAt: at, ShortSHA: sha, URL: url}, nil
}

// GitHub API response types.

type commit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Author    signature `json:"author"`
		Committer signature `json:"committer"`
	} `json:"commit"`
}

type signature struct {
	Date string `json:"date"`
}
