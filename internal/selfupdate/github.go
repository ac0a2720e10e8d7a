package selfupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// DefaultAPIURL is the public GitHub REST API.
	DefaultAPIURL = "https://api.github.com"

	// maxJSONResponseBytes bounds the release metadata we are willing to decode.
	maxJSONResponseBytes = 10 << 20
)

// Archive kinds offered by a GitHub release.
const (
	ArchiveZipball = "zipball"
	ArchiveTarball = "tarball"
)

// ReleaseInfo is the subset of a GitHub release offdroid needs.
type ReleaseInfo struct {
	TagName    string
	Body       string
	HTMLURL    string
	ZipballURL string
	TarballURL string

	// ArchiveURL is the source archive selected by the client's archive kind.
	ArchiveURL string
}

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Body       string `json:"body"`
	HTMLURL    string `json:"html_url"`
	ZipballURL string `json:"zipball_url"`
	TarballURL string `json:"tarball_url"`
}

// Client queries the GitHub releases API of a single repository.
type Client struct {
	httpClient *http.Client
	owner      string
	repo       string
	baseURL    string
	token      string
	userAgent  string
	archive    string
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		if base != "" {
			g.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithRepo overrides the repository owner and name.
func WithRepo(owner, repo string) ClientOption {
	return func(g *Client) {
		g.owner = owner
		g.repo = repo
	}
}

// WithToken sets a token sent as a bearer credential to the API host.
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithArchive selects the zipball or tarball source archive.
func WithArchive(kind string) ClientOption {
	return func(g *Client) {
		g.archive = kind
	}
}

// NewClient creates a Client for retoro-sen/offdroid-update-manager on github.com
// unless overridden by options.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		owner:      "retoro-sen",
		repo:       "offdroid-update-manager",
		baseURL:    DefaultAPIURL,
		userAgent:  "offdroid/dev",
		archive:    ArchiveZipball,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Owner returns the repository owner.
func (c *Client) Owner() string { return c.owner }

// Repo returns the repository name.
func (c *Client) Repo() string { return c.repo }

// ManualURL is the page users can download a release from by hand.
func (c *Client) ManualURL() string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/latest", c.owner, c.repo)
}

// LatestRelease fetches the latest published release. Every failure, including
// non-200 responses and undecodable bodies, is reported as an *UnreachableError.
func (c *Client) LatestRelease(ctx context.Context) (*ReleaseInfo, error) {
	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, &UnreachableError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UnreachableError{URL: reqURL, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var gr githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&gr); err != nil {
		return nil, &UnreachableError{URL: reqURL, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if gr.TagName == "" {
		return nil, &UnreachableError{URL: reqURL, Err: fmt.Errorf("release has no tag_name")}
	}

	info := &ReleaseInfo{
		TagName:    gr.TagName,
		Body:       gr.Body,
		HTMLURL:    gr.HTMLURL,
		ZipballURL: gr.ZipballURL,
		TarballURL: gr.TarballURL,
	}
	info.ArchiveURL = gr.ZipballURL
	if c.archive == ArchiveTarball || info.ArchiveURL == "" {
		info.ArchiveURL = gr.TarballURL
	}
	return info, nil
}

// Fetch issues a GET for an archive URL. The caller closes the body.
func (c *Client) Fetch(ctx context.Context, archiveURL string) (*http.Response, error) {
	resp, err := c.doRequest(ctx, archiveURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", archiveURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("downloading %s: unexpected status %d", archiveURL, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" && strings.HasPrefix(reqURL, c.baseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}
