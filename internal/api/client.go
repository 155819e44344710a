package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"draftline/internal/domain"
)

// Client is the single channel to the drafting service. It attaches the
// bearer credential to every request and normalizes the project-collection
// trailing slash so callers can use either form.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 30 * time.Second,
	}
}

// SectionInput is one entry of a creation outline.
type SectionInput struct {
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Login exchanges credentials for an access token. The service expects a
// form-encoded body with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.roundTrip(req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, fullName, password string) error {
	body := map[string]any{
		"email":     email,
		"full_name": fullName,
		"password":  password,
	}
	return c.do(ctx, http.MethodPost, "/auth/register", body, nil)
}

// ListProjects returns the caller's projects.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var resp []domain.Project
	err := c.do(ctx, http.MethodGet, "/projects", nil, &resp)
	return resp, err
}

// CreateProject creates a project together with its initial ordered sections.
func (c *Client) CreateProject(ctx context.Context, title, topic, docType string, sections []SectionInput) (domain.ProjectDetail, error) {
	body := map[string]any{
		"title":    title,
		"topic":    topic,
		"doc_type": docType,
		"sections": sections,
	}
	var resp domain.ProjectDetail
	err := c.do(ctx, http.MethodPost, "/projects", body, &resp)
	return resp, err
}

// GetProject fetches a project with its sections.
func (c *Client) GetProject(ctx context.Context, id int64) (domain.ProjectDetail, error) {
	var resp domain.ProjectDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, &resp)
	return resp, err
}

// SuggestOutline asks the service for section titles for a topic.
func (c *Client) SuggestOutline(ctx context.Context, topic, docType string, itemCount int) ([]string, error) {
	body := map[string]any{
		"topic":      topic,
		"doc_type":   docType,
		"item_count": itemCount,
	}
	var resp struct {
		Titles []string `json:"titles"`
	}
	err := c.do(ctx, http.MethodPost, "/templates/outline", body, &resp)
	return resp.Titles, err
}

// Generate asks the service to populate section content for a project and
// returns the full updated detail.
func (c *Client) Generate(ctx context.Context, projectID int64, regenerate bool) (domain.ProjectDetail, error) {
	body := map[string]any{"regenerate": regenerate}
	var resp domain.ProjectDetail
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/generate", projectID), body, &resp)
	return resp, err
}

// RefineSection rewrites one section per the prompt and returns only that
// section.
func (c *Client) RefineSection(ctx context.Context, sectionID int64, prompt string) (domain.Section, error) {
	body := map[string]any{"prompt": prompt}
	var resp domain.Section
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sections/%d/refine", sectionID), body, &resp)
	return resp, err
}

// SetFeedback records a like/dislike on a section.
func (c *Client) SetFeedback(ctx context.Context, sectionID int64, value string) (domain.Section, error) {
	body := map[string]any{"value": value}
	var resp domain.Section
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sections/%d/feedback", sectionID), body, &resp)
	return resp, err
}

// AddComment attaches a comment to a section. The returned section carries it
// as last_comment; the service keeps only the most recent one.
func (c *Client) AddComment(ctx context.Context, sectionID int64, comment string) (domain.Section, error) {
	body := map[string]any{"comment": comment}
	var resp domain.Section
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/sections/%d/comment", sectionID), body, &resp)
	return resp, err
}

// Export downloads the binary artifact for a project in the given format and
// returns the bytes plus a suggested filename.
func (c *Client) Export(ctx context.Context, projectID int64, format string) ([]byte, string, error) {
	endpoint := fmt.Sprintf("/export/%d?format=%s", projectID, url.QueryEscape(format))
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, "", &ServiceError{Status: resp.StatusCode, Detail: decodeDetail(b)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &NetworkError{Err: err}
	}
	filename := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	return data, filename, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := c.newRequest(ctx, method, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.roundTrip(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base()+normalizePath(endpoint), body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) roundTrip(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &ServiceError{Status: resp.StatusCode, Detail: decodeDetail(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	return c.HTTPClient
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

// normalizePath appends the trailing slash the service requires on the
// project-collection endpoint.
func normalizePath(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	if endpoint == "/projects" {
		return "/projects/"
	}
	return endpoint
}

func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
