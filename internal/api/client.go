package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/tsb/internal/model"
	"github.com/Tiliavir/tsb/internal/session"
)

const (
	// DefaultCookieName is the name of the board's login session cookie.
	DefaultCookieName = "session"
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	renderPath = "/taskadmin/rendermd"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the board root, e.g. "https://board.example.org".
	BaseURL string
	// AdminUser selects the admin API of that user when > 0.
	AdminUser int
	// Session carries the stored credentials.
	Session session.Session
	// CookieName overrides DefaultCookieName.
	CookieName string
	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
	// HTTPClient is the transport to build on. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Logger receives per-request debug lines. Nil discards them.
	Logger *log.Logger
}

// Client talks to the board's timesheet and task-admin endpoints.
type Client struct {
	httpClient *http.Client
	base       *url.URL
	apiPath    string
	cookie     *http.Cookie
	logger     *log.Logger
}

// NewClient creates a board client. A stored bearer token is attached
// through an oauth2 transport; a stored session cookie is sent on every request.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("board base URL is not configured")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	if tok := opts.Session.Token; tok != nil && tok.AccessToken != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	} else {
		copied := *hc
		hc = &copied
	}
	hc.Timeout = DefaultTimeout
	if opts.Timeout > 0 {
		hc.Timeout = opts.Timeout
	}

	c := &Client{
		httpClient: hc,
		base:       base,
		apiPath:    "/timesheet/api",
		logger:     opts.Logger,
	}
	if opts.AdminUser > 0 {
		c.apiPath = fmt.Sprintf("/timesheet/admin/%d/api", opts.AdminUser)
	}
	if opts.Session.Cookie != "" {
		name := opts.CookieName
		if name == "" {
			name = DefaultCookieName
		}
		c.cookie = &http.Cookie{Name: name, Value: opts.Session.Cookie}
	}
	return c, nil
}

// Admin reports whether the client addresses a user's admin API.
func (c *Client) Admin() bool {
	return c.apiPath != "/timesheet/api"
}

// APIURL returns the absolute URL of the record list endpoint.
func (c *Client) APIURL() string {
	return c.endpoint(c.apiPath)
}

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *Client) recordURL(id int64) string {
	return c.endpoint(c.apiPath + "/" + strconv.FormatInt(id, 10))
}

// List fetches all records with their week aggregates.
func (c *Client) List(ctx context.Context) (model.RecordList, error) {
	_, body, err := c.do(ctx, http.MethodGet, c.APIURL(), nil, "")
	if err != nil {
		return model.RecordList{}, err
	}
	return decodeList(body)
}

// Add creates a record and returns the refreshed list. An application
// error reported by the board is returned as *ServerError.
func (c *Client) Add(ctx context.Context, rec model.NewRecord) (model.RecordList, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return model.RecordList{}, fmt.Errorf("encoding record: %w", err)
	}
	_, body, err := c.do(ctx, http.MethodPost, c.APIURL(), bytes.NewReader(payload), "application/json")
	if err != nil {
		return model.RecordList{}, err
	}
	list, err := decodeList(body)
	if err != nil {
		return model.RecordList{}, err
	}
	if list.IsError() {
		return model.RecordList{}, &ServerError{Message: list.Message}
	}
	return list, nil
}

// Delete removes an unapproved record.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, _, err := c.do(ctx, http.MethodDelete, c.recordURL(id), nil, "")
	return err
}

// SetApproved sets the approval flag of a record.
func (c *Client) SetApproved(ctx context.Context, id int64, approved bool) error {
	payload, err := json.Marshal(model.Approval{Approved: approved})
	if err != nil {
		return fmt.Errorf("encoding approval: %w", err)
	}
	_, _, err = c.do(ctx, http.MethodPut, c.recordURL(id), bytes.NewReader(payload), "application/json")
	return err
}

// RenderMarkdown posts raw markdown to the board and returns the HTML.
func (c *Client) RenderMarkdown(ctx context.Context, src string) (string, error) {
	_, body, err := c.do(ctx, http.MethodPost, c.endpoint(renderPath), strings.NewReader(src), "text/plain;charset=UTF-8")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Render implements preview.Renderer.
func (c *Client) Render(ctx context.Context, src string) (string, error) {
	return c.RenderMarkdown(ctx, src)
}

// do sends a request and returns the full body. Responses outside 2xx are
// reported as *StatusError.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("%s %s %s failed: %v", reqID, method, endpoint, err)
		return nil, nil, fmt.Errorf("board request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return resp, nil, fmt.Errorf("reading response body: %w", err)
	}
	c.logf("%s %s %s -> %d in %s", reqID, method, endpoint, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, data, &StatusError{Method: method, URL: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return resp, data, nil
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

func decodeList(body []byte) (model.RecordList, error) {
	var list model.RecordList
	if err := json.Unmarshal(body, &list); err != nil {
		return model.RecordList{}, fmt.Errorf("decoding board response: %w", err)
	}
	return list, nil
}
