package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/reel"
	"github.com/rs/zerolog"
)

// Interface compliance check.
var _ reel.API = (*Client)(nil)

// Client implements [reel.API] for the reel backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     reel.TokenStore
	logger     zerolog.Logger

	// refreshMu collapses concurrent 401s into a single refresh.
	refreshMu sync.Mutex
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger for refresh attempts and HTTP failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a [Client] that authenticates with tokens from ts. A nil ts
// sends every request anonymously.
func New(ts reel.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		tokens:     ts,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SignIn exchanges a Google ID token for a backend token pair and stores it.
func (c *Client) SignIn(ctx context.Context, idToken string) (reel.Tokens, error) {
	var out apiTokens
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   signInPath,
		body:   map[string]string{"idToken": idToken},
		out:    &out,
		anon:   true,
	})
	if err != nil {
		return reel.Tokens{}, err
	}
	if out.AccessToken == "" {
		return reel.Tokens{}, fmt.Errorf("backend: sign-in returned no access token: %w", reel.ErrValidation)
	}
	t := reel.Tokens{Access: out.AccessToken, Refresh: out.RefreshToken}
	if c.tokens != nil {
		if err := c.tokens.SetTokens(ctx, t); err != nil {
			return reel.Tokens{}, fmt.Errorf("backend: store tokens: %w", err)
		}
	}
	return t, nil
}

// CurrentUser returns the signed-in user.
func (c *Client) CurrentUser(ctx context.Context) (reel.User, error) {
	var out struct {
		User *apiUser `json:"user"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: userPath, out: &out}); err != nil {
		return reel.User{}, err
	}
	if out.User == nil {
		return reel.User{}, fmt.Errorf("backend: user: %w", reel.ErrNotFound)
	}
	u := convertUser(*out.User)
	if err := u.Validate(); err != nil {
		return reel.User{}, fmt.Errorf("backend: %w", err)
	}
	return u, nil
}

// Onboard records the user's preferred weekly frequency.
func (c *Client) Onboard(ctx context.Context, frequency int) error {
	if frequency < reel.MinFrequency || frequency > reel.MaxFrequency {
		return fmt.Errorf("frequency must be in [%d, %d], got %d: %w", reel.MinFrequency, reel.MaxFrequency, frequency, reel.ErrValidation)
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   onboardPath,
		body:   map[string]int{"frequency": frequency},
	})
}

// CreateProject creates a project and returns it as stored by the backend.
func (c *Client) CreateProject(ctx context.Context, in reel.ProjectInput) (reel.Project, error) {
	if err := in.Validate(); err != nil {
		return reel.Project{}, err
	}
	var out struct {
		Project apiProject `json:"project"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   projectPath,
		body:   apiProjectInput{Frequency: in.Frequency, Category: string(in.Category), Name: in.Name},
		out:    &out,
	})
	if err != nil {
		return reel.Project{}, err
	}
	p := convertProject(out.Project)
	if p.Name == "" {
		p.Name = in.Name
	}
	if err := p.Validate(); err != nil {
		return reel.Project{}, fmt.Errorf("backend: %w", err)
	}
	return p, nil
}

// ListStories returns the stories generated for a project.
func (c *Client) ListStories(ctx context.Context, projectID string) ([]reel.Story, error) {
	var out struct {
		Stories []apiStory `json:"stories"`
	}
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   storiesPath,
		query:  url.Values{"projectId": {projectID}},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	stories := make([]reel.Story, len(out.Stories))
	for i, s := range out.Stories {
		stories[i] = convertStory(s)
		if err := stories[i].Validate(); err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
	}
	return stories, nil
}

// CreateStory asks the backend to generate and store a script in one
// request, without streaming.
func (c *Client) CreateStory(ctx context.Context, req reel.GenerateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   storiesPath,
		body:   convertPromptRequest(req),
	})
}

// Trends returns trending videos for a region.
func (c *Client) Trends(ctx context.Context, q reel.TrendsQuery) (reel.Trends, error) {
	q = q.WithDefaults()
	var out struct {
		Trends []apiVideo `json:"trends"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   trendsPath,
		body:   apiTrendsRequest{RegionCode: q.RegionCode, MaxResults: q.MaxResults, CategoryID: q.CategoryID},
		out:    &out,
	})
	if err != nil {
		return reel.Trends{}, err
	}
	videos := make([]reel.Video, len(out.Trends))
	for i, v := range out.Trends {
		videos[i] = convertVideo(v)
		if err := videos[i].Validate(); err != nil {
			return reel.Trends{}, fmt.Errorf("backend: %w", err)
		}
	}
	return reel.Trends{Videos: videos}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	anon   bool
}

// do sends r, refreshing the access token once on 401, and decodes the
// envelope's data into r.out.
func (c *Client) do(ctx context.Context, r request) error {
	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return fmt.Errorf("backend: %w", err)
		}
	}

	var token string
	if !r.anon {
		var err error
		if token, err = c.accessToken(ctx); err != nil {
			return err
		}
	}

	resp, err := c.send(ctx, r, payload, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && !r.anon && c.tokens != nil {
		drain(resp)
		if token, err = c.refresh(ctx, token); err != nil {
			return err
		}
		if resp, err = c.send(ctx, r, payload, token); err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			c.clearTokens(ctx)
			return fmt.Errorf("backend: %s %s: %w", r.method, r.path, reel.ErrUnauthorized)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := parseHTTPError(resp)
		c.logger.Debug().Err(err).Str("method", r.method).Str("path", r.path).Msg("backend request failed")
		return err
	}
	return decodeEnvelope(resp.Body, r.out)
}

func (c *Client) send(ctx context.Context, r request, payload []byte, token string) (*http.Response, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", contentType)
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return resp, nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("backend: read access token: %w", err)
	}
	return token, nil
}

// refresh trades the stored refresh token for a new pair. stale is the
// access token that was rejected; when another request already replaced
// it the stored token is reused without a second refresh.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current, err := c.tokens.AccessToken(ctx); err == nil && current != "" && current != stale {
		return current, nil
	}

	rt, err := c.tokens.RefreshToken(ctx)
	if err != nil || rt == "" {
		c.logger.Info().Msg("no refresh token, signing out")
		c.clearTokens(ctx)
		return "", fmt.Errorf("backend: %w", reel.ErrUnauthorized)
	}

	c.logger.Debug().Msg("refreshing access token")
	var out apiTokens
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   refreshPath,
		body:   map[string]string{"refreshToken": rt},
		out:    &out,
		anon:   true,
	})
	if err != nil || out.AccessToken == "" {
		c.logger.Warn().Err(err).Msg("token refresh failed, signing out")
		c.clearTokens(ctx)
		return "", fmt.Errorf("backend: refresh: %w", reel.ErrUnauthorized)
	}
	if out.RefreshToken == "" {
		out.RefreshToken = rt
	}
	if err := c.tokens.SetTokens(ctx, reel.Tokens{Access: out.AccessToken, Refresh: out.RefreshToken}); err != nil {
		return "", fmt.Errorf("backend: store tokens: %w", err)
	}
	return out.AccessToken, nil
}

func (c *Client) clearTokens(ctx context.Context) {
	if err := c.tokens.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("clear tokens")
	}
}

func decodeEnvelope(r io.Reader, out any) error {
	var env apiEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return fmt.Errorf("backend: %s", msg)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("backend: decode data: %w", err)
	}
	return nil
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	msg := string(bytes.TrimSpace(body))
	var env apiEnvelope
	if json.Unmarshal(body, &env) == nil && env.Message != "" {
		msg = env.Message
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("backend: HTTP %d: %s: %w", resp.StatusCode, msg, reel.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("backend: HTTP %d: %s: %w", resp.StatusCode, msg, reel.ErrNotFound)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("backend: HTTP %d: %s: %w", resp.StatusCode, msg, reel.ErrValidation)
	default:
		return fmt.Errorf("backend: HTTP %d: %s", resp.StatusCode, msg)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
