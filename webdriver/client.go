// Package webdriver is a small client for a remote W3C WebDriver endpoint, such as a
// Selenium standalone server or grid. It covers only what the browser fixtures need: check
// that the remote end is up, start a session, load a page, read its title, and end the
// session.
package webdriver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/samplesuite/harness-fixtures/framework"
)

const statusPollInterval = time.Millisecond * 100

// Client talks to one remote WebDriver endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     framework.Logger
}

// Session is an active browser session on the remote end. It must be closed.
type Session struct {
	client    *Client
	id        string
	url       string
	closeOnce sync.Once
	closeErr  error
}

// NewClient creates a Client. The endpoint is the base URL of the remote end, for instance
// http://selenium:4444/wd/hub; a nil httpClient means http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client, logger framework.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Endpoint returns the base URL of the remote end.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Status queries the remote end's status resource once.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	if err := c.do(ctx, "GET", c.endpoint+"/status", nil, &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// AwaitReady polls the status resource until the remote end reports that it is ready, the
// timeout elapses, or ctx is done. The timeout also bounds each status request, so a remote
// end that accepts connections but never answers cannot block it. Progress dots are written
// to output.
func (c *Client) AwaitReady(ctx context.Context, timeout time.Duration, output io.Writer) (Status, error) {
	if output == nil {
		output = io.Discard
	}
	fmt.Fprintf(output, "Connecting to remote WebDriver at %s", c.endpoint)

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		fmt.Fprintf(output, ".")
		status, err := c.Status(waitCtx)
		if err == nil && status.Ready {
			fmt.Fprintln(output)
			return status, nil
		}
		if err == nil {
			err = fmt.Errorf("remote end is not ready: %s", status.Message)
		}
		if waitCtx.Err() == nil || lastErr == nil {
			lastErr = err
		}
		select {
		case <-waitCtx.Done():
			fmt.Fprintln(output)
			if ctx.Err() != nil {
				return Status{}, ctx.Err()
			}
			return Status{}, fmt.Errorf("timed out after %s, result of last query was: %w", timeout, lastErr)
		case <-ticker.C:
		}
	}
}

// NewSession asks the remote end to start a browser. The browser name is passed as the
// browserName capability.
func (c *Client) NewSession(ctx context.Context, browser string) (*Session, error) {
	params := newSessionParams{
		Capabilities: capabilitiesParams{
			AlwaysMatch: map[string]interface{}{"browserName": browser},
		},
	}
	c.logger.Printf("Creating %s session at %s", browser, c.endpoint)

	var resp response
	if err := c.doRaw(ctx, "POST", c.endpoint+"/session", params, &resp); err != nil {
		return nil, fmt.Errorf("creating %s session: %w", browser, err)
	}
	var value newSessionValue
	if len(resp.Value) > 0 {
		if err := json.Unmarshal(resp.Value, &value); err != nil {
			return nil, fmt.Errorf("malformed new session response: %s", string(resp.Value))
		}
	}
	id := value.SessionID
	if id == "" {
		id = resp.SessionID
	}
	if id == "" {
		return nil, errors.New("remote end did not return a session ID")
	}
	c.logger.Printf("Created session %s", id)

	return &Session{
		client: c,
		id:     id,
		url:    c.endpoint + "/session/" + id,
	}, nil
}

// ID returns the session ID assigned by the remote end.
func (s *Session) ID() string {
	return s.id
}

// Navigate loads the given URL and waits for the remote end to report that it has loaded.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.client.logger.Printf("Session %s: navigating to %s", s.id, url)
	return s.client.do(ctx, "POST", s.url+"/url", navigateParams{URL: url}, nil)
}

// Title returns the title of the current page.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.client.do(ctx, "GET", s.url+"/title", nil, &title); err != nil {
		return "", err
	}
	s.client.logger.Printf("Session %s: page title is %q", s.id, title)
	return title, nil
}

// Close ends the session. Only the first call sends a request; later calls return the same
// result.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.client.logger.Printf("Deleting session %s", s.id)
		s.closeErr = s.client.do(ctx, "DELETE", s.url, nil, nil)
	})
	return s.closeErr
}

// do sends a command and decodes the "value" member of the response into out, if out is
// not nil.
func (c *Client) do(ctx context.Context, method, url string, params interface{}, out interface{}) error {
	var resp response
	if err := c.doRaw(ctx, method, url, params, &resp); err != nil {
		return err
	}
	if out == nil || len(resp.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Value, out); err != nil {
		return fmt.Errorf("malformed response to %s %s: %s", method, url, string(resp.Value))
	}
	return nil
}

func (c *Client) doRaw(ctx context.Context, method, url string, params interface{}, out *response) error {
	var body io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if params != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response to %s %s: %w", method, url, err)
	}

	if resp.StatusCode >= 300 {
		wdErr := &Error{StatusCode: resp.StatusCode}
		var errResp response
		if json.Unmarshal(data, &errResp) == nil && len(errResp.Value) > 0 {
			_ = json.Unmarshal(errResp.Value, wdErr)
		}
		return wdErr
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed response to %s %s: %s", method, url, string(data))
	}
	return nil
}
