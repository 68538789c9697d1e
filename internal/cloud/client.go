package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to a cloud-save server on behalf of one player. It
// satisfies progress.Backend.
type Client struct {
	baseURL string
	player  string
	http    *http.Client
}

// NewClient returns a Client for player. A nil hc gets a client with a
// short timeout.
func NewClient(baseURL, player string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		player:  player,
		http:    hc,
	}
}

// Player returns the player ID this client writes for.
func (c *Client) Player() string { return c.player }

func (c *Client) dataURL() string {
	return c.baseURL + "/v1/players/" + url.PathEscape(c.player) + "/data"
}

func (c *Client) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	q := url.Values{"keys": {strings.Join(keys, ",")}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dataURL()+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get player data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}
	var env DataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode player data: %w", err)
	}
	if env.Data == nil {
		env.Data = map[string]json.RawMessage{}
	}
	return env.Data, nil
}

func (c *Client) Set(ctx context.Context, values map[string]json.RawMessage) error {
	body, err := json.Marshal(DataEnvelope{Data: values})
	if err != nil {
		return fmt.Errorf("encode player data: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.dataURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("put player data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

// StatusError is returned for non-success responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cloud: HTTP %d: %s", e.StatusCode, e.Message)
}

func responseError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body ErrorBody
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
