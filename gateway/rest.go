package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"resolveai/utils"

	"go.uber.org/zap"
)

// Client is the single configured handle to the hosted backend. It
// implements Store for table operations and carries the auth sub-API.
// The backend owns storage, querying and auth; this client only speaks
// its REST wire contract and surfaces each failure once, without
// retrying.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
	logger  *zap.Logger

	mu       sync.RWMutex
	session  *Session
	onChange []func(*Session)
}

// New builds a client for the backend at baseURL. The anon key
// authenticates unauthenticated reads; signed-in requests carry the
// session token instead.
func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  utils.GetLogger(),
	}
}

// From starts a query against a named table.
func (c *Client) From(table string) *Query {
	return NewQuery(c, table)
}

// Execute implements Executor over the backend's REST table API.
func (c *Client) Execute(ctx context.Context, op Op, q *Query, body any, dest any) error {
	method := http.MethodGet
	switch op {
	case OpInsert:
		method = http.MethodPost
	case OpUpdate:
		method = http.MethodPatch
	case OpDelete:
		method = http.MethodDelete
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, q.Table())
	if params := q.params(); len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: failed to encode %s body: %w", q.Table(), err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("gateway: failed to build request: %w", err)
	}
	c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if op == OpInsert || op == OpUpdate {
		req.Header.Set("Prefer", "return=representation")
	}
	if q.IsSingle() {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %s %s failed: %w", method, q.Table(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("gateway: failed to read %s response: %w", q.Table(), err)
	}

	if resp.StatusCode >= 400 {
		return c.asError(q.Table(), resp.StatusCode, raw)
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("gateway: failed to decode %s response: %w", q.Table(), err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	token := c.anonKey
	if s := c.Session(); s != nil {
		token = s.AccessToken
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (c *Client) asError(table string, status int, raw []byte) error {
	// A single-row read with no match comes back 406 from the table API.
	if status == http.StatusNotAcceptable || status == http.StatusNotFound {
		return ErrNotFound
	}
	var remote remoteError
	_ = json.Unmarshal(raw, &remote)
	c.logger.Warn("gateway request failed",
		zap.String("table", table),
		zap.Int("status", status),
		zap.String("message", remote.text()),
	)
	return &APIError{Status: status, Message: remote.text()}
}
