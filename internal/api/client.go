// Package api is the REST collaborator behind every domain view. One
// Transport holds the connection settings; Client[T] binds it to a
// resource and implements engine.Backend[T].
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fedadmin/internal/engine"
	"fedadmin/internal/errs"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "fedadmin"

	// Response bodies larger than this are refused. Exports are the
	// largest payloads.
	maxBody = 64 << 20
)

// Options configures a Transport.
type Options struct {
	BaseURL   string
	Token     string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Transport performs authenticated JSON calls against <base>/api/v1.
type Transport struct {
	base  *url.URL
	token string
	agent string
	http  *http.Client
}

// New validates opts and returns a Transport.
func New(opts Options) (*Transport, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, errs.New(errs.CodeConfigInvalidValue, "api.base_url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errs.New(errs.CodeConfigInvalidValue, fmt.Sprintf("api.base_url %q is not an absolute URL", raw))
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	agent := opts.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	return &Transport{base: base, token: opts.Token, agent: agent, http: client}, nil
}

// BaseURL is the server root the transport talks to.
func (t *Transport) BaseURL() string { return t.base.String() }

func (t *Transport) endpoint(parts []string, query url.Values) string {
	u := *t.base
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, "api", "v1")
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.Join(escaped, "/")
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// call sends one request. body is JSON-encoded when non-nil. A 2xx answer
// is returned open; anything else becomes an *errs.RemoteError.
func (t *Transport) call(ctx context.Context, method string, parts []string, query url.Values, body any, header http.Header) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.endpoint(parts, query), reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.agent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		return nil, remoteError(resp)
	}
	return resp, nil
}

func (t *Transport) doJSON(ctx context.Context, method string, parts []string, query url.Values, body, dest any, header http.Header) error {
	resp, err := t.call(ctx, method, parts, query, body, header)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if dest == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(dest); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	return nil
}

// remoteError reads the backend's error body. Both {"message": "..."} and
// {"error": "..."} are understood; a plain-text body is used as-is.
func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(raw, &body) == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	} else if !strings.Contains(resp.Header.Get("Content-Type"), "html") {
		msg = string(raw)
	}
	return errs.NewRemote(resp.StatusCode, msg)
}

// Client is the backend of one resource.
type Client[T engine.Entity] struct {
	transport *Transport
	resource  string
}

// For binds t to resource, e.g. "users".
func For[T engine.Entity](t *Transport, resource string) *Client[T] {
	return &Client[T]{transport: t, resource: resource}
}

// Resource is the path segment the client talks to.
func (c *Client[T]) Resource() string { return c.resource }

func (c *Client[T]) List(ctx context.Context, q engine.ListQuery) (engine.Page[T], error) {
	query := q.Filter.Query()
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	var page engine.Page[T]
	if err := c.transport.doJSON(ctx, http.MethodGet, []string{c.resource}, query, nil, &page, nil); err != nil {
		return engine.Page[T]{}, fmt.Errorf("listing %s: %w", c.resource, err)
	}
	if page.Page == 0 {
		page.Page = q.Page
	}
	if page.PageSize == 0 {
		page.PageSize = q.PageSize
	}
	return page, nil
}

func (c *Client[T]) Detail(ctx context.Context, id int64) (T, error) {
	var item T
	if err := c.transport.doJSON(ctx, http.MethodGet, []string{c.resource, strconv.FormatInt(id, 10)}, nil, nil, &item, nil); err != nil {
		var zero T
		return zero, fmt.Errorf("loading %s %d: %w", c.resource, id, err)
	}
	return item, nil
}

func (c *Client[T]) UpdateStatus(ctx context.Context, id int64, t engine.Transition) (T, error) {
	var item T
	parts := []string{c.resource, strconv.FormatInt(id, 10), "status"}
	if err := c.transport.doJSON(ctx, http.MethodPatch, parts, nil, t, &item, nil); err != nil {
		var zero T
		return zero, fmt.Errorf("updating %s %d to %s: %w", c.resource, id, t.Status, err)
	}
	return item, nil
}

// BulkBody is the wire form of a bulk action.
type BulkBody struct {
	IDs     []int64         `json:"ids"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (c *Client[T]) Bulk(ctx context.Context, req engine.BulkMutationRequest) error {
	body := BulkBody{IDs: req.TargetIDs, Action: req.ActionID}
	if req.Payload != nil {
		raw, err := json.Marshal(req.Payload)
		if err != nil {
			return fmt.Errorf("encoding %s payload: %w", req.ActionID, err)
		}
		body.Payload = raw
	}
	header := http.Header{}
	if req.IdempotencyKey != "" {
		header.Set("Idempotency-Key", req.IdempotencyKey)
	}
	if err := c.transport.doJSON(ctx, http.MethodPost, []string{c.resource, "bulk"}, nil, body, nil, header); err != nil {
		return fmt.Errorf("%s on %d %s: %w", req.ActionID, len(req.TargetIDs), c.resource, err)
	}
	return nil
}

// NotifyBody is the wire form of a notification. Exactly one of IDs and
// RecipientClass is set.
type NotifyBody struct {
	IDs            []int64           `json:"ids,omitempty"`
	RecipientClass string            `json:"recipientClass,omitempty"`
	Filter         map[string]string `json:"filter,omitempty"`
	Subject        string            `json:"subject"`
	Body           string            `json:"body"`
}

func (c *Client[T]) Notify(ctx context.Context, req engine.NotifyRequest) error {
	body := NotifyBody{Subject: req.Subject, Body: req.Body}
	switch target := req.Target.(type) {
	case engine.Recipients:
		body.IDs = target.IDs
	case engine.RecipientClass:
		body.RecipientClass = target.Name
		body.Filter = req.Filter.Active()
	default:
		return fmt.Errorf("unsupported notification target %T", req.Target)
	}
	if err := c.transport.doJSON(ctx, http.MethodPost, []string{c.resource, "notify"}, nil, body, nil, nil); err != nil {
		return fmt.Errorf("notifying %s: %w", req.Target.Describe(), err)
	}
	return nil
}

func (c *Client[T]) Export(ctx context.Context, q engine.ExportQuery) (engine.ExportFile, error) {
	query := q.Filter.Query()
	query.Set("format", string(q.Format))
	resp, err := c.transport.call(ctx, http.MethodGet, []string{c.resource, "export"}, query, nil, nil)
	if err != nil {
		return engine.ExportFile{}, fmt.Errorf("exporting %s as %s: %w", c.resource, q.Format, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return engine.ExportFile{}, fmt.Errorf("reading %s export: %w", c.resource, err)
	}
	if len(data) > maxBody {
		return engine.ExportFile{}, fmt.Errorf("%s export exceeds %d MiB, narrow the filter", c.resource, maxBody>>20)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = q.Format.ContentType()
	}
	return engine.ExportFile{ContentType: contentType, Data: data}, nil
}
