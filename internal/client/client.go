// Package client talks to the document store over HTTP.
package client

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

	"erpdesk/internal/document"
	ierr "erpdesk/internal/errors"
)

const maxResponseBytes = 8 << 20

// Client calls the document store. Every error it returns is marked
// ErrTransport; failed calls are never retried.
type Client struct {
	baseURL     string
	credentials CredentialSource
	http        *http.Client
}

// New builds a client for baseURL, e.g. http://localhost:8788/api. A nil
// credential source sends no Authorization header.
func New(baseURL string, credentials CredentialSource, timeout time.Duration) *Client {
	if credentials == nil {
		credentials = StaticToken("")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
		http:        &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the underlying http.Client, e.g. for tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.http = httpClient
	return c
}

func (c *Client) ListDocuments(ctx context.Context) ([]document.Document, error) {
	var items []document.Document
	if err := c.do(ctx, http.MethodGet, "/documents", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateDocument(ctx context.Context, draft document.Draft) (document.Document, error) {
	var created document.Document
	err := c.do(ctx, http.MethodPost, "/documents", draft, &created)
	return created, err
}

func (c *Client) GetDocument(ctx context.Context, id string) (document.Document, error) {
	var item document.Document
	err := c.do(ctx, http.MethodGet, documentPath(id), nil, &item)
	return item, err
}

// UpdateStatus persists a status change; archiving is UpdateStatus(id, archived).
func (c *Client) UpdateStatus(ctx context.Context, id string, status document.Status) (document.Document, error) {
	var item document.Document
	body := map[string]string{"status": string(status)}
	err := c.do(ctx, http.MethodPut, documentPath(id), body, &item)
	return item, err
}

func (c *Client) Assign(ctx context.Context, id, assignee string) (document.Document, error) {
	var item document.Document
	body := map[string]string{"assignee": assignee}
	err := c.do(ctx, http.MethodPut, documentPath(id)+"/assign", body, &item)
	return item, err
}

func (c *Client) Track(ctx context.Context, id string) (document.TrackInfo, error) {
	var info document.TrackInfo
	err := c.do(ctx, http.MethodGet, documentPath(id)+"/track", nil, &info)
	return info, err
}

func (c *Client) ListInbox(ctx context.Context) ([]document.InboxItem, error) {
	var items []document.InboxItem
	if err := c.do(ctx, http.MethodGet, "/inbox", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Search runs a store-side search over document metadata.
func (c *Client) Search(ctx context.Context, query string) ([]document.Document, error) {
	var resp struct {
		Results []document.Document `json:"results"`
	}
	path := "/documents?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func documentPath(id string) string {
	return "/documents/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return ierr.WithError(err).
				WithHint("The request could not be encoded").
				Mark(ierr.ErrTransport)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return ierr.WithError(err).
			WithHint("The document store address is invalid").
			Mark(ierr.ErrTransport)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.credentials.Token(ctx)
	if err != nil {
		return ierr.WithError(err).
			WithHint("No credential is available for the document store").
			Mark(ierr.ErrTransport)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ierr.WithError(err).
			WithHint("The document store is unreachable").
			Mark(ierr.ErrTransport)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ierr.WithError(err).
			WithHint("The document store response was interrupted").
			Mark(ierr.ErrTransport)
	}

	if resp.StatusCode >= 400 {
		return newStatusError(resp.StatusCode, respBody)
	}
	if target == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, target); err != nil {
		return ierr.WithError(fmt.Errorf("decode %s %s: %w", method, path, err)).
			WithHint("The document store sent an unreadable response").
			Mark(ierr.ErrTransport)
	}
	return nil
}
