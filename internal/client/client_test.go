package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erpdesk/internal/document"
	ierr "erpdesk/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/api/", StaticToken(token), time.Second).WithHTTPClient(server.Client())
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}, " secret-token ")

	items, err := c.ListDocuments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/api/documents", gotPath)
}

func TestEmptyTokenSendsNoHeader(t *testing.T) {
	var sawHeader bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`[]`))
	}, "")

	_, err := c.ListInbox(context.Background())
	require.NoError(t, err)
	assert.False(t, sawHeader)
}

func TestMutationsSendContractBodies(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]any
	}
	var calls []call
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		calls = append(calls, call{r.Method, r.URL.Path, body})
		_, _ = w.Write([]byte(`{"id":"doc_1","status":"archived","assignee":"M. Hassan"}`))
	}, "")
	ctx := context.Background()

	_, err := c.CreateDocument(ctx, document.Draft{Title: "Invoice A", Type: document.TypeInvoice})
	require.NoError(t, err)
	archived, err := c.UpdateStatus(ctx, "doc_1", document.StatusArchived)
	require.NoError(t, err)
	assigned, err := c.Assign(ctx, "doc_1", "M. Hassan")
	require.NoError(t, err)

	require.Len(t, calls, 3)
	assert.Equal(t, call{http.MethodPost, "/api/documents", calls[0].body}, calls[0])
	assert.Equal(t, "Invoice A", calls[0].body["title"])
	assert.Equal(t, "invoice", calls[0].body["type"])
	assert.Equal(t, call{http.MethodPut, "/api/documents/doc_1", map[string]any{"status": "archived"}}, calls[1])
	assert.Equal(t, call{http.MethodPut, "/api/documents/doc_1/assign", map[string]any{"assignee": "M. Hassan"}}, calls[2])
	assert.Equal(t, document.StatusArchived, archived.Status)
	assert.Equal(t, "M. Hassan", assigned.Assignee)
}

func TestTrackAndSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/documents/doc_1/track":
			_, _ = w.Write([]byte(`{"status":"pending"}`))
		case "/api/documents":
			assert.Equal(t, "supply contract", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"results":[{"id":"doc_2"}],"total":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}, "")

	info, err := c.Track(context.Background(), "doc_1")
	require.NoError(t, err)
	assert.Equal(t, "pending", info.Status)

	results, err := c.Search(context.Background(), "supply contract")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc_2", results[0].ID)
}

func TestNotFoundIsAlsoTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"NOT_FOUND","error":"Not found"}`))
	}, "")

	_, err := c.GetDocument(context.Background(), "doc_gone")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
	assert.True(t, ierr.IsTransport(err))
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.Equal(t, "Not found", ierr.Hint(err))
}

func TestValidationResponseCarriesFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"VALIDATION_ERROR","error":"Please fill in: title","details":{"fields":["title"]}}`))
	}, "")

	_, err := c.CreateDocument(context.Background(), document.Draft{})
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.True(t, ierr.IsTransport(err))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, []string{"title"}, statusErr.Fields)
	assert.Equal(t, "Please fill in: title", ierr.Hint(err))
}

func TestInvalidTransitionIsMarked(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"INVALID_TRANSITION","error":"An archived document cannot become pending"}`))
	}, "")

	_, err := c.UpdateStatus(context.Background(), "doc_1", document.StatusPending)
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidTransition(err))
	assert.False(t, ierr.IsNotFound(err))
}

func TestServerErrorWithoutEnvelope(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}, "")

	_, err := c.ListDocuments(context.Background())
	require.Error(t, err)
	assert.True(t, ierr.IsTransport(err))
	assert.Equal(t, "bad gateway", ierr.Hint(err))
	assert.Equal(t, 1, calls, "failed calls are not retried")
}

func TestUnreachableStoreIsTransport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := New(baseURL, nil, time.Second).ListDocuments(context.Background())
	require.Error(t, err)
	assert.True(t, ierr.IsTransport(err))
	assert.False(t, ierr.IsNotFound(err))
	assert.Equal(t, "The document store is unreachable", ierr.Hint(err))
}

func TestUndecodableBodyIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}, "")
	_, err := c.GetDocument(context.Background(), "doc_1")
	require.Error(t, err)
	assert.True(t, ierr.IsTransport(err))
}

func TestCanceledContextIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListDocuments(ctx)
	require.Error(t, err)
	assert.True(t, ierr.IsTransport(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWithHTTPClientReachesTLSStore(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]document.InboxItem{{ID: "inbox-1", Title: "Batch"}})
	}))
	t.Cleanup(server.Close)

	_, err := New(server.URL, nil, time.Second).ListInbox(context.Background())
	require.Error(t, err, "default client does not trust the test certificate")
	assert.True(t, ierr.IsTransport(err))

	items, err := New(server.URL, nil, time.Second).WithHTTPClient(server.Client()).ListInbox(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "inbox-1", items[0].ID)
}
