package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/graphrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIngestor struct {
	lastKey   string
	lastOwner string
	err       error
}

func (s *stubIngestor) Submit(key, owner string) error {
	s.lastKey = key
	s.lastOwner = owner
	return s.err
}

type stubAnswerer struct {
	response   *core.QueryResponse
	references []core.Reference
	err        error
}

func (s *stubAnswerer) Answer(ctx context.Context, req *core.QueryRequest) (*core.QueryResponse, error) {
	return s.response, s.err
}

func (s *stubAnswerer) Retrieve(ctx context.Context, req *core.QueryRequest) ([]core.Reference, error) {
	return s.references, s.err
}

type stubLister struct {
	docs []core.Document
	err  error
}

func (s *stubLister) ListByOwner(ctx context.Context, owner string) ([]core.Document, error) {
	return s.docs, s.err
}

type serverFixture struct {
	ingestor *stubIngestor
	answerer *stubAnswerer
	lister   *stubLister
	server   *Server
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		ingestor: &stubIngestor{},
		answerer: &stubAnswerer{},
		lister:   &stubLister{},
	}

	srv, err := NewServer(f.ingestor, f.answerer, f.lister)
	require.NoError(t, err)
	f.server = srv
	return f
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	ingestor := &stubIngestor{}
	answerer := &stubAnswerer{}
	lister := &stubLister{}

	_, err := NewServer(nil, answerer, lister)
	assert.ErrorIs(t, err, ErrIngestorRequired)

	_, err = NewServer(ingestor, nil, lister)
	assert.ErrorIs(t, err, ErrAnswererRequired)

	_, err = NewServer(ingestor, answerer, nil)
	assert.ErrorIs(t, err, ErrListerRequired)
}

func TestIngest_Accepted(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/ingest", jsonBody{
		"key": "documents/ada@example.com/notes.txt",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "documents/ada@example.com/notes.txt", f.ingestor.lastKey)
	assert.Equal(t, "ada@example.com", f.ingestor.lastOwner, "owner derived from key")
}

func TestIngest_ExplicitOwner(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/ingest", jsonBody{
		"key":   "flat.txt",
		"owner": "ada@example.com",
	})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ada@example.com", f.ingestor.lastOwner)
}

func TestIngest_BadRequests(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/ingest", jsonBody{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Owner neither provided nor derivable.
	rec = f.do(t, http.MethodPost, "/v1/ingest", jsonBody{"key": "flat.txt"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngest_SchedulingFailure(t *testing.T) {
	f := newServerFixture(t)
	f.ingestor.err = errors.New("pool released")

	rec := f.do(t, http.MethodPost, "/v1/ingest", jsonBody{
		"key": "documents/ada@example.com/notes.txt",
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestQuery_Success(t *testing.T) {
	f := newServerFixture(t)
	f.answerer.response = &core.QueryResponse{
		Answer: "Paris.",
		References: []core.Reference{
			{Kind: core.ReferenceVector, Content: "Paris is the capital of France.", Score: 0.9, Source: "doc"},
		},
	}

	rec := f.do(t, http.MethodPost, "/v1/query", core.QueryRequest{
		Question: "What is the capital of France?",
		Owner:    "ada@example.com",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var response core.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "Paris.", response.Answer)
	require.Len(t, response.References, 1)
	assert.Equal(t, core.ReferenceVector, response.References[0].Kind)
}

func TestQuery_InternalErrorsDoNotLeak(t *testing.T) {
	f := newServerFixture(t)
	f.answerer.err = errors.New("qdrant node 10.0.3.7 connection refused")

	rec := f.do(t, http.MethodPost, "/v1/query", core.QueryRequest{
		Question: "anything",
		Owner:    "ada@example.com",
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.3.7")
}

func TestQuery_Validation(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/query", core.QueryRequest{Owner: "a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/query", core.QueryRequest{Question: "q"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRetrieve_Success(t *testing.T) {
	f := newServerFixture(t)
	f.answerer.references = []core.Reference{
		{Kind: core.ReferenceGraph, Content: "Paris -[is_capital_of]-> France"},
	}

	rec := f.do(t, http.MethodPost, "/v1/retrieve", core.QueryRequest{
		Question: "capital of France",
		Owner:    "ada@example.com",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		References []core.Reference `json:"references"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.References, 1)
	assert.Equal(t, core.ReferenceGraph, body.References[0].Kind)
}

func TestRetrieve_EmptyIsNotNull(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/retrieve", core.QueryRequest{
		Question: "unknown topic",
		Owner:    "ada@example.com",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"references":[]`)
}

func TestListDocuments(t *testing.T) {
	f := newServerFixture(t)
	f.lister.docs = []core.Document{
		{Key: "documents/ada@example.com/a.txt", Owner: "ada@example.com", Status: core.StatusReady},
		{Key: "documents/ada@example.com/b.txt", Owner: "ada@example.com", Status: core.StatusIndexing},
	}

	rec := f.do(t, http.MethodGet, "/v1/documents?owner=ada@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Documents []core.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Documents, 2)
	assert.Equal(t, core.StatusReady, body.Documents[0].Status)
}

func TestListDocuments_RequiresOwner(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/documents", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// jsonBody mirrors gin.H for request bodies without importing gin in tests.
type jsonBody = map[string]any
