package ingestion

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/storage"
)

// fakeObjectStore is an in-memory storage.ObjectStore for tests.
type fakeObjectStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	statuses map[string]core.DocumentStatus
	history  map[string][]core.DocumentStatus
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects:  make(map[string][]byte),
		statuses: make(map[string]core.DocumentStatus),
		history:  make(map[string][]core.DocumentStatus),
	}
}

func (f *fakeObjectStore) put(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.statuses[key] = core.StatusUploaded
}

func (f *fakeObjectStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return data, nil
}

func (f *fakeObjectStore) SetStatus(ctx context.Context, key string, status core.DocumentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[key] = status
	f.history[key] = append(f.history[key], status)
	return nil
}

func (f *fakeObjectStore) GetStatus(ctx context.Context, key string) (core.DocumentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	status, ok := f.statuses[key]
	if !ok {
		return "", storage.ErrStatusUnset
	}
	return status, nil
}

func (f *fakeObjectStore) ListByOwner(ctx context.Context, owner string) ([]core.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var docs []core.Document
	for key, status := range f.statuses {
		docs = append(docs, core.Document{Key: key, Owner: owner, Status: status})
	}
	return docs, nil
}

func (f *fakeObjectStore) Close() error { return nil }

// fakeVectorStore keeps records in a map keyed by chunk ID, matching the
// idempotent upsert contract of real stores.
type fakeVectorStore struct {
	mu      sync.Mutex
	records map[core.ID]core.EmbeddingRecord
	upserts int
	failErr error
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{records: make(map[core.ID]core.EmbeddingRecord)}
}

func (f *fakeVectorStore) Upsert(ctx context.Context, owner string, records []core.EmbeddingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	f.upserts++
	for _, r := range records {
		f.records[r.ChunkID] = r
	}
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, owner string, vector []float32, topK int) ([]core.VectorMatch, error) {
	return nil, nil
}

func (f *fakeVectorStore) Close() error { return nil }

func (f *fakeVectorStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeGraphStore records merged triples.
type fakeGraphStore struct {
	mu      sync.Mutex
	triples []core.Triple
	failErr error
}

func newFakeGraphStore() *fakeGraphStore {
	return &fakeGraphStore{}
}

func (f *fakeGraphStore) MergeTriples(ctx context.Context, triples []core.Triple) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return 0, f.failErr
	}
	f.triples = append(f.triples, triples...)
	return len(triples), nil
}

func (f *fakeGraphStore) Predicates(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeGraphStore) ReadQuery(ctx context.Context, query string) ([]core.GraphFact, error) {
	return nil, nil
}

func (f *fakeGraphStore) Close(ctx context.Context) error { return nil }
