// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so identical content
// produces identical IDs across ingestion runs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as its decimal form, matching how external
// stores key it.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// DocumentStatus is the processing lifecycle state of a document.
// It is stored as an object tag on the document in external storage.
type DocumentStatus string

const (
	// StatusUploaded is set by the storage layer when the document lands,
	// before the pipeline has seen it.
	StatusUploaded DocumentStatus = "uploaded"
	// StatusIndexing is set when the pipeline starts processing.
	StatusIndexing DocumentStatus = "indexing"
	// StatusReady is set when the embedding upsert and the best-effort
	// graph merge have both completed without fatal error.
	StatusReady DocumentStatus = "ready"
	// StatusFailed is set when the embedding branch fails fatally.
	StatusFailed DocumentStatus = "failed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusUploaded, StatusIndexing, StatusReady, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s ends the current ingestion attempt.
// A fresh upload restarts the cycle.
func (s DocumentStatus) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// CanTransition reports whether moving from one status to another is
// allowed within a single ingestion attempt. The cycle is monotonic:
// uploaded -> indexing -> {ready | failed}.
func CanTransition(from, to DocumentStatus) bool {
	switch from {
	case StatusUploaded:
		return to == StatusIndexing
	case StatusIndexing:
		return to == StatusReady || to == StatusFailed
	}
	return false
}

// Document references a stored document. The byte content is owned by
// external object storage and is never duplicated here.
type Document struct {
	// Key is the owner-scoped object key,
	// e.g. "documents/ada@example.com/a1b2_paper.pdf".
	Key    string         `json:"key"`
	Owner  string         `json:"owner"`
	Status DocumentStatus `json:"status"`
}

// OwnerFromKey derives the owner identity from an owner-scoped object key
// laid out as "<prefix>/<owner>/<file>". Returns false if the key does not
// carry an owner segment.
func OwnerFromKey(key string) (string, bool) {
	parts := strings.Split(key, "/")
	if len(parts) < 3 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Chunk is a contiguous span of a document's normalized text.
// Start and End are byte offsets into the normalized text, so chunks can
// be stitched back together exactly when discounting overlap.
type Chunk struct {
	DocumentKey string
	Seq         int
	Start       int
	End         int
	Text        string
}

// ID returns the deterministic identifier for this chunk. Re-ingesting the
// same document key yields the same chunk IDs, which makes vector upserts
// idempotent.
func (c *Chunk) ID() ID {
	return IDFromContent(c.DocumentKey + "#" + strconv.Itoa(c.Seq))
}

// EmbeddingRecord associates a chunk with its embedding vector and the
// metadata needed to retrieve the raw text at query time.
type EmbeddingRecord struct {
	ChunkID     ID
	Vector      []float32
	Text        string
	DocumentKey string
	Owner       string
	Seq         int
}

// Triple is a (subject, predicate, object) structured fact derived from a
// document's summary. Predicate is sanitized to the identifier charset
// before persistence; SourceKey carries document provenance.
type Triple struct {
	Subject   string
	Predicate string
	Object    string
	SourceKey string
}

// Key returns the canonical dedup/merge key for the triple. Merge identity
// is the normalized label text, not a generated id.
func (t *Triple) Key() string {
	return NormalizeLabel(t.Subject) + "|" + t.Predicate + "|" + NormalizeLabel(t.Object)
}

// VectorMatch is a chunk hit from vector similarity search.
type VectorMatch struct {
	ChunkID ID
	Score   float32
	Text    string
	Source  string
}

// GraphFact is one flattened fact row returned by a graph read query,
// rendered as "subject -[predicate]-> object".
type GraphFact struct {
	Text string
}

// ReferenceKind discriminates the origin of a query reference.
type ReferenceKind string

const (
	// ReferenceVector marks a reference backed by a vector chunk excerpt.
	ReferenceVector ReferenceKind = "vector"
	// ReferenceGraph marks a reference backed by a graph fact.
	ReferenceGraph ReferenceKind = "graph"
)

// Reference is one piece of grounding material used to build an answer.
type Reference struct {
	Kind    ReferenceKind `json:"type"`
	Content string        `json:"content"`
	Score   float32       `json:"score"`
	Source  string        `json:"source"`
}

// QueryRequest is a natural-language question scoped to one owner's data.
type QueryRequest struct {
	Question string `json:"question"`
	Owner    string `json:"owner"`
}

// QueryResponse carries the synthesized answer and the ordered references
// that were actually used to build the grounding context. References may be
// empty when no grounding material was found.
type QueryResponse struct {
	Answer     string      `json:"answer"`
	References []Reference `json:"references"`
}
