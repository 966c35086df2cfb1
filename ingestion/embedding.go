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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/graphrag/ai"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/vectorstore"
)

const (
	// DefaultBatchSize is the number of chunks embedded per provider call.
	DefaultBatchSize = 50

	// DefaultMaxAttempts bounds retries of a transient batch failure.
	DefaultMaxAttempts = 4

	// DefaultBaseDelay is the initial backoff delay between attempts.
	DefaultBaseDelay = 500 * time.Millisecond
)

// batchEmbedder embeds chunks in fixed-size batches and upserts the
// resulting records into the vector store. Any batch that cannot be
// persisted makes the whole run fail; partial progress is harmless because
// upserts are idempotent by chunk ID.
type batchEmbedder struct {
	embedder    ai.Embedder
	vectors     vectorstore.VectorStore
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

func newBatchEmbedder(embedder ai.Embedder, vectors vectorstore.VectorStore, batchSize int, logger *slog.Logger) *batchEmbedder {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &batchEmbedder{
		embedder:    embedder,
		vectors:     vectors,
		batchSize:   batchSize,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      logger.With("component", "batch-embedder"),
	}
}

// embedAll processes every chunk and returns the total number of records
// upserted. A fatal batch failure is returned as *EmbeddingError carrying
// the chunk IDs of the failed batch.
func (be *batchEmbedder) embedAll(ctx context.Context, owner string, chunks []core.Chunk) (int, error) {
	total := 0
	for start := 0; start < len(chunks); start += be.batchSize {
		end := min(start+be.batchSize, len(chunks))
		batch := chunks[start:end]

		if err := be.embedBatch(ctx, owner, batch); err != nil {
			return total, &EmbeddingError{ChunkIDs: chunkIDs(batch), Err: err}
		}
		total += len(batch)
	}

	be.logger.Debug("embedding complete", "owner", owner, "chunks", total)
	return total, nil
}

// embedBatch embeds one batch and upserts it, retrying transient failures.
func (be *batchEmbedder) embedBatch(ctx context.Context, owner string, batch []core.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Text
	}

	var vectors [][]float32
	err := RetryTransient(ctx, func() error {
		embedded, embErr := be.embedder.EmbedTexts(ctx, texts)
		if embErr != nil {
			return embErr
		}
		if len(embedded) != len(texts) {
			return fmt.Errorf("%w: submitted %d texts, received %d vectors",
				ErrProviderContract, len(texts), len(embedded))
		}
		vectors = embedded
		return nil
	}, be.maxAttempts, be.baseDelay)
	if err != nil {
		return err
	}

	records := make([]core.EmbeddingRecord, len(batch))
	for i, chunk := range batch {
		records[i] = core.EmbeddingRecord{
			ChunkID:     chunk.ID(),
			Vector:      vectors[i],
			Text:        chunk.Text,
			DocumentKey: chunk.DocumentKey,
			Owner:       owner,
			Seq:         chunk.Seq,
		}
	}

	return RetryTransient(ctx, func() error {
		return be.vectors.Upsert(ctx, owner, records)
	}, be.maxAttempts, be.baseDelay)
}

func chunkIDs(chunks []core.Chunk) []core.ID {
	ids := make([]core.ID, len(chunks))
	for i := range chunks {
		ids[i] = chunks[i].ID()
	}
	return ids
}
