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


package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/vectorstore"
	"github.com/qdrant/go-client/qdrant"
)

// Payload field names used in the collection.
const (
	FieldText   = "text"
	FieldSource = "source"
	FieldOwner  = "owner"
	FieldSeq    = "seq"
)

// Config holds the connection and collection settings for the Qdrant store.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string

	// Dimension is the fixed vector dimensionality of the collection.
	// Must match the embedding model configuration.
	Dimension int
}

// DefaultConfig returns settings for a local Qdrant instance.
func DefaultConfig() *Config {
	return &Config{
		Host:       "localhost",
		Port:       6334,
		Collection: "documents",
		Dimension:  768,
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("qdrant config: Host is required")
	}
	if c.Port <= 0 {
		return errors.New("qdrant config: Port must be positive")
	}
	if c.Collection == "" {
		return errors.New("qdrant config: Collection is required")
	}
	if c.Dimension <= 0 {
		return errors.New("qdrant config: Dimension must be positive")
	}
	return nil
}

// Store implements vectorstore.VectorStore backed by a Qdrant collection.
// Owner namespacing is an indexed keyword payload field filtered on every
// search; point IDs are the deterministic chunk IDs so upserts overwrite
// in place.
type Store struct {
	client     *qdrant.Client
	collection string
	dimension  int
	logger     *slog.Logger
}

// NewStore connects to Qdrant and ensures the collection exists with the
// configured dimensionality and an index on the owner field.
//
// Returns vectorstore.VectorStore interface to enforce abstraction.
func NewStore(ctx context.Context, config *Config) (vectorstore.VectorStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: config.APIKey,
		UseTLS: config.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	s := &Store{
		client:     client,
		collection: config.Collection,
		dimension:  config.Dimension,
		logger:     slog.Default().With("component", "qdrant-store"),
	}

	if err := s.ensureCollection(ctx); err != nil {
		client.Close()
		return nil, err
	}

	return s, nil
}

// ensureCollection creates the collection and the owner payload index if
// they do not exist yet.
func (s *Store) ensureCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	s.logger.Info("creating collection", "collection", s.collection, "dimension", s.dimension)
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Keyword index so owner filters don't scan the whole collection.
	_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.collection,
		FieldName:      FieldOwner,
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
	})
	if err != nil {
		return fmt.Errorf("failed to index owner field: %w", err)
	}

	return nil
}

// Upsert writes embedding records under the owner's namespace, keyed by
// chunk ID.
func (s *Store) Upsert(ctx context.Context, owner string, records []core.EmbeddingRecord) error {
	if owner == "" {
		return vectorstore.ErrEmptyOwner
	}
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, rec := range records {
		if len(rec.Vector) != s.dimension {
			return fmt.Errorf("%w: got %d, collection has %d",
				vectorstore.ErrDimensionMismatch, len(rec.Vector), s.dimension)
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(rec.ChunkID)),
			Vectors: qdrant.NewVectors(rec.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				FieldText:   rec.Text,
				FieldSource: rec.DocumentKey,
				FieldOwner:  owner,
				FieldSeq:    int64(rec.Seq),
			}),
		})
	}

	s.logger.Debug("upserting points", "count", len(points), "owner", owner)
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Search returns the topK most similar chunks within the owner's namespace.
func (s *Store) Search(ctx context.Context, owner string, vector []float32, topK int) ([]core.VectorMatch, error) {
	if owner == "" {
		return nil, vectorstore.ErrEmptyOwner
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: got %d, collection has %d",
			vectorstore.ErrDimensionMismatch, len(vector), s.dimension)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch(FieldOwner, owner),
			},
		},
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	matches := make([]core.VectorMatch, 0, len(results))
	for _, point := range results {
		payload := point.GetPayload()
		matches = append(matches, core.VectorMatch{
			ChunkID: core.ID(point.GetId().GetNum()),
			Score:   point.GetScore(),
			Text:    payload[FieldText].GetStringValue(),
			Source:  payload[FieldSource].GetStringValue(),
		})
	}

	s.logger.Debug("vector search complete", "owner", owner, "hits", len(matches))
	return matches, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}
