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


package neo4j

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/graphstore"
)

// mergeTripleQuery merges both entity nodes and the relationship between
// them. Nodes merge on a lowercased id so "Paris" and "paris" from separate
// extractions land on the same node; the first-seen casing is kept as the
// display name. The relationship type cannot be parameterized in Cypher, so
// it is interpolated; sanitizedPredicateRe guards the interpolation.
const mergeTripleQuery = `
MERGE (s:Entity {id: $subjectId})
ON CREATE SET s.name = $subject
MERGE (o:Entity {id: $objectId})
ON CREATE SET o.name = $object
MERGE (s)-[r:%s]->(o)
ON CREATE SET r.source = $source
`

const predicatesQuery = `MATCH ()-[r]->() RETURN DISTINCT type(r) AS predicate`

var sanitizedPredicateRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// tripleParams builds the merge parameters. Node identity is the
// lowercased label, the original casing travels separately for display.
func tripleParams(t core.Triple) map[string]any {
	return map[string]any{
		"subjectId": strings.ToLower(t.Subject),
		"subject":   t.Subject,
		"objectId":  strings.ToLower(t.Object),
		"object":    t.Object,
		"source":    t.SourceKey,
	}
}

// Config holds the connection settings for the Neo4j store.
type Config struct {
	URI      string
	Username string
	Password string

	// ReadTimeout bounds each read query transaction.
	// Default: 10s
	ReadTimeout time.Duration
}

// DefaultConfig returns settings for a local Neo4j instance.
func DefaultConfig() *Config {
	return &Config{
		URI:         "bolt://localhost:7687",
		Username:    "neo4j",
		ReadTimeout: 10 * time.Second,
	}
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("neo4j config: URI is required")
	}
	if c.Username == "" {
		return errors.New("neo4j config: Username is required")
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	return nil
}

// Store implements graphstore.GraphStore backed by a Neo4j database.
type Store struct {
	driver      neo4j.DriverWithContext
	readTimeout time.Duration
	logger      *slog.Logger
}

// NewStore connects to Neo4j and verifies connectivity.
//
// Returns graphstore.GraphStore interface to enforce abstraction.
func NewStore(ctx context.Context, config *Config) (graphstore.GraphStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	driver, err := neo4j.NewDriverWithContext(config.URI,
		neo4j.BasicAuth(config.Username, config.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Store{
		driver:      driver,
		readTimeout: config.ReadTimeout,
		logger:      slog.Default().With("component", "neo4j-store"),
	}, nil
}

// MergeTriples merges triples one by one so an individual failure is
// skipped without aborting the batch. Returns the persisted count.
func (s *Store) MergeTriples(ctx context.Context, triples []core.Triple) (int, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	persisted := 0
	for _, t := range triples {
		if !sanitizedPredicateRe.MatchString(t.Predicate) {
			s.logger.Warn("skipping triple",
				"predicate", t.Predicate, "err", graphstore.ErrUnsanitizedPredicate)
			continue
		}

		query := fmt.Sprintf(mergeTripleQuery, t.Predicate)
		params := tripleParams(t)

		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(ctx, query, params)
			if err != nil {
				return nil, err
			}
			return nil, result.Err()
		})
		if err != nil {
			// Skip-and-continue: one bad triple must not abort the batch.
			s.logger.Warn("failed to merge triple",
				"subject", t.Subject, "predicate", t.Predicate, "object", t.Object, "err", err)
			continue
		}
		persisted++
	}

	s.logger.Debug("merged triples", "submitted", len(triples), "persisted", persisted)
	return persisted, nil
}

// Predicates returns the distinct relationship types currently in the graph.
func (s *Store) Predicates(ctx context.Context) ([]string, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, predicatesQuery, nil)
		if err != nil {
			return nil, err
		}
		var predicates []string
		for result.Next(ctx) {
			if v, ok := result.Record().Get("predicate"); ok {
				if s, ok := v.(string); ok {
					predicates = append(predicates, s)
				}
			}
		}
		return predicates, result.Err()
	}, neo4j.WithTxTimeout(s.readTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to list predicates: %w", err)
	}

	return records.([]string), nil
}

// ReadQuery executes a validated read query with the configured timeout and
// flattens every record into a fact string.
func (s *Store) ReadQuery(ctx context.Context, query string) ([]core.GraphFact, error) {
	if query == "" {
		return nil, graphstore.ErrEmptyQuery
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, nil)
		if err != nil {
			return nil, err
		}
		var facts []core.GraphFact
		for result.Next(ctx) {
			if fact := flattenRecord(result.Record().Values); fact != "" {
				facts = append(facts, core.GraphFact{Text: fact})
			}
		}
		return facts, result.Err()
	}, neo4j.WithTxTimeout(s.readTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to run read query: %w", err)
	}

	facts := records.([]core.GraphFact)
	s.logger.Debug("graph read query complete", "facts", len(facts))
	return facts, nil
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
