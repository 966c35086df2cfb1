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


package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/graphrag/ai"
	"github.com/poiesic/graphrag/core"
	"github.com/poiesic/graphrag/graphstore"
	"github.com/poiesic/graphrag/vectorstore"
)

const (
	// DefaultTopK is the number of vector chunks retrieved per question.
	DefaultTopK = 4

	// DefaultMaxContextChars bounds the grounding context handed to the
	// answer model.
	DefaultMaxContextChars = 8000

	// InsufficientAnswer is the fixed response when no grounding material
	// exists for a question. The answer model is never called in that case.
	InsufficientAnswer = "I don't have enough information to answer this question."
)

// Searcher answers questions with hybrid retrieval: dense vector search
// over chunk embeddings joined with facts read from the knowledge graph.
// Either branch failing degrades to the other; when both come back empty
// the fixed insufficient-information answer is returned. Only embedding
// the question is fatal.
type Searcher struct {
	vectors         vectorstore.VectorStore
	graph           graphstore.GraphStore
	embedder        ai.Embedder
	generator       ai.Generator
	topK            int
	maxContextChars int
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithTopK sets how many vector chunks are retrieved per question.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(s *Searcher) error {
		if topK > 0 {
			s.topK = topK
		}
		return nil
	}
}

// WithMaxContextChars bounds the grounding context size.
// Default is DefaultMaxContextChars.
func WithMaxContextChars(max int) Option {
	return func(s *Searcher) error {
		if max > 0 {
			s.maxContextChars = max
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	vectors vectorstore.VectorStore,
	graph graphstore.GraphStore,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if vectors == nil {
		return nil, ErrVectorStoreRequired
	}
	if graph == nil {
		return nil, ErrGraphStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		vectors:         vectors,
		graph:           graph,
		embedder:        provider.Embedder(),
		generator:       provider.Generator(),
		topK:            DefaultTopK,
		maxContextChars: DefaultMaxContextChars,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Answer retrieves grounding material for the question and synthesizes an
// answer from it. When nothing is retrieved the fixed InsufficientAnswer is
// returned with empty references and no generation call is made.
func (s *Searcher) Answer(ctx context.Context, req *core.QueryRequest) (*core.QueryResponse, error) {
	return s.AnswerWithMonitor(ctx, req, nil)
}

// AnswerWithMonitor is Answer with per-stage observation hooks.
func (s *Searcher) AnswerWithMonitor(ctx context.Context, req *core.QueryRequest, monitor QueryMonitor) (*core.QueryResponse, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	references, err := s.retrieve(ctx, req, monitor)
	if err != nil {
		return nil, err
	}

	if len(references) == 0 {
		response := &core.QueryResponse{
			Answer:     InsufficientAnswer,
			References: []core.Reference{},
		}
		monitor.Finish(response)
		return response, nil
	}

	contextBlock, used := buildContext(references, s.maxContextChars)
	if len(used) == 0 {
		// Everything retrieved was too large for the context budget, so
		// the answer would be ungrounded. Treat it as nothing retrieved.
		s.logger.Warn("no reference fits the context budget", "references", len(references))
		response := &core.QueryResponse{
			Answer:     InsufficientAnswer,
			References: []core.Reference{},
		}
		monitor.Finish(response)
		return response, nil
	}

	answer, err := s.generator.GenerateAnswer(ctx, req.Question, contextBlock)
	if err != nil {
		s.logger.Error("answer generation failed", "err", err)
		return nil, err
	}

	response := &core.QueryResponse{
		Answer:     answer,
		References: used,
	}
	monitor.Finish(response)
	return response, nil
}

// Retrieve returns the grounding references without synthesizing an
// answer, for callers that run their own generation or inspection.
func (s *Searcher) Retrieve(ctx context.Context, req *core.QueryRequest) ([]core.Reference, error) {
	return s.retrieve(ctx, req, &noopMonitor{})
}

// retrieve runs the vector and graph branches concurrently and merges
// their results: vector excerpts first ordered by score, graph facts after.
func (s *Searcher) retrieve(ctx context.Context, req *core.QueryRequest, monitor QueryMonitor) ([]core.Reference, error) {
	if req == nil || strings.TrimSpace(req.Question) == "" {
		return nil, ErrEmptyQuestion
	}
	if req.Owner == "" {
		return nil, ErrEmptyOwner
	}

	monitor.Start(req.Question)

	embedding, err := s.embedder.EmbedText(ctx, req.Question)
	if err != nil {
		s.logger.Error("failed to embed question", "err", err)
		return nil, err
	}
	monitor.AfterEmbedding(len(embedding))

	var (
		wg      sync.WaitGroup
		matches []core.VectorMatch
		vecErr  error
		facts   []core.GraphFact
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		matches, vecErr = s.vectors.Search(ctx, req.Owner, embedding, s.topK)
	}()
	go func() {
		defer wg.Done()
		facts = s.graphFacts(ctx, req.Question, monitor)
	}()
	wg.Wait()

	if vecErr != nil {
		// Degrade to graph-only grounding. With both branches empty the
		// caller falls through to the fixed insufficient-information answer.
		s.logger.Warn("vector search failed", "err", vecErr)
		matches = nil
	}
	monitor.AfterVectorSearch(matches)

	references := make([]core.Reference, 0, len(matches)+len(facts))
	for _, match := range matches {
		references = append(references, core.Reference{
			Kind:    core.ReferenceVector,
			Content: match.Text,
			Score:   match.Score,
			Source:  match.Source,
		})
	}
	for _, fact := range facts {
		references = append(references, core.Reference{
			Kind:    core.ReferenceGraph,
			Content: fact.Text,
		})
	}
	return references, nil
}

// graphFacts runs the best-effort graph branch. Every failure is logged
// and returns no facts so the answer degrades to vector-only grounding.
func (s *Searcher) graphFacts(ctx context.Context, question string, monitor QueryMonitor) []core.GraphFact {
	predicates, err := s.graph.Predicates(ctx)
	if err != nil {
		s.logger.Warn("graph branch: predicate listing failed", "err", err)
		monitor.GraphBranchSkipped("predicate listing failed")
		return nil
	}
	if len(predicates) == 0 {
		monitor.GraphBranchSkipped("empty predicate vocabulary")
		return nil
	}

	planned, err := s.generator.PlanGraphQuery(ctx, question, predicates)
	if err != nil {
		s.logger.Warn("graph branch: query planning failed", "err", err)
		monitor.GraphBranchSkipped("query planning failed")
		return nil
	}

	query, err := ValidateGraphQuery(planned)
	if err != nil {
		s.logger.Warn("graph branch: planned query rejected", "query", planned, "err", err)
		monitor.GraphPlanRejected(planned, err)
		return nil
	}
	monitor.AfterGraphPlan(query)

	facts, err := s.graph.ReadQuery(ctx, query)
	if err != nil {
		s.logger.Warn("graph branch: read query failed", "err", err)
		monitor.GraphBranchSkipped("read query failed")
		return nil
	}
	monitor.AfterGraphFacts(facts)
	return facts
}

// buildContext assembles the grounding block handed to the answer model,
// stopping before maxChars is exceeded, and returns the references that
// made it in. References are consumed in order, so vector excerpts take
// priority over graph facts under pressure.
func buildContext(references []core.Reference, maxChars int) (string, []core.Reference) {
	var sb strings.Builder
	used := make([]core.Reference, 0, len(references))
	for _, ref := range references {
		entry := "- " + ref.Content + "\n"
		if sb.Len()+len(entry) > maxChars {
			break
		}
		sb.WriteString(entry)
		used = append(used, ref)
	}
	return sb.String(), used
}
