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


// Package ai provides abstractions for the AI services used by graphrag.
//
// This package defines interfaces for the three call shapes the system
// needs: vector embeddings, schema-constrained triple extraction, and
// free-text generation (summaries, graph query planning, grounded answers).
// It follows the dependency inversion principle: the ingestion pipeline and
// the retriever depend on these abstractions rather than on a concrete
// model client.
//
// # Interfaces
//
//   - Embedder: generates vector embeddings from text
//   - TripleExtractor: extracts (subject, predicate, object) triples
//   - Generator: summaries, graph query planning, answer synthesis
//   - AIProvider: aggregates the services for initialization and lifecycle
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can inject
// behavior and assert call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "Who is Thomas Jefferson?")
//	triples, err := provider.TripleExtractor().ExtractTriples(ctx, summary)
package ai
