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


// Package search answers natural-language questions with hybrid retrieval.
//
// The Searcher runs two concurrent branches per question:
//   - dense vector search over chunk embeddings, scoped to the owner
//   - a model-planned read query against the knowledge graph, validated
//     against a read-only allow-list before execution
//
// Vector retrieval is the trunk of the process; any graph-side failure
// degrades the answer to vector-only grounding. When neither branch yields
// material, a fixed insufficient-information answer is returned without
// calling the generation model.
package search
