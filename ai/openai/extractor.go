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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/poiesic/graphrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TripleExtractor implements ai.TripleExtractor using OpenAI-compatible chat APIs.
type TripleExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// triple is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// extraction is the wrapper structure for the LLM's JSON response.
type extraction struct {
	Triples []triple `json:"triples"`
}

// newTripleExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTripleExtractor(config *ai.Config) (*TripleExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &TripleExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewTripleExtractor creates a new triple extractor using the provided configuration.
//
// Returns ai.TripleExtractor interface to enforce abstraction.
func NewTripleExtractor(config *ai.Config) (ai.TripleExtractor, error) {
	return newTripleExtractor(config)
}

// ExtractTriples extracts knowledge triples from text using an LLM call
// constrained to the triple JSON schema.
func (e *TripleExtractor) ExtractTriples(ctx context.Context, text string) ([]ai.ExtractedTriple, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildTriplePrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result extraction
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.ExtractedTriple{}, nil
		}

		responseText := stripFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extraction response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extraction response after retries", "err", lastErr)
		return nil, lastErr
	}

	extracted := make([]ai.ExtractedTriple, 0, len(result.Triples))
	for _, t := range result.Triples {
		extracted = append(extracted, ai.ExtractedTriple{
			Subject:   t.Subject,
			Predicate: t.Predicate,
			Object:    t.Object,
		})
	}

	e.logger.Debug("extracted triples", "count", len(extracted))
	return extracted, nil
}
