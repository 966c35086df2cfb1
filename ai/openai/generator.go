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
	"log/slog"
	"strings"

	"github.com/poiesic/graphrag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client          llms.Model
	maxSummaryWords int
	logger          *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
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

	return &Generator{
		client:          client,
		maxSummaryWords: config.MaxSummaryWords,
		logger:          slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Summarize produces a bounded-length dense summary of document text.
func (g *Generator) Summarize(ctx context.Context, text string) (string, error) {
	g.logger.Debug("summarizing document text", "length", len(text))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client,
		buildSummaryPrompt(text, g.maxSummaryWords),
		llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate summary", "err", err)
		return "", err
	}

	return strings.TrimSpace(response), nil
}

// PlanGraphQuery asks the model for a read query over the knowledge graph.
// The result is untrusted input and must pass validation before execution.
func (g *Generator) PlanGraphQuery(ctx context.Context, question string, predicates []string) (string, error) {
	g.logger.Debug("planning graph query", "question", question, "predicates", len(predicates))

	response, err := llms.GenerateFromSinglePrompt(ctx, g.client,
		buildPlannerPrompt(question, predicates),
		llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to plan graph query", "err", err)
		return "", err
	}

	return stripFences(response), nil
}

// GenerateAnswer synthesizes an answer grounded in the supplied context block.
func (g *Generator) GenerateAnswer(ctx context.Context, question, contextBlock string) (string, error) {
	g.logger.Debug("generating grounded answer",
		"question", question, "contextLength", len(contextBlock))

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildAnswerPrompt(contextBlock)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(question),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", nil
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
