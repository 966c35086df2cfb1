package openai

import (
	"fmt"
	"strings"
)

const tripleResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "triples": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "subject": {"type": "string"},
          "predicate": {"type": "string"},
          "object": {"type": "string"}
        },
        "required": ["subject", "predicate", "object"],
        "additionalProperties": false
      }
    }
  },
  "required": ["triples"],
  "additionalProperties": false
}`

const triplePromptTemplate = `Extract all knowledge triples from the given text and return them as JSON.
Focus on named entities and how they connect.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Subject and object are entity names exactly as they appear in the text.
- Predicate is a short verb phrase describing the relation, e.g. "invented", "is capital of", "born in".
- Include only facts explicitly stated in the text. Do not hallucinate.
- If no triples can be identified, return "triples": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Thomas Jefferson invented the cipher wheel. He was born in Virginia."
Output:
{
  "triples": [
    {"subject":"Thomas Jefferson","predicate":"invented","object":"cipher wheel"},
    {"subject":"Thomas Jefferson","predicate":"born in","object":"Virginia"}
  ]
}`

const summaryPromptTemplate = `Write a dense factual summary of the following document in at most %d words.
Keep every named entity, date, number, and relationship you find; drop filler and repetition.
Reply with the summary text only, no preamble and no headings.

Document:
%s`

const plannerPromptTemplate = `Task: write one Cypher read query that finds the main entity of the user question and its connections in a knowledge graph.

User question: %q

The graph contains (:Entity {id: <name>}) nodes. Relationship types in use, the only ones you may reference:
%s

Rules:
1. Use MATCH (n:Entity)-[r]-(m:Entity) to find connections.
2. Match the entity loosely: WHERE toLower(n.id) CONTAINS toLower('<entity name>').
3. RETURN n, r, m LIMIT 15.
4. The query must be read-only: MATCH, WHERE, RETURN, LIMIT and nothing else.
5. Return ONLY the raw Cypher, no markdown fences, no commentary.`

const answerPromptTemplate = `You are a careful assistant. Answer the question using ONLY the context below.
If the context does not contain the answer, say that you do not have enough information.
Do not use any outside knowledge.

Context:
%s`

// buildTriplePrompt creates the system prompt for triple extraction.
func buildTriplePrompt() string {
	return fmt.Sprintf(triplePromptTemplate, tripleResponseSchema)
}

// buildSummaryPrompt creates the deterministic summary prompt.
func buildSummaryPrompt(text string, maxWords int) string {
	return fmt.Sprintf(summaryPromptTemplate, maxWords, text)
}

// buildPlannerPrompt creates the graph query planning prompt, enumerating
// the sanitized predicate vocabulary in use.
func buildPlannerPrompt(question string, predicates []string) string {
	vocab := "(none)"
	if len(predicates) > 0 {
		vocab = strings.Join(predicates, ", ")
	}
	return fmt.Sprintf(plannerPromptTemplate, question, vocab)
}

// buildAnswerPrompt creates the grounded-answer system instruction.
func buildAnswerPrompt(contextBlock string) string {
	return fmt.Sprintf(answerPromptTemplate, contextBlock)
}
