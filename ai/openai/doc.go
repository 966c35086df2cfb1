// Package openai implements the ai service interfaces against
// OpenAI-compatible APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// The extractor runs in JSON mode with a fixed response schema and repairs
// common formatting defects (code fences, trailing commas, trailing
// commentary) before unmarshaling; a malformed response is retried a bounded
// number of times before the error is surfaced to the caller.
package openai
