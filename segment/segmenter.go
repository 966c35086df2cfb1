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


package segment

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/graphrag/core"
)

// Defaults for the segmenter configuration.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
	DefaultLookback  = 200
)

// Segmenter splits normalized text into overlapping chunks.
type Segmenter struct {
	chunkSize int
	overlap   int
	lookback  int
}

// Option configures a Segmenter.
type Option func(*Segmenter) error

// WithChunkSize sets the target chunk length in bytes.
func WithChunkSize(size int) Option {
	return func(s *Segmenter) error {
		if size <= 0 {
			return ErrInvalidChunkSize
		}
		s.chunkSize = size
		return nil
	}
}

// WithOverlap sets how many bytes consecutive chunks share.
func WithOverlap(overlap int) Option {
	return func(s *Segmenter) error {
		if overlap < 0 {
			return ErrInvalidOverlap
		}
		s.overlap = overlap
		return nil
	}
}

// WithLookback sets how far back from the target length a soft boundary
// may be chosen before falling back to a hard cut.
func WithLookback(lookback int) Option {
	return func(s *Segmenter) error {
		if lookback < 0 {
			return ErrInvalidLookback
		}
		s.lookback = lookback
		return nil
	}
}

// NewSegmenter creates a segmenter with the given options applied over the
// defaults. The overlap and lookback together must leave room for forward
// progress: overlap + lookback < chunk size.
func NewSegmenter(opts ...Option) (*Segmenter, error) {
	s := &Segmenter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
		lookback:  DefaultLookback,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.overlap+s.lookback >= s.chunkSize {
		return nil, ErrInvalidOverlap
	}
	return s, nil
}

// ChunkSize returns the configured target chunk length.
func (s *Segmenter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap length.
func (s *Segmenter) Overlap() int { return s.overlap }

// Segment normalizes the document text and returns its chunks.
// Returns core.ErrEmptyDocument if the normalized text is empty.
func (s *Segmenter) Segment(documentKey, text string) ([]core.Chunk, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, core.ErrEmptyDocument
	}

	var chunks []core.Chunk
	for chunk := range s.Chunks(documentKey, normalized) {
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// Chunks returns a lazy, restartable sequence of chunks over text that has
// already been normalized. Every byte of the text is covered and consecutive
// chunks share the configured overlap unless the text is shorter than one
// chunk.
func (s *Segmenter) Chunks(documentKey, normalized string) iter.Seq[core.Chunk] {
	return func(yield func(core.Chunk) bool) {
		n := len(normalized)
		start := 0
		seq := 0
		for start < n {
			end := start + s.chunkSize
			if end >= n {
				end = n
			} else {
				end = s.cut(normalized, start, end)
			}

			ok := yield(core.Chunk{
				DocumentKey: documentKey,
				Seq:         seq,
				Start:       start,
				End:         end,
				Text:        normalized[start:end],
			})
			if !ok || end >= n {
				return
			}

			next := end - s.overlap
			if next <= start {
				// Forward progress guard; cannot trigger with a validated
				// configuration but keeps the iterator finite regardless.
				next = end
			}
			start = next
			seq++
		}
	}
}

// cut selects the chunk end position. Boundary policy, first match wins:
// paragraph break, sentence-ending punctuation followed by whitespace,
// plain whitespace, hard cut at the target length.
func (s *Segmenter) cut(text string, start, end int) int {
	searchFrom := end - s.lookback
	if searchFrom <= start {
		searchFrom = start + 1
	}

	// Paragraph break: cut after the blank line.
	if idx := strings.LastIndex(text[searchFrom:end], "\n\n"); idx >= 0 {
		return searchFrom + idx + 2
	}

	// Sentence end: punctuation followed by whitespace, cut after the
	// whitespace character.
	for i := end - 1; i > searchFrom; i-- {
		if isSpace(text[i]) && isSentenceEnd(text[i-1]) {
			return i + 1
		}
	}

	// Plain whitespace.
	for i := end - 1; i > searchFrom; i-- {
		if isSpace(text[i]) {
			return i + 1
		}
	}

	// Hard cut, backed off to a rune boundary.
	for end > start+1 && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}

// Normalized text contains only spaces and newlines as whitespace.
func isSpace(b byte) bool {
	return b == ' ' || b == '\n'
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
