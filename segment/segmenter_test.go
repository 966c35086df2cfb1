package segment

import (
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/graphrag/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "documents/ada@example.com/sample.pdf"

// buildText produces a multi-paragraph text longer than several chunks.
func buildText(paragraphs, sentencesPer int) string {
	var b strings.Builder
	for p := 0; p < paragraphs; p++ {
		for s := 0; s < sentencesPer; s++ {
			fmt.Fprintf(&b, "Paragraph %d sentence %d talks about knowledge graphs and retrieval. ", p, s)
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphenated line break", "know-\nledge graph", "knowledge graph"},
		{"whitespace collapse", "a  b\tc\nd", "a b c d"},
		{"paragraph preserved", "first para.\n\nsecond para.", "first para.\n\nsecond para."},
		{"paragraph with indentation", "first.\n   \n\tsecond.", "first.\n\nsecond."},
		{"trim", "  hello  ", "hello"},
		{"empty", " \n\t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := buildText(4, 6)
	assert.Equal(t, Normalize(in), Normalize(in))
	// Idempotent: normalizing normalized text is a no-op.
	assert.Equal(t, Normalize(in), Normalize(Normalize(in)))
}

func TestSegment_CoverageLaw(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	text := buildText(8, 10)
	normalized := Normalize(text)

	chunks, err := seg.Segment(testKey, text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Offsets cover the normalized text with no gaps.
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(normalized), chunks[len(chunks)-1].End)
	for i, c := range chunks {
		assert.Equal(t, i, c.Seq)
		assert.Equal(t, normalized[c.Start:c.End], c.Text)
		if i > 0 {
			prev := chunks[i-1]
			assert.LessOrEqual(t, c.Start, prev.End, "no gap between chunks %d and %d", i-1, i)
			assert.Greater(t, c.Start, prev.Start, "chunks must advance")
		}
	}

	// Concatenating chunks while discounting overlap reconstructs the text.
	var b strings.Builder
	b.WriteString(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		shared := chunks[i-1].End - chunks[i].Start
		b.WriteString(chunks[i].Text[shared:])
	}
	assert.Equal(t, normalized, b.String())
}

func TestSegment_OverlapGuarantee(t *testing.T) {
	seg, err := NewSegmenter(WithChunkSize(400), WithOverlap(50), WithLookback(80))
	require.NoError(t, err)

	chunks, err := seg.Segment(testKey, buildText(6, 8))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		shared := chunks[i-1].End - chunks[i].Start
		assert.GreaterOrEqual(t, shared, seg.Overlap(),
			"chunks %d and %d share %d bytes", i-1, i, shared)
	}
}

func TestSegment_Deterministic(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	text := buildText(5, 7)
	first, err := seg.Segment(testKey, text)
	require.NoError(t, err)
	second, err := seg.Segment(testKey, text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunks_Restartable(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	normalized := Normalize(buildText(5, 7))
	it := seg.Chunks(testKey, normalized)

	var first, second []core.Chunk
	for c := range it {
		first = append(first, c)
	}
	for c := range it {
		second = append(second, c)
	}
	assert.Equal(t, first, second)
}

func TestSegment_ShortText_SingleChunk(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	// Shorter than the overlap window.
	text := "Tiny document."
	chunks, err := seg.Segment(testKey, text)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, Normalize(text), chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(Normalize(text)), chunks[0].End)
}

func TestSegment_EmptyDocument(t *testing.T) {
	seg, err := NewSegmenter()
	require.NoError(t, err)

	_, err = seg.Segment(testKey, "   \n\t  ")
	require.ErrorIs(t, err, core.ErrEmptyDocument)
}

func TestSegment_PrefersSentenceBoundary(t *testing.T) {
	seg, err := NewSegmenter(WithChunkSize(100), WithOverlap(10), WithLookback(40))
	require.NoError(t, err)

	// No paragraph breaks; sentence ends fall inside the lookback window.
	text := strings.Repeat("This sentence has a fixed width of fifty chars!! ", 6)
	chunks, err := seg.Segment(testKey, text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks[:len(chunks)-1] {
		trimmed := strings.TrimRight(c.Text, " ")
		assert.True(t, strings.HasSuffix(trimmed, "!"),
			"chunk should end at a sentence boundary, got %q", c.Text)
	}
}

func TestSegment_HardCutWithoutBoundaries(t *testing.T) {
	seg, err := NewSegmenter(WithChunkSize(50), WithOverlap(5), WithLookback(10))
	require.NoError(t, err)

	// One long token, no soft boundary anywhere.
	text := strings.Repeat("x", 200)
	chunks, err := seg.Segment(testKey, text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	assert.Equal(t, 50, chunks[0].End)
}

func TestNewSegmenter_Validation(t *testing.T) {
	_, err := NewSegmenter(WithChunkSize(0))
	assert.ErrorIs(t, err, ErrInvalidChunkSize)

	_, err = NewSegmenter(WithOverlap(-1))
	assert.ErrorIs(t, err, ErrInvalidOverlap)

	_, err = NewSegmenter(WithChunkSize(100), WithOverlap(60), WithLookback(50))
	assert.ErrorIs(t, err, ErrInvalidOverlap)
}
