// Package segment splits extracted document text into overlapping chunks
// suitable for embedding and retrieval.
//
// Segmentation happens in two deterministic passes. Normalization first
// repairs hyphenated line-break splits left behind by PDF extraction and
// collapses redundant whitespace while preserving paragraph breaks. The
// segmenter then walks the normalized text producing chunks of a configured
// target length with a configured overlap, preferring soft boundaries
// (paragraph break, sentence end, whitespace) within a lookback window and
// falling back to a hard cut.
//
// Chunks carry byte offsets into the normalized text, so coverage and
// overlap are verifiable and re-running segmentation on the same input
// yields the same chunks.
package segment
