// Package vectorstore defines the dense index boundary used by ingestion
// and retrieval. The production implementation lives in vectorstore/qdrant;
// tests use in-memory fakes.
package vectorstore
