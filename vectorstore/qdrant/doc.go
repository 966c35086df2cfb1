// Package qdrant implements vectorstore.VectorStore against a Qdrant
// collection over gRPC. Cosine distance, one collection for all owners,
// owner scoping via an indexed keyword payload field.
package qdrant
