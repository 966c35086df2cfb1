// Package neo4j implements the graphstore.GraphStore interface backed by a
// Neo4j database over the bolt protocol.
//
// Triples are persisted as (:Entity)-[predicate]->(:Entity) with MERGE
// semantics, so re-ingesting a document is idempotent at the graph level.
// Relationship types come from sanitized predicates and are re-checked
// against the identifier charset before query interpolation.
package neo4j
