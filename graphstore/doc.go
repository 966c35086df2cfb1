// Package graphstore defines the property graph boundary used for
// knowledge triple persistence and query-time fact retrieval. The
// production implementation lives in graphstore/neo4j.
package graphstore
