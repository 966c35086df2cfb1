package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGraphQuery_AcceptsReadQueries(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{
			"basic match",
			"MATCH (n:Entity)-[r]-(m:Entity) RETURN n, r, m LIMIT 15",
		},
		{
			"where with contains",
			"MATCH (n:Entity)-[r]->(m:Entity) WHERE toLower(n.id) CONTAINS 'paris' RETURN n, r, m",
		},
		{
			"optional match with ordering",
			"MATCH (n:Entity) OPTIONAL MATCH (n)-[r]->(m) RETURN n, m ORDER BY n.id DESC LIMIT 10",
		},
		{
			"trailing semicolon stripped",
			"MATCH (n:Entity) RETURN n;",
		},
		{
			"distinct and count",
			"MATCH (n:Entity)-[r]->() RETURN DISTINCT type(r), count(n)",
		},
		{
			"keyword inside string literal",
			`MATCH (n:Entity) WHERE n.id CONTAINS 'DELETE everything' RETURN n`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := ValidateGraphQuery(tt.query)
			require.NoError(t, err)
			assert.NotEmpty(t, query)
		})
	}
}

func TestValidateGraphQuery_RejectsWritesAndMalformed(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"delete", "MATCH (n:Entity) DELETE n RETURN n"},
		{"lowercase delete", "match (n:Entity) delete n return n"},
		{"detach delete", "MATCH (n) DETACH DELETE n RETURN count(n)"},
		{"merge", "MERGE (n:Entity {id: 'x'}) RETURN n"},
		{"create", "MATCH (n) CREATE (m:Entity) RETURN m"},
		{"set", "MATCH (n:Entity) SET n.id = 'x' RETURN n"},
		{"remove", "MATCH (n:Entity) REMOVE n.id RETURN n"},
		{"drop index", "DROP INDEX entity_id"},
		{"procedure call", "CALL db.labels() YIELD label RETURN label"},
		{"load csv", "LOAD CSV FROM 'file:///x.csv' AS row RETURN row"},
		{"multiple statements", "MATCH (n) RETURN n; MATCH (m) RETURN m"},
		{"does not start with match", "RETURN 1"},
		{"missing return", "MATCH (n:Entity) WHERE n.id = 'x'"},
		{"unrecognized keyword", "MATCH (n) FLURB n RETURN n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateGraphQuery(tt.query)
			assert.ErrorIs(t, err, ErrQueryRejected)
		})
	}
}

func TestValidateGraphQuery_ReturnsCleanedQuery(t *testing.T) {
	query, err := ValidateGraphQuery("  MATCH (n:Entity) RETURN n ;  ")
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:Entity) RETURN n", query)
}
