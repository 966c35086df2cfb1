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


package search

import (
	"fmt"
	"strings"
	"unicode"
)

// allowedKeywords is the read-only Cypher vocabulary a planned query may
// use. The validator is an allow-list: any recognized keyword outside this
// set rejects the query, so new write clauses added to the language fail
// closed.
var allowedKeywords = map[string]bool{
	"MATCH": true, "OPTIONAL": true, "WHERE": true, "RETURN": true,
	"WITH": true, "AS": true, "AND": true, "OR": true, "NOT": true,
	"XOR": true, "IN": true, "IS": true, "NULL": true, "TRUE": true,
	"FALSE": true, "DISTINCT": true, "ORDER": true, "BY": true,
	"ASC": true, "DESC": true, "LIMIT": true, "SKIP": true,
	"CONTAINS": true, "STARTS": true, "ENDS": true, "UNWIND": true,
	"COUNT": true, "EXISTS": true, "CASE": true, "WHEN": true,
	"THEN": true, "ELSE": true, "END": true, "UNION": true, "ALL": true,
}

// rejectedKeywords are clauses that mutate or administer the graph. They
// are listed explicitly so a rejection can say what was found; anything
// else uppercase and unrecognized falls through to the allow-list check.
var rejectedKeywords = map[string]bool{
	"CREATE": true, "MERGE": true, "DELETE": true, "DETACH": true,
	"SET": true, "REMOVE": true, "DROP": true, "CALL": true,
	"LOAD": true, "CSV": true, "FOREACH": true, "USING": true,
	"INDEX": true, "CONSTRAINT": true, "GRANT": true, "DENY": true,
	"REVOKE": true, "ALTER": true, "RENAME": true, "PERIODIC": true,
	"COMMIT": true,
}

// ValidateGraphQuery checks that a model-planned query is a single
// read-only statement. Returns the cleaned query or ErrQueryRejected.
// Keywords inside string literals are ignored.
func ValidateGraphQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	query = strings.TrimSuffix(query, ";")
	query = strings.TrimSpace(query)

	if query == "" {
		return "", fmt.Errorf("%w: empty query", ErrQueryRejected)
	}
	if strings.Contains(query, ";") {
		return "", fmt.Errorf("%w: multiple statements", ErrQueryRejected)
	}

	tokens := tokenizeQuery(query)
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: no tokens", ErrQueryRejected)
	}
	if !strings.EqualFold(tokens[0], "MATCH") {
		return "", fmt.Errorf("%w: query must start with MATCH", ErrQueryRejected)
	}

	sawReturn := false
	for _, token := range tokens {
		upper := strings.ToUpper(token)
		if upper == "RETURN" {
			sawReturn = true
		}
		if rejectedKeywords[upper] {
			return "", fmt.Errorf("%w: write clause %s", ErrQueryRejected, upper)
		}
		// Identifiers and property names are mixed or lower case by
		// model convention; an all-uppercase word is treated as a
		// keyword and must be on the allow-list.
		if isKeywordLike(token) && !allowedKeywords[upper] {
			return "", fmt.Errorf("%w: unrecognized keyword %s", ErrQueryRejected, upper)
		}
	}

	if !sawReturn {
		return "", fmt.Errorf("%w: missing RETURN clause", ErrQueryRejected)
	}
	return query, nil
}

// tokenizeQuery splits the query into word tokens, skipping the contents
// of single- and double-quoted string literals.
func tokenizeQuery(query string) []string {
	var tokens []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range query {
		if quote != 0 {
			if r == quote {
				quote = 0
			}
			continue
		}
		switch {
		case r == '\'' || r == '"':
			flush()
			quote = r
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// isKeywordLike reports whether a token reads as a Cypher keyword rather
// than an identifier: all letters, all uppercase, at least two characters.
func isKeywordLike(token string) bool {
	if len(token) < 2 {
		return false
	}
	for _, r := range token {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
