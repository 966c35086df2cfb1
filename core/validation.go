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


package core

import (
	"fmt"
	"strings"
)

// MaxPredicateLength bounds sanitized predicates so relationship types stay
// usable as graph identifiers.
const MaxPredicateLength = 64

// SanitizePredicate normalizes a raw relation name to the identifier charset
// used for graph relationship types.
//
// Rules:
//   - lowercase
//   - every character outside [a-z0-9_] becomes '_'
//   - runs of '_' collapse to one
//   - leading/trailing '_' are trimmed
//   - result is truncated to MaxPredicateLength
//
// The result matches ^[a-z0-9_]+$ or is empty. Both "is Capital Of" and
// "IS-CAPITAL-OF!" sanitize to "is_capital_of", so re-extraction merges into
// the same relationship.
func SanitizePredicate(raw string) string {
	lowered := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(lowered))
	lastUnderscore := true // treat start as underscore so leading runs are dropped
	for _, r := range lowered {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ok {
			if lastUnderscore {
				continue
			}
			b.WriteByte('_')
			lastUnderscore = true
			continue
		}
		b.WriteRune(r)
		lastUnderscore = false
	}

	s := strings.TrimRight(b.String(), "_")
	if len(s) > MaxPredicateLength {
		s = strings.TrimRight(s[:MaxPredicateLength], "_")
	}
	return s
}

// NormalizeLabel canonicalizes an entity label for merge identity:
// surrounding whitespace trimmed, internal whitespace runs collapsed to a
// single space. Case is preserved; the graph store matches labels
// case-insensitively where needed.
func NormalizeLabel(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// SanitizeTriple validates and canonicalizes one extracted triple.
// Returns an error if the subject or object is empty after trimming, or if
// the predicate sanitizes to the empty string.
func SanitizeTriple(t Triple) (Triple, error) {
	subject := NormalizeLabel(t.Subject)
	object := NormalizeLabel(t.Object)
	predicate := SanitizePredicate(t.Predicate)

	if subject == "" {
		return Triple{}, fmt.Errorf("%w: %w", ErrInvalidTriple, ErrEmptySubject)
	}
	if object == "" {
		return Triple{}, fmt.Errorf("%w: %w", ErrInvalidTriple, ErrEmptyObject)
	}
	if predicate == "" {
		return Triple{}, fmt.Errorf("%w: %w", ErrInvalidTriple, ErrEmptyPredicate)
	}

	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		SourceKey: t.SourceKey,
	}, nil
}

// SanitizeTriples sanitizes a batch of extracted triples, dropping invalid
// entries and deduplicating by canonical subject/predicate/object key.
// Order of first occurrence is preserved.
func SanitizeTriples(triples []Triple) []Triple {
	seen := make(map[string]bool, len(triples))
	out := make([]Triple, 0, len(triples))
	for _, raw := range triples {
		t, err := SanitizeTriple(raw)
		if err != nil {
			continue
		}
		key := strings.ToLower(t.Key())
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// ValidateStatus checks that a status string is one of the known states.
func ValidateStatus(s DocumentStatus) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	return nil
}
