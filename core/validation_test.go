package core

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePredicate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"spaces", "is Capital Of", "is_capital_of"},
		{"punctuation and dashes", "IS-CAPITAL-OF!", "is_capital_of"},
		{"already clean", "invented", "invented"},
		{"digits kept", "born in 1743", "born_in_1743"},
		{"repeated separators collapse", "works -- at", "works_at"},
		{"leading and trailing noise", "  --related to--  ", "related_to"},
		{"unicode replaced", "café’s owner", "caf_s_owner"},
		{"only noise", "!!! --- ???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePredicate(tt.in))
		})
	}
}

func TestSanitizePredicate_Charset(t *testing.T) {
	pattern := regexp.MustCompile(`^[a-z0-9_]+$`)
	inputs := []string{
		"Is Capital Of", "HAS_PART", "née", "a  b\tc", "x!y@z#", "UPPER", "42",
	}
	for _, in := range inputs {
		got := SanitizePredicate(in)
		if got == "" {
			continue
		}
		assert.True(t, pattern.MatchString(got), "sanitized %q -> %q must match charset", in, got)
	}
}

func TestSanitizePredicate_Truncation(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "predicate "
	}
	got := SanitizePredicate(long)
	assert.LessOrEqual(t, len(got), MaxPredicateLength)
	assert.NotEqual(t, byte('_'), got[len(got)-1], "truncation must not leave a trailing underscore")
}

func TestSanitizeTriple(t *testing.T) {
	got, err := SanitizeTriple(Triple{
		Subject:   "  Paris ",
		Predicate: "is Capital Of",
		Object:    "France",
		SourceKey: "documents/ada/doc.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris", got.Subject)
	assert.Equal(t, "is_capital_of", got.Predicate)
	assert.Equal(t, "France", got.Object)
	assert.Equal(t, "documents/ada/doc.pdf", got.SourceKey)
}

func TestSanitizeTriple_Rejections(t *testing.T) {
	_, err := SanitizeTriple(Triple{Subject: "  ", Predicate: "knows", Object: "Bob"})
	require.ErrorIs(t, err, ErrEmptySubject)

	_, err = SanitizeTriple(Triple{Subject: "Alice", Predicate: "knows", Object: "\t\n"})
	require.ErrorIs(t, err, ErrEmptyObject)

	_, err = SanitizeTriple(Triple{Subject: "Alice", Predicate: "!!!", Object: "Bob"})
	require.ErrorIs(t, err, ErrEmptyPredicate)
}

func TestSanitizeTriples_Dedup(t *testing.T) {
	triples := []Triple{
		{Subject: "Paris", Predicate: "is Capital Of", Object: "France"},
		{Subject: "Paris", Predicate: "IS-CAPITAL-OF!", Object: "France"},
		{Subject: "paris", Predicate: "is_capital_of", Object: "FRANCE"},
		{Subject: "Paris", Predicate: "located in", Object: "Europe"},
		{Subject: "", Predicate: "knows", Object: "Bob"},
	}

	got := SanitizeTriples(triples)
	require.Len(t, got, 2)
	assert.Equal(t, "is_capital_of", got[0].Predicate)
	assert.Equal(t, "located_in", got[1].Predicate)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "Thomas Jefferson", NormalizeLabel("  Thomas \t Jefferson\n"))
	assert.Equal(t, "", NormalizeLabel("   "))
}
