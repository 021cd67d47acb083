package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolvePredicate verifies the country code > name > tag precedence
func TestResolvePredicate(t *testing.T) {
	code, name, tag, empty := "ao", "an", "sa", ""

	tests := []struct {
		name string
		code *string
		nm   *string
		tag  *string
		want *Predicate
	}{
		{name: "nothing supplied", want: nil},
		{name: "code only", code: &code, want: &Predicate{Kind: KindCountryCode, Value: "ao"}},
		{name: "name only", nm: &name, want: &Predicate{Kind: KindName, Value: "an"}},
		{name: "tag only", tag: &tag, want: &Predicate{Kind: KindTag, Value: "sa"}},
		{name: "code wins over name", code: &code, nm: &name, want: &Predicate{Kind: KindCountryCode, Value: "ao"}},
		{name: "code wins over all", code: &code, nm: &name, tag: &tag, want: &Predicate{Kind: KindCountryCode, Value: "ao"}},
		{name: "name wins over tag", nm: &name, tag: &tag, want: &Predicate{Kind: KindName, Value: "an"}},
		{name: "empty but supplied", nm: &empty, tag: &tag, want: &Predicate{Kind: KindName, Value: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePredicate(tt.code, tt.nm, tt.tag)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

// TestPredicateMatches exercises each kind against single records
func TestPredicateMatches(t *testing.T) {
	angola := Record{ID: 5, Country: "Angola", CountryCode: "AO"}
	ivory := Record{ID: 41, Country: "C\u00f4te d'Ivoire", CountryCode: "CI"}

	tests := []struct {
		name string
		p    Predicate
		r    Record
		want bool
	}{
		{"code exact", ByCountryCode("AO"), angola, true},
		{"code lower", ByCountryCode("ao"), angola, true},
		{"code mixed", ByCountryCode("aO"), angola, true},
		{"code is not a prefix match", ByCountryCode("A"), angola, false},
		{"code longer", ByCountryCode("AOX"), angola, false},
		{"name prefix", ByName("an"), angola, true},
		{"name upper", ByName("ANG"), angola, true},
		{"name full", ByName("angola"), angola, true},
		{"name not prefix", ByName("gola"), angola, false},
		{"name empty prefix", ByName(""), angola, true},
		{"tag behaves like name", ByTag("an"), angola, true},
		{"tag miss", ByTag("zi"), angola, false},
		{"decomposed query matches composed name", ByName("Co\u0302te"), ivory, true},
		{"unicode case", ByName("C\u00d4TE"), ivory, true},
		{"unknown kind", Predicate{Kind: Kind(99), Value: "an"}, angola, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Matches(tt.r))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "country_code", KindCountryCode.String())
	assert.Equal(t, "name", KindName.String())
	assert.Equal(t, "tag", KindTag.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
	assert.Equal(t, "name=an", ByName("an").String())
}
