package country

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies which filter a Predicate applies.
type Kind uint8

const (
	// KindCountryCode matches country_code exactly, ignoring case
	KindCountryCode Kind = iota + 1
	// KindName matches a prefix of the country name, ignoring case
	KindName
	// KindTag matches a prefix of the country name, ignoring case.
	// It currently behaves exactly like KindName; there is no tag field yet.
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindCountryCode:
		return "country_code"
	case KindName:
		return "name"
	case KindTag:
		return "tag"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Predicate is a single list filter. Build one with ByCountryCode, ByName,
// ByTag or ResolvePredicate.
type Predicate struct {
	Kind  Kind
	Value string
}

// ByCountryCode returns a predicate matching records whose code equals code, ignoring case.
func ByCountryCode(code string) Predicate { return Predicate{Kind: KindCountryCode, Value: code} }

// ByName returns a predicate matching records whose name starts with prefix, ignoring case.
func ByName(prefix string) Predicate { return Predicate{Kind: KindName, Value: prefix} }

// ByTag returns a predicate matching records whose name starts with prefix, ignoring case.
func ByTag(prefix string) Predicate { return Predicate{Kind: KindTag, Value: prefix} }

func (p Predicate) String() string {
	return p.Kind.String() + "=" + p.Value
}

// ResolvePredicate picks at most one predicate from the optional filter
// inputs. A nil input was not supplied; an empty string was. Precedence is
// country code, then name, then tag. Lower-precedence inputs are ignored.
func ResolvePredicate(code, name, tag *string) *Predicate {
	var p Predicate
	switch {
	case code != nil:
		p = ByCountryCode(*code)
	case name != nil:
		p = ByName(*name)
	case tag != nil:
		p = ByTag(*tag)
	default:
		return nil
	}
	return &p
}

// Matches reports whether r satisfies p.
func (p Predicate) Matches(r Record) bool {
	return p.matcher()(keysOf(r))
}

// matcher folds the predicate value once and returns a function over
// pre-folded record keys.
func (p Predicate) matcher() func(keys) bool {
	needle := fold(p.Value)
	switch p.Kind {
	case KindCountryCode:
		return func(k keys) bool { return k.code == needle }
	case KindName, KindTag:
		return func(k keys) bool { return strings.HasPrefix(k.name, needle) }
	default:
		return func(keys) bool { return false }
	}
}

// keys holds the case-folded searchable fields of a record.
type keys struct {
	name string
	code string
}

func keysOf(r Record) keys {
	return keys{name: fold(r.Country), code: fold(r.CountryCode)}
}

// fold normalizes s to NFC and lowercases it, so composed and decomposed
// spellings of the same name compare equal.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
