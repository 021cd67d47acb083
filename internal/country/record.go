package country

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingField is returned when a required record field is absent or null
	ErrMissingField = errors.New("missing field")

	// ErrDuplicateField is returned when a field is given under both its name and its alias
	ErrDuplicateField = errors.New("duplicate field")
)

// Record is one country entry. Records are values; the Dataset hands out
// copies so callers never share state with it.
type Record struct {
	ID                   uint8   `json:"id"`
	Country              string  `json:"country"`
	Capital              string  `json:"capital"`
	CountryCode          string  `json:"country_code"`
	CapitalLatitude      float32 `json:"capital_latitude"`
	CapitalLongitude     float32 `json:"capital_longitude"`
	CountryAudioFilename string  `json:"country_audio_filename"`
	CapitalAudioFilename *string `json:"capital_audio_filename"`
}

// rawRecord mirrors the source-file shape. Every field is a pointer so that
// absent and null values can be told apart from zero values.
type rawRecord struct {
	ID                   *uint8   `yaml:"id"`
	Country              *string  `yaml:"country"`
	CountryAlias         *string  `yaml:"country_short_form_name"`
	Capital              *string  `yaml:"capital"`
	CountryCode          *string  `yaml:"country_code"`
	CountryCodeAlias     *string  `yaml:"country_code_2letter"`
	CapitalLatitude      *float32 `yaml:"capital_latitude"`
	CapitalLongitude     *float32 `yaml:"capital_longitude"`
	CountryAudioFilename *string  `yaml:"country_audio_filename"`
	CapitalAudioFilename *string  `yaml:"capital_audio_filename"`
}

// UnmarshalJSON decodes a record, accepting the external aliases
// country_short_form_name and country_code_2letter. Keys must match exactly;
// unknown keys are ignored.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw rawRecord
	for key, dst := range raw.jsonFields() {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	rec, err := raw.record()
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// jsonFields maps each accepted source key to the rawRecord field it fills.
// encoding/json folds case when matching struct tags, so keys are looked up
// by hand instead.
func (raw *rawRecord) jsonFields() map[string]any {
	return map[string]any{
		"id":                      &raw.ID,
		"country":                 &raw.Country,
		"country_short_form_name": &raw.CountryAlias,
		"capital":                 &raw.Capital,
		"country_code":            &raw.CountryCode,
		"country_code_2letter":    &raw.CountryCodeAlias,
		"capital_latitude":        &raw.CapitalLatitude,
		"capital_longitude":       &raw.CapitalLongitude,
		"country_audio_filename":  &raw.CountryAudioFilename,
		"capital_audio_filename":  &raw.CapitalAudioFilename,
	}
}

// UnmarshalYAML applies the same aliasing and required-field rules as UnmarshalJSON.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var raw rawRecord
	if err := value.Decode(&raw); err != nil {
		return err
	}
	rec, err := raw.record()
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func (raw rawRecord) record() (Record, error) {
	name, err := aliased("country", raw.Country, "country_short_form_name", raw.CountryAlias)
	if err != nil {
		return Record{}, err
	}
	code, err := aliased("country_code", raw.CountryCode, "country_code_2letter", raw.CountryCodeAlias)
	if err != nil {
		return Record{}, err
	}

	switch {
	case raw.ID == nil:
		return Record{}, fmt.Errorf("%w: id", ErrMissingField)
	case raw.Capital == nil:
		return Record{}, fmt.Errorf("%w: capital", ErrMissingField)
	case raw.CapitalLatitude == nil:
		return Record{}, fmt.Errorf("%w: capital_latitude", ErrMissingField)
	case raw.CapitalLongitude == nil:
		return Record{}, fmt.Errorf("%w: capital_longitude", ErrMissingField)
	case raw.CountryAudioFilename == nil:
		return Record{}, fmt.Errorf("%w: country_audio_filename", ErrMissingField)
	}

	return Record{
		ID:                   *raw.ID,
		Country:              name,
		Capital:              *raw.Capital,
		CountryCode:          code,
		CapitalLatitude:      *raw.CapitalLatitude,
		CapitalLongitude:     *raw.CapitalLongitude,
		CountryAudioFilename: *raw.CountryAudioFilename,
		CapitalAudioFilename: raw.CapitalAudioFilename,
	}, nil
}

// aliased resolves a field that may be supplied under its own name or under an alias, but not both.
func aliased(name string, v *string, alias string, av *string) (string, error) {
	switch {
	case v != nil && av != nil:
		return "", fmt.Errorf("%w: %s (also given as %s)", ErrDuplicateField, name, alias)
	case v != nil:
		return *v, nil
	case av != nil:
		return *av, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
}

// clone returns a copy that shares no pointers with r.
func (r Record) clone() Record {
	if r.CapitalAudioFilename != nil {
		s := *r.CapitalAudioFilename
		r.CapitalAudioFilename = &s
	}
	return r
}
