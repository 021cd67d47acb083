package loader

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/countries/internal/country"
	"github.com/dreamware/countries/internal/logging"
)

const fixture = "../../testdata/countries.json"

// writeFile puts content into a file under a fresh temp dir and returns its path
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadFixture walks through the 197-country scenario end to end
func TestLoadFixture(t *testing.T) {
	ds, err := Load(context.Background(), fixture)
	require.NoError(t, err)
	require.Equal(t, 197, ds.Len())
	assert.Empty(t, ds.Duplicates())

	page := ds.List(nil, 0, 10)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, uint32(197), page.Pagination.TotalItems)

	ao := country.ByCountryCode("AO")
	page = ds.List(&ao, 0, 10)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "AO", page.Data[0].CountryCode)

	an := country.ByName("an")
	page = ds.List(&an, 0, 10)
	require.Len(t, page.Data, 3)
	for _, r := range page.Data {
		assert.True(t, strings.HasPrefix(r.Country, "An"), r.Country)
	}

	// Both filters supplied: the country code wins.
	code, name := "AO", "an"
	page = ds.List(country.ResolvePredicate(&code, &name, nil), 0, 10)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Angola", page.Data[0].Country)
}

func TestLoadFixtureHasNoWarnings(t *testing.T) {
	f, err := os.Open(fixture)
	require.NoError(t, err)
	defer f.Close()

	records, err := Decode(f, FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, Validate(records))
}

func TestLoadErrors(t *testing.T) {
	valid := `{"id": 1, "country": "Chad", "capital": "N'Djamena", "country_code": "TD",
		"capital_latitude": 12.13, "capital_longitude": 15.06, "country_audio_filename": "chad.mp3"}`

	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			wantErr: ErrRead,
		},
		{
			name:    "directory instead of file",
			path:    func(t *testing.T) string { return t.TempDir() },
			wantErr: ErrRead,
		},
		{
			name:    "empty file",
			path:    func(t *testing.T) string { return writeFile(t, "empty.json", "") },
			wantErr: ErrDecode,
		},
		{
			name:    "not json",
			path:    func(t *testing.T) string { return writeFile(t, "bad.json", "countries!") },
			wantErr: ErrDecode,
		},
		{
			name:    "object at top level",
			path:    func(t *testing.T) string { return writeFile(t, "obj.json", "{"+`"data": [`+valid+`]}`) },
			wantErr: ErrDecode,
		},
		{
			name:    "truncated array",
			path:    func(t *testing.T) string { return writeFile(t, "trunc.json", "["+valid) },
			wantErr: ErrDecode,
		},
		{
			name: "record missing a required field",
			path: func(t *testing.T) string {
				return writeFile(t, "missing.json", `[`+valid+`, {"id": 2, "country": "Peru"}]`)
			},
			wantErr: country.ErrMissingField,
		},
		{
			name: "id out of range",
			path: func(t *testing.T) string {
				return writeFile(t, "range.json", `[`+strings.Replace(valid, `"id": 1`, `"id": 256`, 1)+`]`)
			},
			wantErr: ErrDecode,
		},
		{
			name:    "yaml mapping at top level",
			path:    func(t *testing.T) string { return writeFile(t, "map.yaml", "id: 1\n") },
			wantErr: ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Load(context.Background(), tt.path(t))
			require.Error(t, err)
			assert.Nil(t, ds)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestLoadNamesBadRecordIndex(t *testing.T) {
	path := writeFile(t, "second.json", `[
		{"id": 1, "country": "Chad", "capital": "N'Djamena", "country_code": "TD",
		 "capital_latitude": 12.13, "capital_longitude": 15.06, "country_audio_filename": "chad.mp3"},
		{"id": 2, "country": "Peru", "country_code": "PE",
		 "capital_latitude": -12.05, "capital_longitude": -77.04, "country_audio_filename": "peru.mp3"}
	]`)

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
	assert.True(t, errors.Is(err, country.ErrMissingField))
	assert.Contains(t, err.Error(), "record 1")
	assert.Contains(t, err.Error(), "capital")
}

func TestLoadEmptyArray(t *testing.T) {
	ds, err := Load(context.Background(), writeFile(t, "empty.json", " [ ] "))
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestLoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, fixture)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRead))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "countries.yml", `
- id: 4
  country_short_form_name: Andorra
  capital: Andorra la Vella
  country_code_2letter: AD
  capital_latitude: 42.51
  capital_longitude: 1.52
  country_audio_filename: andorra.mp3
  capital_audio_filename: andorra_la_vella.mp3
- id: 5
  country_short_form_name: Angola
  capital: Luanda
  country_code_2letter: AO
  capital_latitude: -8.84
  capital_longitude: 13.23
  country_audio_filename: angola.mp3
`)

	ds, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())

	r, ok := ds.Lookup(5)
	require.True(t, ok)
	assert.Equal(t, "Angola", r.Country)
	assert.Equal(t, "AO", r.CountryCode)
	assert.Nil(t, r.CapitalAudioFilename)
}

func TestLoadDuplicateIDs(t *testing.T) {
	content := `[
		{"id": 7, "country": "Chad", "capital": "N'Djamena", "country_code": "TD",
		 "capital_latitude": 12.13, "capital_longitude": 15.06, "country_audio_filename": "chad.mp3"},
		{"id": 7, "country": "Peru", "capital": "Lima", "country_code": "PE",
		 "capital_latitude": -12.05, "capital_longitude": -77.04, "country_audio_filename": "peru.mp3"}
	]`

	t.Run("default keeps the last record in the index", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, "warn", logging.FormatText)
		require.NoError(t, err)

		ds, err := Load(context.Background(), writeFile(t, "dup.json", content), WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
		assert.Equal(t, []uint8{7}, ds.Duplicates())

		r, ok := ds.Lookup(7)
		require.True(t, ok)
		assert.Equal(t, "Peru", r.Country)
		assert.Contains(t, buf.String(), "duplicate country ids")
	})

	t.Run("strict mode rejects the file", func(t *testing.T) {
		ds, err := Load(context.Background(), writeFile(t, "dup.json", content), WithStrictIDs(true))
		require.Error(t, err)
		assert.Nil(t, ds)
		assert.True(t, errors.Is(err, ErrDuplicateID))
	})
}

// TestInspectReport checks that warnings and duplicate ids come back with the dataset
func TestInspectReport(t *testing.T) {
	content := `[
		{"id": 7, "country": "Chad", "capital": "N'Djamena", "country_code": "TD",
		 "capital_latitude": 12.13, "capital_longitude": 15.06, "country_audio_filename": "chad.mp3"},
		{"id": 7, "country": "Peru", "capital": "Lima", "country_code": "PER",
		 "capital_latitude": -12.05, "capital_longitude": -77.04, "country_audio_filename": "peru.mp3"}
	]`
	path := writeFile(t, "report.json", content)

	rep, err := Inspect(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, rep.Path)
	assert.Equal(t, FormatJSON, rep.Format)
	assert.Equal(t, 2, rep.Dataset.Len())
	assert.Equal(t, []uint8{7}, rep.Duplicates)
	require.Len(t, rep.Warnings, 1)
	assert.Equal(t, 1, rep.Warnings[0].Index)
	assert.Contains(t, rep.Warnings[0].Message, `"PER"`)

	rep, err = Inspect(context.Background(), fixture)
	require.NoError(t, err)
	assert.Equal(t, 197, rep.Dataset.Len())
	assert.Empty(t, rep.Warnings)
	assert.Empty(t, rep.Duplicates)

	_, err = Inspect(context.Background(), path, WithStrictIDs(true))
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("input.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("data/countries.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("countries.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("countries"))
	assert.Equal(t, "yaml", FormatYAML.String())
	assert.Equal(t, "json", FormatJSON.String())
}
