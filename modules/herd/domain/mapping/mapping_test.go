package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurpose(t *testing.T) {
	assert.Equal(t, PurposeProfile, ParsePurpose("profile"))
	assert.Equal(t, PurposeProfile, ParsePurpose(" basic_info "))
	assert.Equal(t, PurposeEventLactation, ParsePurpose("yean_record"))
	assert.Equal(t, PurposeHistoryMilkFat, ParsePurpose("HISTORY_MILK_FAT"))
	assert.Equal(t, PurposeIgnore, ParsePurpose("chat_history"))
	assert.Equal(t, PurposeIgnore, ParsePurpose(""))

	assert.True(t, PurposeCodeTableSex.IsCodeTable())
	assert.True(t, PurposeEventMating.IsDerived())
	assert.True(t, PurposeHistoryWeight.IsDerived())
	assert.False(t, PurposeProfile.IsDerived())
	assert.False(t, PurposeIgnore.IsDerived())
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Len(t, cfg.Worksheets, 8)
	require.Empty(t, cfg.Ignored)

	basic, ok := cfg.Worksheet("0009-0013A1_Basic")
	require.True(t, ok)
	assert.Equal(t, PurposeProfile, basic.Purpose)
	assert.Equal(t, "EarNum", basic.Columns[FieldEarNum])
	assert.Equal(t, "BirWei", basic.Columns["birth_weight"])
	assert.Equal(t, "RUni", basic.Columns["record_uid"])

	yean, ok := cfg.Worksheet("0009-0013A3_Yean")
	require.True(t, ok)
	assert.Equal(t, PurposeEventLactation, yean.Purpose)
	assert.Equal(t, "YeanDate", yean.Columns[FieldStartDate])
	assert.Equal(t, "DryOffDate", yean.Columns[FieldEndDate])
	assert.Equal(t, "Lactation", yean.Columns[FieldCycle])

	breed, ok := cfg.Worksheet("S2_Breed")
	require.True(t, ok)
	assert.Equal(t, "Symbol", breed.Columns[FieldCode])
	assert.Equal(t, "Breed", breed.Columns[FieldLabel])

	cfg.Worksheets["S2_Breed"].Columns[FieldCode] = "changed"
	again, _ := Default().Worksheet("S2_Breed")
	assert.Equal(t, "Symbol", again.Columns[FieldCode], "Default returns a copy")
}

func TestParse_Formats(t *testing.T) {
	docs := map[Format]string{
		FormatJSON: `{"worksheets":{"Herd":{"purpose":"profile","columns":{"ear_num":"Tag","breed":"Race","colour":"Col"}}}}`,
		FormatYAML: "worksheets:\n  Herd:\n    purpose: profile\n    columns:\n      ear_num: Tag\n      breed: Race\n      colour: Col\n",
		FormatTOML: "[worksheets.Herd]\npurpose = \"profile\"\n[worksheets.Herd.columns]\near_num = \"Tag\"\nbreed = \"Race\"\ncolour = \"Col\"\n",
	}
	for format, doc := range docs {
		t.Run(string(format), func(t *testing.T) {
			cfg, err := Parse([]byte(doc), format)
			require.NoError(t, err)
			ws, ok := cfg.Worksheet("Herd")
			require.True(t, ok)
			assert.Equal(t, PurposeProfile, ws.Purpose)
			assert.Equal(t, map[string]string{"ear_num": "Tag", "breed": "Race"}, ws.Columns)
			assert.Equal(t, []string{"Herd.colour"}, cfg.Ignored)
		})
	}
}

func TestParse_UnknownPurposeIsIgnore(t *testing.T) {
	cfg, err := Parse([]byte(`{"sheets":{"Chat":{"purpose":"chat_log","columns":{"a":"b"}}}}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, PurposeIgnore, cfg.Purpose("Chat"))
	assert.Equal(t, PurposeIgnore, cfg.Purpose("Missing"))
}

func TestParse_CanonicalKeyWinsOverAlias(t *testing.T) {
	cfg, err := Parse([]byte(`{"worksheets":{"W":{"purpose":"history_weight","columns":{"Weight":"A","value":"B","EarNum":"Tag"}}}}`), FormatJSON)
	require.NoError(t, err)
	ws, _ := cfg.Worksheet("W")
	assert.Equal(t, "B", ws.Columns[FieldValue])
	assert.Equal(t, "Tag", ws.Columns[FieldEarNum])
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"malformed":       `{"worksheets":`,
		"no section":      `{"other":{}}`,
		"both sections":   `{"worksheets":{},"sheets":{}}`,
		"empty column":    `{"worksheets":{"W":{"purpose":"profile","columns":{"ear_num":""}}}}`,
		"empty sheet":     `{"worksheets":{" ":{"purpose":"profile","columns":{"ear_num":"E"}}}}`,
		"wrong type":      `{"worksheets":{"W":{"purpose":1}}}`,
		"columns as list": `{"worksheets":{"W":{"purpose":"profile","columns":["EarNum"]}}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), FormatJSON)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMapping), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.yml")
	require.NoError(t, os.WriteFile(path, []byte("sheets:\n  S7_Sex:\n    purpose: sex_mapping\n    columns: {Code: Num, Name: Sex}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, PurposeCodeTableSex, cfg.Purpose("S7_Sex"))

	_, err = Load(filepath.Join(dir, "mapping.ini"))
	require.ErrorIs(t, err, ErrInvalidMapping)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, ErrInvalidMapping)
}

func TestCanonicalField(t *testing.T) {
	key, ok := CanonicalField(PurposeEventMating, "Mat_grouM_Sire")
	require.True(t, ok)
	assert.Equal(t, FieldSire, key)

	key, ok = CanonicalField(PurposeEventKidding, "yeandate")
	require.True(t, ok)
	assert.Equal(t, FieldDate, key)

	_, ok = CanonicalField(PurposeHistoryWeight, "Milk")
	assert.False(t, ok)
}
