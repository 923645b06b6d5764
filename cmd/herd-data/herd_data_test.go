package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/herdbook/modules/herd/domain/mapping"
	"github.com/iota-uz/herdbook/modules/herd/domain/workbook"
	"github.com/iota-uz/herdbook/modules/herd/services"
)

func testApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := newApp()
	a.envFiles = nil
	a.out = &out
	a.gatherer = prometheus.NewRegistry()
	return a, &out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, exitUsage, exitCode(errors.Wrap(withCode(exitUsage, errors.New("bad flag")), "run")))
	assert.NoError(t, withCode(exitDB, nil))
}

func TestClassify(t *testing.T) {
	cases := map[int]error{
		exitUsage:      services.ErrMissingOwner,
		exitValidation: mapping.ErrInvalidMapping.Wrapf("worksheet %q", "A"),
		exitInput:      workbook.ErrUnsupportedFormat,
		exitDBWrite:    errors.Wrap(services.ErrPersistence.Wrap(errors.New("reset")), "derived phase"),
		exitDB:         errors.New("connection refused"),
	}
	for code, err := range cases {
		assert.Equal(t, code, exitCode(classify(err)), err.Error())
	}
	assert.NoError(t, classify(nil))
}

func TestResolveMapping(t *testing.T) {
	doc := writeFile(t, "mapping.yaml", `
worksheets:
  Weights:
    purpose: history_weight
    columns:
      ear_num: Tag
      date: When
      value: Kg
`)

	cfg, err := resolveMapping(importOptions{Standard: true}, doc)
	require.NoError(t, err)
	assert.Contains(t, cfg.Names(), "S2_Breed")

	cfg, err = resolveMapping(importOptions{Mapping: doc}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Weights"}, cfg.Names())

	cfg, err = resolveMapping(importOptions{}, doc)
	require.NoError(t, err)
	assert.Equal(t, mapping.PurposeHistoryWeight, cfg.Purpose("Weights"))

	cfg, err = resolveMapping(importOptions{}, "")
	require.NoError(t, err)
	assert.Contains(t, cfg.Names(), "0009-0013A1_Basic")

	bad := writeFile(t, "bad.json", `{"worksheets": {"": {"purpose": "profile"}}}`)
	_, err = resolveMapping(importOptions{Mapping: bad}, "")
	assert.Equal(t, exitValidation, exitCode(err))
}

func TestAnalyzeCommand(t *testing.T) {
	a, out := testApp(t)
	csv := writeFile(t, "weights.csv", "EarNum,MeaDate,Weight\nX1,2024-01-05,41.2\nX2,2024-01-06,39\n")
	textfile := filepath.Join(t.TempDir(), "metrics", "herd.prom")

	err := run(a, []string{"analyze", "--file", csv, "--rows", "1", "--metrics-textfile", textfile})
	require.NoError(t, err)

	var previews []services.SheetPreview
	require.NoError(t, json.Unmarshal(out.Bytes(), &previews))
	require.Len(t, previews, 1)
	assert.Equal(t, "weights", previews[0].Name)
	assert.Equal(t, 2, previews[0].Rows)
	assert.Len(t, previews[0].Preview, 1)
	require.NotNil(t, previews[0].Suggestion)
	assert.Equal(t, mapping.PurposeHistoryWeight, previews[0].Suggestion.Purpose)

	assert.FileExists(t, textfile)
}

func TestImportCommand_FailsBeforeTouchingTheDatabase(t *testing.T) {
	csv := writeFile(t, "herd.csv", "EarNum\nX1\n")
	owner := "5f0c1a52-7a43-4a53-9c53-2f1d1c1d9a01"

	cases := []struct {
		name string
		args []string
		code int
	}{
		{"missing owner", []string{"import", "--file", csv}, exitUsage},
		{"malformed owner", []string{"import", "--owner", "nope", "--file", csv}, exitUsage},
		{"missing file flag", []string{"import", "--owner", owner}, exitUsage},
		{"legacy xls", []string{"import", "--owner", owner, "--file", writeFile(t, "old.xls", "x")}, exitInput},
		{"absent file", []string{"import", "--owner", owner, "--file", filepath.Join(t.TempDir(), "none.xlsx")}, exitInput},
		{"bad mapping", []string{"import", "--owner", owner, "--file", csv, "--mapping", writeFile(t, "m.ini", "")}, exitValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := testApp(t)
			err := run(a, tc.args)
			require.Error(t, err)
			assert.Equal(t, tc.code, exitCode(err), err.Error())
		})
	}
}

func TestValidateFlags(t *testing.T) {
	err := validateFlags(exportOptions{Owner: "x"})
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(err))
	assert.Contains(t, err.Error(), "--output: Output is a required field")
	assert.Contains(t, err.Error(), "--owner: Owner must be a valid UUID")

	assert.NoError(t, validateFlags(exportOptions{Owner: "5f0c1a52-7a43-4a53-9c53-2f1d1c1d9a01", Output: "x.xlsx"}))
}

func TestMigrateCommand_RejectsUnknownAction(t *testing.T) {
	a, _ := testApp(t)
	assert.Error(t, run(a, []string{"migrate", "sideways"}))
}
