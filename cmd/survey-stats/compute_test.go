package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const obesity = "Percent of adults aged 18 years and older who have obesity"

const sampleCSV = `YearStart,YearEnd,LocationDesc,Question,Data_Value,StratificationCategory1,Stratification1
2015,2015,Ohio,` + obesity + `,30,Age (years),18 - 24
2016,2016,Ohio,` + obesity + `,34,Age (years),25 - 34
2016,2016,Utah,` + obesity + `,24,Age (years),18 - 24
2010,2010,Utah,` + obesity + `,99,Age (years),18 - 24
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out, &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompute_PrintsJSON(t *testing.T) {
	dataset := writeDataset(t)

	out, err := execute(t, "compute", "--dataset", dataset, "--op", "states_mean", "--question", obesity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Utah":24,"Ohio":32}`, out)

	out, err = execute(t, "compute", "--dataset", dataset, "--op", "state_mean", "--question", obesity, "--state", "Ohio")
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ohio":32}`, out)
}

func TestCompute_ExportsCSV(t *testing.T) {
	dataset := writeDataset(t)
	target := filepath.Join(t.TempDir(), "out", "best5.csv")

	out, err := execute(t, "compute", "--dataset", dataset, "--op", "best5", "--question", obesity, "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 rows")

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"group", "key", "value"}, rows[0])
	assert.Equal(t, "Utah", rows[1][1])
}

func TestCompute_Errors(t *testing.T) {
	dataset := writeDataset(t)

	_, err := execute(t, "compute", "--dataset", dataset, "--op", "median", "--question", obesity)
	assert.Error(t, err)

	_, err = execute(t, "compute", "--dataset", dataset, "--op", "state_mean", "--question", obesity)
	assert.Error(t, err)

	_, err = execute(t, "compute", "--dataset", filepath.Join(t.TempDir(), "missing.csv"), "--op", "best5", "--question", obesity)
	assert.Error(t, err)
}
