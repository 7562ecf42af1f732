package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobdeve/credit-risk-model/internal/application/dto"
	"github.com/bobdeve/credit-risk-model/pkg/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd(io.Discard)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env")))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseSnapshot(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "", want: time.Time{}},
		{in: "2019-02-14", want: time.Date(2019, 2, 14, 0, 0, 0, 0, time.UTC)},
		{in: "2019-02-14T10:00:00+03:00", want: time.Date(2019, 2, 14, 7, 0, 0, 0, time.UTC)},
		{in: "14/02/2019", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseSnapshot(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestLabelCommand(t *testing.T) {
	input := testutil.WriteFile(t, "data.csv", testutil.TransactionsCSV)
	output := filepath.Join(t.TempDir(), "processed.csv")

	out, err := execute(t, "label", "--input", input, "--output", output)
	require.NoError(t, err)

	var resp dto.SegmentationRunResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.CustomerCount)
	assert.Equal(t, 1, resp.HighRiskCustomers)
	assert.Equal(t, int64(42), resp.Seed)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasSuffix(lines[0], ",is_high_risk"))
	for _, line := range lines[1:] {
		wantLabel := ",0"
		if strings.Contains(line, ",C2,") {
			wantLabel = ",1"
		}
		assert.True(t, strings.HasSuffix(line, wantLabel), line)
	}
}

func TestLabelCommand_Errors(t *testing.T) {
	input := testutil.WriteFile(t, "data.csv", testutil.TransactionsCSV)
	output := filepath.Join(t.TempDir(), "processed.csv")

	t.Run("requires input", func(t *testing.T) {
		_, err := execute(t, "label", "--output", output)
		assert.Error(t, err)
	})

	t.Run("rejects a bad snapshot", func(t *testing.T) {
		_, err := execute(t, "label", "--input", input, "--output", output, "--snapshot", "soon")
		assert.ErrorContains(t, err, "invalid snapshot")
	})

	t.Run("too many clusters leaves no output", func(t *testing.T) {
		_, err := execute(t, "label", "--input", input, "--output", output, "--clusters", "4")
		assert.ErrorContains(t, err, "cannot form 4 clusters")
		assert.NoFileExists(t, output)
	})
}

func TestRFMCommand(t *testing.T) {
	input := testutil.WriteFile(t, "data.csv", testutil.TransactionsCSV)
	output := filepath.Join(t.TempDir(), "rfm.csv")

	out, err := execute(t, "rfm", "--input", input, "--output", output, "--snapshot", "2018-12-01T23:00:00Z")
	require.NoError(t, err)

	var resp dto.ExportRFMResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 3, resp.Customers)
	assert.FileExists(t, output)
}

func TestFeaturesAndSplitCommands(t *testing.T) {
	input := testutil.WriteFile(t, "data.csv", testutil.TransactionsCSV)
	dir := t.TempDir()
	labeled := filepath.Join(dir, "labeled.csv")
	features := filepath.Join(dir, "features.csv")

	_, err := execute(t, "label", "--input", input, "--output", labeled)
	require.NoError(t, err)

	out, err := execute(t, "features", "--input", labeled, "--output", features)
	require.NoError(t, err)
	var feat dto.BuildFeaturesResponse
	require.NoError(t, json.Unmarshal([]byte(out), &feat))
	assert.Equal(t, 6, feat.Rows)
	assert.Equal(t, 3, feat.Customers)

	train := filepath.Join(dir, "train.csv")
	test := filepath.Join(dir, "test.csv")
	out, err = execute(t, "split", "--input", features, "--train", train, "--test", test)
	require.NoError(t, err)
	var split dto.SplitDatasetResponse
	require.NoError(t, json.Unmarshal([]byte(out), &split))
	assert.Equal(t, 4, split.TrainRows)
	assert.Equal(t, 2, split.TestRows)
}
