package cmd

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"fftcompress/internal/models"
	"fftcompress/pkg/config"
	"fftcompress/pkg/imageio"
)

func writeTestImage(t *testing.T, dir, name string, rows, cols int) string {
	t.Helper()
	raster := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := 128 + 60*math.Sin(2*math.Pi*float64(x)/16) + 40*math.Cos(2*math.Pi*float64(y)/8)
			raster.Set(y, x, v)
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, imageio.Save(path, raster))
	return path
}

func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(context.Background(), "test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	base := []string{"--config", filepath.Join(dir, "missing.yaml"), "--log-level", "ERROR"}
	root.SetArgs(append(base, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCompressWritesPrefixedOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "scan.png", 48, 70)

	out, err := execute(t, dir, "compress", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Success! "+input+" compressed with a drop rate of ")

	result, err := imageio.Load(filepath.Join(dir, "compressed_scan.png"))
	require.NoError(t, err)
	rows, cols := result.Dims()
	assert.Equal(t, 32, rows)
	assert.Equal(t, 64, cols)
}

func TestCompressFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "scan.png", 64, 64)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, dir, "compress", "--tolerance", "0", "--prefix", "z_", "--out-dir", outDir, "--metrics", input)
	require.NoError(t, err)
	assert.Contains(t, out, "drop rate of 0.00")
	assert.Contains(t, out, "PSNR")
	assert.FileExists(t, filepath.Join(outDir, "z_scan.png"))
}

func TestCompressContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	small := writeTestImage(t, dir, "small.png", 16, 40)
	good := writeTestImage(t, dir, "good.png", 32, 32)
	summaryPath := filepath.Join(dir, "summary.yaml")

	out, err := execute(t, dir, "compress", "--summary", summaryPath, small, good)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "Success! "+good)
	assert.NoFileExists(t, filepath.Join(dir, "compressed_small.png"))
	assert.FileExists(t, filepath.Join(dir, "compressed_good.png"))

	data, err := os.ReadFile(summaryPath)
	require.NoError(t, err)
	var summary models.RunSummary
	require.NoError(t, yaml.Unmarshal(data, &summary))
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Files, 2)
	assert.Equal(t, small, summary.Files[0].Input)
	assert.NotEmpty(t, summary.Files[0].Error)
	assert.NotEmpty(t, summary.Files[0].RunID)
	assert.Equal(t, 32, summary.Files[1].CroppedWidth)
	assert.Greater(t, summary.Files[1].Before, 0)
}

func TestCompressRejectsInvalidTolerance(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "scan.png", 32, 32)

	_, err := execute(t, dir, "compress", "--tolerance", "-1", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compression.tolerance")
	assert.NoFileExists(t, filepath.Join(dir, "compressed_scan.png"))
}

func TestCompressRequiresFiles(t *testing.T) {
	_, err := execute(t, t.TempDir(), "compress")
	assert.Error(t, err)
}

func TestLogFileIsWritten(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "scan.png", 32, 32)
	logPath := filepath.Join(dir, "logs", "run.log")

	_, err := execute(t, dir, "--log-level", "INFO", "--log-format", "json", "--log-file", logPath, "compress", input)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"compressed"`)
	assert.Contains(t, string(data), `"file":"`+input+`"`)
}

func TestSweepPrintsTableAndChart(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir, "scan.png", 64, 64)
	chartPath := filepath.Join(dir, "sweep.png")

	out, err := execute(t, dir, "sweep", "--tolerances", "0,0.5,1", "--chart", chartPath, input)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "tolerance")
	assert.Contains(t, lines[3], "1.0000")
	assert.FileExists(t, chartPath)
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "fftcompress.yaml")

	_, err := execute(t, dir, "config", "init", path)
	require.NoError(t, err)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), loaded)

	root := NewRoot(context.Background(), "test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "--log-level", "ERROR", "config", "show"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "tolerance: 0.0605")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "test\n", out)
}
