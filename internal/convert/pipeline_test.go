package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ecomdata/safecsv/internal/config"
	"go.uber.org/zap"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	return New(config.Default(), zap.NewNop())
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvertFileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"order_id,note,amount",
		"00701,hello,9.99",
		"00702,=cmd|' /c calc'!A1,-5",
		"00703,plain,12.50",
	}, "\n") + "\n"
	path := writeCSV(t, dir, "orders.csv", content)

	p := newTestPipeline(t)
	res := p.ConvertFile(context.Background(), path, Options{OnConflict: ConflictRename})

	require.Equal(t, StatusSuccess, res.Status, "unexpected result: %+v", res)
	assert.Equal(t, filepath.Join(dir, "xlsx_orders.xlsx"), res.Output)
	assert.Equal(t, 1, res.Sanitized, "the DDE payload is the only flagged cell")
	assert.GreaterOrEqual(t, res.ForceText, 1, "leading-zero ids force the column to text")

	f, err := excelize.OpenFile(res.Output)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "00701", id, "leading zeros survive the round trip")

	payload, err := f.GetCellValue("Sheet1", "B3")
	require.NoError(t, err)
	assert.Equal(t, "'=cmd|' /c calc'!A1", payload, "payload is neutralized but recoverable")

	amount, err := f.GetCellValue("Sheet1", "C3")
	require.NoError(t, err)
	assert.Equal(t, "-5", amount, "negative numbers are data, not payloads")
}

func TestConvertFileEmptySourceSkipped(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "empty.csv", "")

	p := newTestPipeline(t)
	res := p.ConvertFile(context.Background(), path, Options{OnConflict: ConflictRename})

	assert.Equal(t, StatusSkipped, res.Status)
	assert.NoError(t, res.Err)
	assert.NoFileExists(t, filepath.Join(dir, "xlsx_empty.xlsx"))
}

func TestConvertFileConflictSkip(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "orders.csv", "a,b\n1,2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xlsx_orders.xlsx"), []byte("old"), 0o644))

	p := newTestPipeline(t)
	res := p.ConvertFile(context.Background(), path, Options{OnConflict: ConflictSkip})

	assert.Equal(t, StatusSkipped, res.Status)

	old, err := os.ReadFile(filepath.Join(dir, "xlsx_orders.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old), "skip must leave the existing output untouched")
}

func TestConvertFileCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "orders.csv", "a,b\n1,2\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newTestPipeline(t)
	res := p.ConvertFile(ctx, path, Options{OnConflict: ConflictRename})

	assert.Equal(t, StatusFailed, res.Status)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestConvertBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "good.csv", "a,b\n1,2\n")
	bad := writeCSV(t, dir, "bad.csv", "a,b\n1,2\n")

	// A directory squatting on bad.csv's output makes only that file's
	// write fail.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "xlsx_bad.xlsx"), 0o755))

	p := newTestPipeline(t)
	results := p.ConvertBatch(context.Background(), []string{good, bad}, Options{OnConflict: ConflictOverwrite})

	require.Len(t, results, 2)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Error(t, results[1].Err)
	assert.FileExists(t, filepath.Join(dir, "xlsx_good.xlsx"), "one bad file must not sink the batch")
}

func TestConvertBatchOrderAndProgress(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"one.csv", "two.csv", "three.csv"} {
		paths = append(paths, writeCSV(t, dir, name, "a,b\n1,2\n3,4\n"))
	}

	var progressed int
	p := newTestPipeline(t)
	results := p.ConvertBatch(context.Background(), paths, Options{
		OnConflict:  ConflictRename,
		Concurrency: 4,
		Progress:    func(Result) { progressed++ },
	})

	require.Len(t, results, len(paths))
	for i, res := range results {
		assert.Equal(t, paths[i], res.Path, "results keep input order")
		assert.Equal(t, StatusSuccess, res.Status)
	}
	assert.Equal(t, len(paths), progressed)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Status: StatusSuccess, Sanitized: 2},
		{Status: StatusSuccess},
		{Status: StatusSkipped},
		{Status: StatusFailed},
	}
	s := Summarize(results)
	assert.Equal(t, Summary{Total: 4, Succeeded: 2, Skipped: 1, Failed: 1, SanitizedCells: 2}, s)
}
