package table

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/ecomdata/safecsv/internal/classify"
	"github.com/ecomdata/safecsv/internal/detect"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func utf8Comma() detect.Result {
	return detect.Result{Encoding: "UTF-8", Delimiter: ','}
}

func TestLoadBasic(t *testing.T) {
	path := writeFile(t, "basic.csv", []byte("  name ,\"qty\",price\nwidget, 2 ,9.99\n"))

	tbl, err := Load(path, utf8Comma(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty", "price"}, tbl.Headers)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "widget", tbl.Rows[0][0].Text)
	assert.Equal(t, "2", tbl.Rows[0][1].Text, "cells are whitespace-trimmed")
}

func TestLoadRaggedRows(t *testing.T) {
	path := writeFile(t, "ragged.csv", []byte("a,b,c\n1,2\n1,2,3,4\n"))

	tbl, err := Load(path, utf8Comma(), nil)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	short := tbl.Rows[0]
	require.Len(t, short, 3, "short rows are padded to the header width")
	assert.False(t, short[1].Missing)
	assert.True(t, short[2].Missing, "the padded cell is an explicit missing marker")

	long := tbl.Rows[1]
	require.Len(t, long, 4, "extra fields ride along positionally")
	assert.Equal(t, "4", long[3].Text)
}

func TestLoadPreservesForceTextValues(t *testing.T) {
	path := writeFile(t, "ids.csv", []byte("order_id,amount\n12345678901234,1.5\n007,2.5\n"))
	directives := classify.Directives{"order_id": classify.ForceText}

	tbl, err := Load(path, utf8Comma(), directives)
	require.NoError(t, err)
	assert.Equal(t, "12345678901234", tbl.Rows[0][0].Text)
	assert.Equal(t, "007", tbl.Rows[1][0].Text)
	assert.True(t, tbl.Directives.IsForceText("order_id"))
}

func TestLoadGB18030(t *testing.T) {
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("订单编号,金额\n一二三,9.9\n"))
	require.NoError(t, err)
	path := writeFile(t, "gbk.csv", raw)

	tbl, err := Load(path, detect.Result{Encoding: "GB18030", Delimiter: ','}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"订单编号", "金额"}, tbl.Headers)
	assert.Equal(t, "一二三", tbl.Rows[0][0].Text)
}

func TestLoadUndecodableSource(t *testing.T) {
	// 0xFF is not valid UTF-8; strict loading must fail instead of
	// replacing characters.
	path := writeFile(t, "bad.csv", []byte{'a', ',', 'b', '\n', 0xFF, ',', 'x', '\n'})

	_, err := Load(path, utf8Comma(), nil)
	var undecodable *ErrUndecodableSource
	require.True(t, errors.As(err, &undecodable), "expected ErrUndecodableSource, got %v", err)
}

func TestLoadStripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", []byte("\xef\xbb\xbfname,qty\nw,1\n"))

	tbl, err := Load(path, utf8Comma(), nil)
	require.NoError(t, err)
	assert.Equal(t, "name", tbl.Headers[0])
}

func TestSampleBound(t *testing.T) {
	content := "id\n"
	for i := 0; i < 100; i++ {
		content += "row\n"
	}
	path := writeFile(t, "many.csv", []byte(content))

	headers, rows, err := Sample(path, utf8Comma(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, headers)
	assert.Len(t, rows, 10, "sample must stop at the row cap")
}

func TestSampleToleratesReplacementCharacters(t *testing.T) {
	// Detection-stage reads are lossy; only Load is strict.
	path := writeFile(t, "lossy.csv", []byte{'a', ',', 'b', '\n', 0xFF, ',', 'x', '\n'})

	headers, rows, err := Sample(path, utf8Comma(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, headers)
	require.Len(t, rows, 1)
}
