package salesstat

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteReport(t *testing.T) {
	rep := &Report{
		Platform:   PlatformJD,
		SourceFile: "jd.csv",
		Rows: []SummaryRow{
			{ProductID: "P1", ProductName: "保温杯", SalesQty: 3, SalesAmount: 89.70, ReturnQty: 1, ReturnAmount: -29.90},
			{ProductID: "P2", ProductName: "茶壶", SalesQty: 1, SalesAmount: 99.00},
		},
		DetailHeaders: []string{"订单编号", "商品名称"},
		DetailRows:    [][]string{{"1001", "保温杯"}},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReport(rep, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{summarySheetName, detailSheetName}, f.GetSheetList())

	rows, err := f.GetRows(summarySheetName)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "商品编号", rows[0][0])
	assert.Equal(t, "保温杯", rows[1][1])
	assert.Equal(t, "茶壶", rows[2][1])

	detail, err := f.GetRows(detailSheetName)
	require.NoError(t, err)
	require.Len(t, detail, 2)
	assert.Equal(t, "1001", detail[1][0])

	// The totals block closes the summary sheet.
	var sawNet bool
	for _, r := range rows {
		if len(r) > 0 && r[0] == "净额" {
			sawNet = true
		}
	}
	assert.True(t, sawNet, "summary must end with the net total")
}

func TestWriteReportEmpty(t *testing.T) {
	rep := &Report{Platform: PlatformPDD, SourceFile: "empty.csv"}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteReport(rep, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), summarySheetName)
}
