package salesstat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"9.99", 9.99},
		{"-12.5", -12.5},
		{"1,234.56", 1234.56},
		{" 42 ", 42},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseAmount(tt.in), "parseAmount(%q)", tt.in)
	}
}

func TestProcessJD(t *testing.T) {
	f := &Frame{
		Path:    "jd.csv",
		Headers: []string{"订单编号", "订单下单时间", "订单状态", "商品编号", "商品名称", "商品数量", "费用名称", "收支方向", "应结金额", "售后服务单号", "结算状态"},
		Rows: [][]string{
			// Two completed goods-fee sales of the same product.
			{"1001", "2025-01-02", "已完成", "P1", "保温杯", "2", "货款", "收入", "59.80", "", "已结算"},
			{"1002", "2025-01-03", "已完成", "P1", "保温杯", "1", "货款", "收入", "29.90", "", "已结算"},
			// Goods-fee expense with an after-sales id counts as a return.
			{"1003", "2025-01-04", "已完成", "P1", "保温杯", "1", "货款", "支出", "-29.90", "AS100", "已结算"},
			// Goods-fee expense without an after-sales id is ignored.
			{"1004", "2025-01-05", "已完成", "P1", "保温杯", "1", "货款", "支出", "-29.90", "", "已结算"},
			// Non-goods fee rows never contribute to the sums.
			{"1005", "2025-01-05", "已完成", "P1", "保温杯", "1", "运费", "收入", "8.00", "", "已结算"},
			// Not completed, dropped entirely.
			{"1006", "2025-01-06", "等待付款", "P2", "茶壶", "1", "货款", "收入", "99.00", "", "未结算"},
		},
	}

	rep, err := Process(f)
	require.NoError(t, err)
	assert.Equal(t, PlatformJD, rep.Platform)
	require.Len(t, rep.Rows, 1)

	row := rep.Rows[0]
	assert.Equal(t, "保温杯", row.ProductName)
	assert.Equal(t, "P1", row.ProductID)
	assert.InDelta(t, 3, row.SalesQty, 1e-9)
	assert.InDelta(t, 89.70, row.SalesAmount, 1e-9)
	assert.InDelta(t, 1, row.ReturnQty, 1e-9)
	assert.InDelta(t, -29.90, row.ReturnAmount, 1e-9)

	assert.Len(t, rep.DetailRows, 5, "completed rows only, fee noise included")
	assert.InDelta(t, 89.70, rep.TotalSales(), 1e-9)
	assert.InDelta(t, -29.90, rep.TotalReturns(), 1e-9)
}

func TestProcessTmallRecent(t *testing.T) {
	f := &Frame{
		Path:    "tm.xlsx",
		Headers: []string{"子订单编号", "主订单编号", "商品ID", "商品标题", "购买数量", "订单状态", "买家实付金额", "退款金额"},
		Rows: [][]string{
			{"s1", "m1", "100", "陶瓷碗", "2", "交易成功", "39.80", "0"},
			{"s2", "m2", "100", "陶瓷碗", "1", "交易成功", "19.90", "0"},
			// Closed order with a refund goes to the return side, negated.
			{"s3", "m3", "100", "陶瓷碗", "1", "交易关闭", "0", "19.90"},
			// Closed order without a refund contributes nothing.
			{"s4", "m4", "100", "陶瓷碗", "1", "交易关闭", "0", "0"},
			// Rows without a product id are skipped.
			{"s5", "m5", "", "未知", "1", "交易成功", "9.90", "0"},
		},
	}

	rep, err := ProcessAs(f, PlatformTmallRecent)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)

	row := rep.Rows[0]
	assert.Equal(t, "100", row.ProductID)
	assert.Equal(t, "陶瓷碗", row.ProductName)
	assert.InDelta(t, 3, row.SalesQty, 1e-9)
	assert.InDelta(t, 59.70, row.SalesAmount, 1e-9)
	assert.InDelta(t, 1, row.ReturnQty, 1e-9)
	assert.InDelta(t, -19.90, row.ReturnAmount, 1e-9)
}

func TestProcessTmallHistoryTitleColumn(t *testing.T) {
	f := &Frame{
		Path:    "tm-old.csv",
		Headers: []string{"主订单编号", "子订单编号", "商品ID", "标题", "商家编码", "购买数量", "订单状态", "买家实付金额", "退款金额"},
		Rows: [][]string{
			{"m1", "s1", "200", "玻璃杯", "SKU-1", "1", "交易成功", "12.00", "0"},
		},
	}

	rep, err := ProcessAs(f, PlatformTmallHistory)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "玻璃杯", rep.Rows[0].ProductName, "historic exports use the short title column")
}

func TestProcessPDD(t *testing.T) {
	f := &Frame{
		Path:    "pdd.csv",
		Headers: []string{"商品", "订单号", "订单状态", "商品总价(元)", "用户实付金额(元)", "商家实收金额(元)", "商品数量(件)", "商品id", "样式ID", "售后状态"},
		Rows: [][]string{
			{"毛巾", "o1", "已发货", "20.00", "18.00", "17.50", "2", "p1", "style-a", "无售后"},
			// Refunded row counts on both sides.
			{"毛巾", "o2", "已发货", "10.00", "9.00", "8.75", "1", "p1", "style-a", "退款成功"},
			// Cancelled orders are dropped before grouping.
			{"毛巾", "o3", "已取消", "10.00", "9.00", "0", "1", "p1", "style-a", "无售后"},
			// Missing style id falls into the unknown-style group.
			{"浴巾", "o4", "已发货", "30.00", "28.00", "27.00", "1", "p2", "", "无售后"},
		},
	}

	rep, err := ProcessAs(f, PlatformPDD)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	byName := map[string]SummaryRow{}
	for _, r := range rep.Rows {
		byName[r.ProductName] = r
	}

	towel := byName["毛巾"]
	assert.InDelta(t, 3, towel.SalesQty, 1e-9)
	assert.InDelta(t, 26.25, towel.SalesAmount, 1e-9)
	assert.InDelta(t, 1, towel.ReturnQty, 1e-9)
	assert.InDelta(t, -9.00, towel.ReturnAmount, 1e-9)

	bath := byName["浴巾"]
	assert.InDelta(t, 27.00, bath.SalesAmount, 1e-9)
	assert.Len(t, rep.DetailRows, 3, "cancelled rows are excluded from the detail sheet")
}

func TestProcessDouyin(t *testing.T) {
	f := &Frame{
		Path:    "dy.csv",
		Headers: []string{"主订单编号", "选购商品", "商品ID", "商品金额", "商品数量", "订单提交时间", "订单完成时间", "订单状态", "售后状态"},
		Rows: [][]string{
			{"d1", "风扇", "f1", "99.00", "2", "2025-06-01", "2025-06-05", "已完成", ""},
			// Any non-completed state lands on the return side.
			{"d2", "风扇", "f1", "99.00", "1", "2025-06-02", "", "已关闭", "退款完成"},
		},
	}

	rep, err := ProcessAs(f, PlatformDouyin)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)

	row := rep.Rows[0]
	assert.InDelta(t, 2, row.SalesQty, 1e-9)
	assert.InDelta(t, 198.00, row.SalesAmount, 1e-9, "payable is unit price times quantity")
	assert.InDelta(t, 1, row.ReturnQty, 1e-9)
	assert.InDelta(t, -99.00, row.ReturnAmount, 1e-9)
}

func TestProcessAsUnknownPlatform(t *testing.T) {
	_, err := ProcessAs(&Frame{}, Platform("EBAY"))
	assert.Error(t, err)
}

func TestSummaryRowsSorted(t *testing.T) {
	g := newGroups()
	g.get("b", "2", "乙商品").SalesAmount = 1
	g.get("a", "1", "甲商品").SalesAmount = 2

	rows := g.rows()
	require.Len(t, rows, 2)
	assert.True(t, rows[0].ProductName < rows[1].ProductName, "summary rows are sorted by product name")
}
