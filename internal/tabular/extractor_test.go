package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsFromRowsParsesTableAfterHeader(t *testing.T) {
	rows := [][]string{
		{"注文書"},
		{"商品ID", "数量", "単価"},
		{"P-001", "3", "1,200"},
		{"P-002", "10", "800"},
		{"合計", "13"},
		{"P-999", "1"},
	}

	items := itemsFromRows(rows)
	require.Len(t, items, 2)
	assert.Equal(t, Item{ProductID: "P-001", Quantity: 3}, items[0])
	assert.Equal(t, Item{ProductID: "P-002", Quantity: 10}, items[1])
}

func TestItemsFromRowsEnglishHeader(t *testing.T) {
	rows := [][]string{
		{"Product", "Qty"},
		{"WIDGET-7", "4"},
	}

	items := itemsFromRows(rows)
	require.Len(t, items, 1)
	assert.Equal(t, "WIDGET-7", items[0].ProductID)
	assert.Equal(t, 4, items[0].Quantity)
}

func TestItemsFromRowsHeaderNeedsBothLabels(t *testing.T) {
	rows := [][]string{
		{"商品ID", "単価"},
		{"P-001", "3"},
	}
	assert.Nil(t, itemsFromRows(rows))
}

func TestItemsFromRowsStopsAtBlankRow(t *testing.T) {
	rows := [][]string{
		{"商品", "数量"},
		{"P-001", "2"},
		{},
		{"P-002", "5"},
	}

	items := itemsFromRows(rows)
	require.Len(t, items, 1)
	assert.Equal(t, "P-001", items[0].ProductID)
}

func TestItemsFromRowsSkipsMalformedDataRows(t *testing.T) {
	rows := [][]string{
		{"商品", "数量"},
		{"P-001", "三"},
		{"P-002"},
		{"P-003", "7"},
	}

	items := itemsFromRows(rows)
	require.Len(t, items, 1)
	assert.Equal(t, Item{ProductID: "P-003", Quantity: 7}, items[0])
}

func TestItemsFromRowsNoHeaderNoItems(t *testing.T) {
	assert.Nil(t, itemsFromRows([][]string{{"ご注文ありがとうございます"}, {"P-001", "3"}}))
	assert.Nil(t, itemsFromRows(nil))
}

func TestItemsFromLinesMatchesPricedLines(t *testing.T) {
	text := "お見積もり\n" +
		"ノートPC スタンダード 98,000 2 196,000\n" +
		"USBケーブル 1,200 10 12,000\n" +
		"送料無料\n"

	items := itemsFromLines(text)
	require.Len(t, items, 2)
	assert.Equal(t, Item{ProductID: "ノートPC スタンダード", Quantity: 2}, items[0])
	assert.Equal(t, Item{ProductID: "USBケーブル", Quantity: 10}, items[1])
}

func TestItemsFromLinesIgnoresProse(t *testing.T) {
	assert.Empty(t, itemsFromLines("納品希望日: 2025-08-01\nよろしくお願いします"))
}

func TestParseQuantityDigitsOnly(t *testing.T) {
	for in, want := range map[string]int{"3": 3, " 12 ": 12} {
		got, ok := parseQuantity(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "3個", "-1", "1.5"} {
		_, ok := parseQuantity(in)
		assert.False(t, ok, in)
	}
}

func TestItemsDegradesOnGarbageBytes(t *testing.T) {
	e := New(nil)
	assert.Nil(t, e.Items(nil))
	assert.Nil(t, e.Items([]byte("not a pdf at all")))
}
