package utils

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]int{1, 2}, 3))
	assert.False(t, Contains(nil, "x"))
}

func TestHasColumn(t *testing.T) {
	df := dataframe.New(series.New([]string{"x"}, series.String, "airline"))
	assert.True(t, HasColumn(df, "airline"))
	assert.False(t, HasColumn(df, "value"))
}

func TestTitleHeader(t *testing.T) {
	assert.Equal(t, "Incident Rate 1985 1999", TitleHeader("incident_rate_1985_1999"))
	assert.Equal(t, "Avail Seat Km Per Week", TitleHeader("avail_seat_km_per_week"))
}

func testFrame() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"Aer Lingus", "Air Canada"}, series.String, "airline"),
		series.New([]int{2, 0}, series.Int, "incidents_1985_1999"),
		series.New([]float64{6.23, math.NaN()}, series.Float, "safety_score"),
	)
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	err := WriteExcel(&buf,
		Sheet{Name: "wide", Frame: testFrame()},
		Sheet{Name: "long", Frame: testFrame()},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"wide", "long"}, f.GetSheetList())

	rows, err := f.GetRows("wide")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Airline", "Incidents 1985 1999", "Safety Score"}, rows[0])
	assert.Equal(t, []string{"Aer Lingus", "2", "6.23"}, rows[1])
	// NaN 留空，行尾空单元格被 GetRows 截掉
	assert.Equal(t, []string{"Air Canada", "0"}, rows[2])
}

func TestWriteExcelNoSheets(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteExcel(&buf))
}

func TestSaveToExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, SaveToExcel(path, Sheet{Name: "wide", Frame: testFrame()}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("wide", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Aer Lingus", v)
}
