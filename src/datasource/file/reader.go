// reader.go
package file

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"AirlineSafety/src/model"
	"AirlineSafety/src/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

const (
	ColAirline     = "airline"
	ColAvailSeatKm = "avail_seat_km_per_week"
)

// RequiredColumns 源文件必须包含的列
var RequiredColumns = append([]string{ColAirline, ColAvailSeatKm}, model.RawCountColumns...)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMissingValue  = errors.New("missing value")
	ErrNonNumeric    = errors.New("non-numeric value")
	ErrInvalidCount  = errors.New("count must be a non-negative integer")
)

// LoadError 启动时加载源文件失败，进程无法继续
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load 读取源文件(.csv 或 .xlsx)并解析为航司记录
// 参数:
//
//	filePath: 源文件路径
//	sheetName: xlsx 工作表名，为空时取第一个工作表
func Load(filePath, sheetName string) ([]model.AirlineRecord, error) {
	df, err := ReadToDataFrame(filePath, sheetName)
	if err != nil {
		return nil, &LoadError{Path: filePath, Err: err}
	}

	records, err := ParseRecords(df)
	if err != nil {
		return nil, &LoadError{Path: filePath, Err: err}
	}
	return records, nil
}

// ReadToDataFrame 按扩展名选择读取方式，所有列均按字符串读入
func ReadToDataFrame(filePath, sheetName string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		return ReadXLSX(filePath, sheetName)
	default:
		return ReadCSV(filePath)
	}
}

func loadOptions() []dataframe.LoadOption {
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		// 缺失值只在数值列判断，航司名按原样保留(例如名为 "NA" 的航司)
		dataframe.NaNValues([]string{}),
	}
}

// missingTokens 数值列中视为缺失的写法
var missingTokens = []string{"", "NA", "NaN", "<nil>"}

func ReadCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read csv: %w", df.Err)
	}
	return normalizeNames(df)
}

func ReadXLSX(filePath, sheetName string) (dataframe.DataFrame, error) {
	xlFile, err := excelize.OpenFile(filePath)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("xlsx open file false: %w", err)
	}
	defer xlFile.Close()

	if sheetName == "" {
		sheets := xlFile.GetSheetList()
		if len(sheets) == 0 {
			return dataframe.DataFrame{}, fmt.Errorf("excel文件中没有工作表")
		}
		sheetName = sheets[0]
	}

	rows, err := xlFile.GetRows(sheetName)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sheet name %s 获取失败: %w", sheetName, err)
	}
	return convertRowsToDataFrame(rows)
}

// convertRowsToDataFrame 将工作表行转换为dataframe.DataFrame
// 第一行为标题行；GetRows 会截掉行尾空单元格，这里按标题宽度补齐
func convertRowsToDataFrame(rows [][]string) (dataframe.DataFrame, error) {
	if len(rows) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("sheet has no rows")
	}

	width := len(rows[0])
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		record := make([]string, width)
		copy(record, row)
		records = append(records, record)
	}

	df := dataframe.LoadRecords(records, loadOptions()...)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load rows: %w", df.Err)
	}
	return normalizeNames(df)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// normalizeNames 去掉列名两端空白和 UTF-8 BOM
func normalizeNames(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	names := df.Names()
	for i, n := range names {
		names[i] = strings.TrimSpace(strings.TrimPrefix(n, "\ufeff"))
	}
	if err := df.SetNames(names...); err != nil {
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// ParseRecords 校验列并把字符串列解析成数值
func ParseRecords(df dataframe.DataFrame) ([]model.AirlineRecord, error) {
	for _, col := range RequiredColumns {
		if !utils.HasColumn(df, col) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	airlines := df.Col(ColAirline).Records()
	avail := df.Col(ColAvailSeatKm).Records()

	records := make([]model.AirlineRecord, df.Nrow())
	for i := range records {
		// 第 1 行是标题，数据从第 2 行开始
		line := i + 2

		name := strings.TrimSpace(airlines[i])
		if name == "" {
			return nil, fmt.Errorf("row %d column %s: %w", line, ColAirline, ErrMissingValue)
		}

		askm, err := ParseSeatKm(avail[i])
		if err != nil {
			return nil, fmt.Errorf("row %d column %s: %w", line, ColAvailSeatKm, err)
		}

		records[i].Airline = name
		records[i].AvailSeatKmPerWeek = askm
	}

	for _, p := range model.Periods {
		for _, m := range model.MetricTypes {
			col := model.RawColumn(m, p)
			for i, raw := range df.Col(col).Records() {
				n, err := ParseCount(raw)
				if err != nil {
					return nil, fmt.Errorf("row %d column %s: %w", i+2, col, err)
				}
				records[i].SetCount(m, p, n)
			}
		}
	}

	return records, nil
}

func isMissing(s string) bool {
	return utils.Contains(missingTokens, strings.TrimSpace(s))
}

// ParseSeatKm 缺失值返回 0，由下游把比率标记为无定义
func ParseSeatKm(raw string) (float64, error) {
	if isMissing(raw) {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, raw)
	}
	return v, nil
}

// ParseCount 计数必须为非负整数，允许 "3.0" 这类写法
func ParseCount(raw string) (int, error) {
	if isMissing(raw) {
		return 0, ErrMissingValue
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, raw)
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, raw)
	}
	return int(v), nil
}

// DuplicateAirlines 返回出现多次的航司名，按首次出现顺序
func DuplicateAirlines(records []model.AirlineRecord) []string {
	seen := make(map[string]int, len(records))
	var dups []string
	for _, r := range records {
		seen[r.Airline]++
		if seen[r.Airline] == 2 {
			dups = append(dups, r.Airline)
		}
	}
	return dups
}
