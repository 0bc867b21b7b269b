package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// 辅助函数：判断DataFrame是否有某列
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// TitleHeader 列名转表头: incident_rate_1985_1999 -> Incident Rate 1985 1999
func TitleHeader(col string) string {
	// Caser 有状态，不能跨 goroutine 共享
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(col, "_", " "))
}

// Sheet 导出到Excel的一个工作表
type Sheet struct {
	Name  string
	Frame dataframe.DataFrame
}

// WriteExcel 将多个DataFrame写成一个xlsx工作簿
// 缺失值(NaN)保留为空单元格
func WriteExcel(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("没有需要导出的工作表")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("重命名工作表失败: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("创建工作表失败: %w", err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("写入Excel失败: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	df := sheet.Frame
	if df.Err != nil {
		return fmt.Errorf("工作表 %s 数据无效: %w", sheet.Name, df.Err)
	}

	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet.Name, cell, TitleHeader(name)); err != nil {
			return err
		}
	}

	// Col 每次返回副本，先取出全部列
	cols := make([]series.Series, len(colNames))
	for i, name := range colNames {
		cols[i] = df.Col(name)
	}

	// 写入数据
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, col := range cols {
			elem := col.Elem(rowIdx)
			if elem.IsNA() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			var val interface{}
			switch col.Type() {
			case series.Int:
				n, err := elem.Int()
				if err != nil {
					return err
				}
				val = n
			case series.Float:
				val = elem.Float()
			default:
				val = elem.String()
			}
			if err := f.SetCellValue(sheet.Name, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveToExcel 写入本地文件
func SaveToExcel(filePath string, sheets ...Sheet) error {
	out, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	if err := WriteExcel(out, sheets...); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}
