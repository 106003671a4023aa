package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoRows 表示表格里没有任何"参数名 | 参数值"都非空的行。
	ErrNoRows = errors.New("Excel 中未找到有效数据（需要两列：参数名 | 参数值）")
	// ErrUnreadable wraps every failure to open or read the workbook.
	ErrUnreadable = errors.New("Excel 解析失败，请检查文件格式")
)

// SheetToText 读取第一个工作表的前两列，输出 "参数名: 参数值" 行，可直接交给 Parse。
func SheetToText(r io.Reader) (string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		name, value := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if name == "" || value == "" {
			continue
		}
		lines = append(lines, name+": "+value)
	}
	if len(lines) == 0 {
		return "", ErrNoRows
	}
	return strings.Join(lines, "\n"), nil
}
