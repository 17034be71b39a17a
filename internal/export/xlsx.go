package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/backend-quote/internal/render"
)

// XLSXContentType is the spreadsheet MIME type used for downloads and
// attachments alike.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Quotation"

// EncodeXLSX writes the grid into a single-sheet workbook. Cell values keep
// their Go types, so numbers land as spreadsheet numbers, not text.
func EncodeXLSX(grid render.Grid) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for c, width := range grid.ColumnWidths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", c+1, err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set width %s: %w", col, err)
		}
	}

	for r, row := range grid.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", c+1, r+1, err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("set %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
