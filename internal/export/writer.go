// Package export produces spreadsheet exports of batch run results for
// the people who audit what went into the ITSM system.
package export

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"docbridge/internal/domain"
)

const sheetName = "Batch results"

// columns defines the header row of a batch result export.
var columns = []string{
	"File",
	"Status",
	"Contract ID",
	"Contract Name",
	"Document Attached",
	"Document Error",
	"Error Code",
	"Error Description",
	"Error",
	"Relocated To",
}

// BatchResultXLSX renders a finished batch run as an XLSX workbook.
func BatchResultXLSX(result *domain.BatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for i := range result.Results {
		if err := writeOutcomeRow(f, i+2, &result.Results[i]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeOutcomeRow(f *excelize.File, row int, o *domain.BatchFileOutcome) error {
	values := []any{
		filepath.Base(o.File),
		string(o.Status),
		optionalInt(o.ContractID),
		o.ContractName,
		o.DocumentAttached,
		o.DocumentError,
		optionalInt(o.ErrorCode),
		o.ErrorDescription,
		o.Error,
		o.RelocatedTo,
	}
	for col, v := range values {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}
	return nil
}

func optionalInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
