package excel

import (
	"fmt"
	"io"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func WriteStockSummary(w io.Writer, rows []domain.StockSummaryRow) error {
	headers := []string{"Product Code", "Product Name", "Supplier", "Total Quantity", "Available Quantity", "Last Entry Date"}
	data := make([][]any, 0, len(rows))
	for _, row := range rows {
		lastEntry := ""
		if row.LastEntryDate != nil {
			lastEntry = row.LastEntryDate.String()
		}
		data = append(data, []any{
			row.ProductCode, row.ProductName, row.Supplier,
			row.TotalQuantity, row.AvailableQuantity, lastEntry,
		})
	}
	return writeSheet(w, "Stock Summary", headers, data)
}

func WriteLowStockAlerts(w io.Writer, alerts []domain.LowStockAlert) error {
	headers := []string{"Product Code", "Product Name", "Supplier", "Supplier Phone", "Available Quantity"}
	data := make([][]any, 0, len(alerts))
	for _, alert := range alerts {
		data = append(data, []any{
			alert.ProductCode, alert.ProductName, alert.Supplier,
			alert.SupplierPhone, alert.AvailableQuantity,
		})
	}
	return writeSheet(w, "Low Stock", headers, data)
}

func WriteStockMovement(w io.Writer, events []domain.MovementEvent) error {
	headers := []string{"Date", "Type", "Product Code", "Product Name", "Quantity", "Personnel"}
	data := make([][]any, 0, len(events))
	for _, event := range events {
		data = append(data, []any{
			event.Date.String(), string(event.Type), event.ProductCode,
			event.ProductName, event.Quantity, event.Personnel,
		})
	}
	return writeSheet(w, "Stock Movement", headers, data)
}

// writeSheet renders a single-sheet workbook with a bold header on row 1
// and one data row per entry below it.
func writeSheet(w io.Writer, sheetName string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, header := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		f.SetColWidth(sheetName, col, col, 20)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
