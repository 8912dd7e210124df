package excel

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Seyfullahkurt9/warehouse-system-AP/internal/domain"

	"github.com/xuri/excelize/v2"
)

var headerAliases = map[string]string{
	"entry date":   "entry_date",
	"date":         "entry_date",
	"giris tarihi": "entry_date",
	"quantity":     "quantity",
	"qty":          "quantity",
	"stok miktari": "quantity",
	"order id":     "order_id",
	"order":        "order_id",
	"siparis id":   "order_id",
}

var requiredColumns = []string{"entry_date", "quantity", "order_id"}

// ParseStockEntryRows reads stock entries from the first sheet of an xlsx
// workbook. The first row is the header. Rows that cannot be parsed are
// returned as failures with their 1-based sheet row number; blank rows are
// skipped. A workbook without the required columns is rejected as a whole.
func ParseStockEntryRows(reader io.Reader) ([]domain.StockImportRow, []domain.StockImportFailure, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open excel file: %v", domain.ErrValidation, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: excel file has no sheets", domain.ErrValidation)
	}

	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: excel file is empty", domain.ErrValidation)
	}

	colMap := mapColumns(rows[0])
	for _, column := range requiredColumns {
		if _, ok := colMap[column]; !ok {
			return nil, nil, fmt.Errorf("%w: missing required column: %s", domain.ErrValidation, column)
		}
	}

	result := make([]domain.StockImportRow, 0, len(rows)-1)
	var failures []domain.StockImportFailure
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		rowNumber := index + 1
		if blankRow(cells) {
			continue
		}

		row, err := parseStockRow(cells, colMap)
		if err != nil {
			failures = append(failures, domain.StockImportFailure{
				RowNumber: rowNumber,
				Error:     err.Error(),
			})
			continue
		}
		row.RowNumber = rowNumber
		result = append(result, row)
	}

	if len(result) == 0 && len(failures) == 0 {
		return nil, nil, fmt.Errorf("%w: excel file has no data rows", domain.ErrValidation)
	}
	return result, failures, nil
}

func parseStockRow(cells []string, colMap map[string]int) (domain.StockImportRow, error) {
	entryDate, err := parseDateCell(readCell(cells, colMap["entry_date"]))
	if err != nil {
		return domain.StockImportRow{}, fmt.Errorf("invalid entry_date: %w", err)
	}
	qty, err := parseInt(readCell(cells, colMap["quantity"]), domain.MaxQuantity)
	if err != nil {
		return domain.StockImportRow{}, fmt.Errorf("invalid quantity: %w", err)
	}
	orderID, err := parseInt(readCell(cells, colMap["order_id"]), maxExactFloatInt)
	if err != nil {
		return domain.StockImportRow{}, fmt.Errorf("invalid order_id: %w", err)
	}
	return domain.StockImportRow{
		EntryDate: entryDate,
		Quantity:  int(qty),
		OrderID:   orderID,
	}, nil
}

// parseDateCell accepts typed dates as well as serial numbers, which is
// what date-formatted cells hold when read raw.
func parseDateCell(raw string) (domain.Date, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return domain.Date{}, fmt.Errorf("value is empty")
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.Date{}, fmt.Errorf("not a date")
		}
		return domain.DateOf(t), nil
	}
	parsed, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, fmt.Errorf("expected YYYY-MM-DD")
	}
	return parsed, nil
}

func blankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		normalized := normalizeHeader(col)
		if normalized == "" {
			continue
		}
		canonical, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	value = strings.Join(strings.Fields(value), " ")
	return value
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// maxExactFloatInt is the largest integer a float64 cell value holds exactly.
const maxExactFloatInt = 1 << 53

// parseInt reads an integral cell value whose magnitude is at most limit.
func parseInt(raw string, limit int64) (int64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, fmt.Errorf("value is empty")
	}

	asFloat, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if math.Mod(asFloat, 1) != 0 {
		return 0, fmt.Errorf("must be an integer")
	}
	if math.Abs(asFloat) > float64(limit) {
		return 0, fmt.Errorf("out of range")
	}
	return int64(asFloat), nil
}
