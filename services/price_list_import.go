package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// priceListColumn is one column of the price-list sheet.
type priceListColumn struct {
	Key      string
	Label    string
	Required bool
}

var priceListColumns = []priceListColumn{
	{Key: "name", Label: "Name", Required: true},
	{Key: "category", Label: "Category", Required: true},
	{Key: "painted_price", Label: "Painted Price", Required: true},
	{Key: "unpainted_price", Label: "Unpainted Price", Required: true},
	{Key: "unit", Label: "Unit", Required: true},
	{Key: "min_quantity", Label: "Min Quantity"},
	{Key: "image_url", Label: "Image URL"},
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded price list.
type ValidationResult struct {
	TotalRows int               `json:"total_rows"`
	ValidRows int               `json:"valid_rows"`
	ErrorRows int               `json:"error_rows"`
	Errors    []ValidationError `json:"errors"`
	Products  []Product         `json:"-"`
	FileName  string            `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeaders maps uploaded column headers to column keys. Unknown headers
// map to "" and are returned separately.
func mapHeaders(headers []string) ([]string, []string) {
	labelToKey := make(map[string]string, len(priceListColumns))
	for _, c := range priceListColumns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidatePriceListFile parses a CSV or XLSX price list and validates every
// row against the catalog. Categories are matched by name, ignoring case.
func ValidatePriceListFile(catalog Catalog, file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeaders(headers)

	categoryByName := make(map[string]Category, len(catalog.Categories))
	for _, c := range catalog.Categories {
		categoryByName[strings.ToLower(c.Name)] = c
	}

	result := &ValidationResult{
		TotalRows: len(dataRows),
		FileName:  fileName,
	}
	errorRows := make(map[int]bool)

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		rowData := make(map[string]string)
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}

		var rowErrors []ValidationError
		for _, c := range priceListColumns {
			if c.Required && rowData[c.Key] == "" {
				rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: c.Label, Message: c.Label + " is required"})
			}
		}

		p := Product{Name: rowData["name"], ImageURL: rowData["image_url"]}
		if name := rowData["category"]; name != "" {
			if cat, ok := categoryByName[strings.ToLower(name)]; ok {
				p.CategoryID = cat.ID
			} else {
				rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: "Category", Message: fmt.Sprintf("No category named %q", name)})
			}
		}
		if v := rowData["unit"]; v != "" {
			unit, ok := ParseUnitKind(strings.ToLower(v))
			if !ok {
				rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: "Unit", Message: "Unit must be piece or meter"})
			}
			p.Unit = unit
		}
		p.PaintedPrice, rowErrors = parseRowNumber(rowData, "painted_price", "Painted Price", rowNum, rowErrors)
		p.UnpaintedPrice, rowErrors = parseRowNumber(rowData, "unpainted_price", "Unpainted Price", rowNum, rowErrors)
		p.MinQuantity, rowErrors = parseRowNumber(rowData, "min_quantity", "Min Quantity", rowNum, rowErrors)

		if len(rowErrors) == 0 {
			p = NormalizeProduct(p)
			for field, msg := range ValidateProduct(catalog, p) {
				rowErrors = append(rowErrors, ValidationError{Row: rowNum, Field: field, Message: msg})
			}
		}

		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			errorRows[rowNum] = true
			continue
		}
		result.Products = append(result.Products, p)
	}

	result.ErrorRows = len(errorRows)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

func parseRowNumber(rowData map[string]string, key, label string, rowNum int, errs []ValidationError) (float64, []ValidationError) {
	raw := strings.ReplaceAll(rowData[key], ",", "")
	if raw == "" {
		return 0, errs
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, append(errs, ValidationError{Row: rowNum, Field: label, Message: label + " must be a non-negative number"})
	}
	return v, errs
}

// ImportPriceList adds the validated products of a price list in one
// transaction. Nothing is stored if any row fails to save.
func (s *CatalogStore) ImportPriceList(result *ValidationResult) (int, error) {
	if result == nil || len(result.Products) == 0 {
		return 0, nil
	}

	err := s.app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("products")
		if err != nil {
			return fmt.Errorf("find products collection: %w", err)
		}
		for i, p := range result.Products {
			rec := core.NewRecord(col)
			setProductFields(rec, p)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save product %d (%s): %w", i+1, p.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("price_list_import: rolled back: %v", err)
		return 0, err
	}
	return len(result.Products), s.Reload()
}

// GeneratePriceListTemplate returns an empty price-list workbook with the
// expected headers and one example row.
func GeneratePriceListTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Price List"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	example := []any{"Channel 10x10", "Channels", 15, 12, "meter", 0.5, ""}
	for i, c := range priceListColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		label := c.Label
		if c.Required {
			label += " *"
		}
		f.SetCellValue(sheet, colName+"1", label)
		f.SetCellValue(sheet, colName+"2", example[i])
		f.SetColWidth(sheet, colName, colName, 18)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(priceListColumns))
	f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
