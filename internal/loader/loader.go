package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Bundle holds the four source tables of one analysis run.
type Bundle struct {
	Customer    Table
	Product     Table
	Sales       Table
	Territories Table
}

// Sources maps each logical table to its file path.
type Sources struct {
	Customer    string
	Product     string
	Sales       string
	Territories string
}

// LoadAll reads the four source files into memory. Any missing or unreadable
// file is fatal to the whole run: the pipeline produces no partial results.
func LoadAll(srcs Sources, logger *slog.Logger) (*Bundle, error) {
	bundle := &Bundle{}

	targets := []struct {
		name string
		path string
		dst  *Table
	}{
		{TableCustomer, srcs.Customer, &bundle.Customer},
		{TableProduct, srcs.Product, &bundle.Product},
		{TableSales, srcs.Sales, &bundle.Sales},
		{TableTerritories, srcs.Territories, &bundle.Territories},
	}

	for _, target := range targets {
		table, err := LoadTable(target.name, target.path)
		if err != nil {
			return nil, fmt.Errorf("load %s table: %w", target.name, err)
		}
		*target.dst = *table

		logger.Info("loaded source table",
			slog.String("table", target.name),
			slog.String("path", target.path),
			slog.Int("rows", len(table.Rows)),
			slog.Int("columns", len(table.Columns)))
	}

	return bundle, nil
}

// LoadTable reads a single tabular file. The format is chosen by extension:
// .xlsx/.xlsm via excelize, .csv via encoding/csv.
func LoadTable(name, path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadExcel(name, path)
	case ".csv":
		return loadCSV(name, path)
	default:
		return nil, fmt.Errorf("unsupported source format %q for %s", filepath.Ext(path), path)
	}
}

// loadExcel reads the first sheet that contains a header row plus data.
func loadExcel(name, path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, sheet := range f.GetSheetList() {
		sheetRows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(sheetRows) >= 2 && !isEmptyRow(sheetRows[0]) {
			rows = sheetRows
			sheetName = sheet
			break
		}
	}
	if sheetName == "" {
		return nil, fmt.Errorf("no sheet with tabular data in %s", path)
	}

	table := &Table{Name: name, Columns: rows[0]}
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	table.normalize()
	return table, nil
}

func loadCSV(name, path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file %s", path)
	}

	header := records[0]
	// Strip a UTF-8 BOM left by spreadsheet exports.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	table := &Table{Name: name, Columns: header}
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	table.normalize()
	return table, nil
}
