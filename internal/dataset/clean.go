package dataset

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"salescope/internal/loader"
	"salescope/pkg/contracts/domain"
)

// Placeholder values used when imputing missing categorical product fields.
const (
	PlaceholderColor    = "Not Specified"
	PlaceholderCategory = "Unknown"
)

// dateLayouts are tried in order when coercing a date cell. Values straight
// out of excelize commonly arrive in the first two forms.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/2006",
	"1/2/06 15:04",
	time.RFC3339,
}

// Clean turns the joined raw table into the typed, enriched dataset:
// removes exact-duplicate rows, coerces each configured column to its
// declared type (failures become missing values, never errors), builds the
// missing-value report, imputes categorical product placeholders, and runs
// every producible derivation. now anchors the age calculation.
func Clean(joined *loader.Table, now time.Time, logger *slog.Logger) (*Dataset, error) {
	rows, removed := dedupRows(joined.Rows)
	if removed > 0 {
		logger.Info("removed duplicate rows", slog.Int("count", removed))
	}

	ds := &Dataset{
		Columns:           make(map[string]bool, len(joined.Columns)),
		DuplicatesRemoved: removed,
	}
	for _, col := range joined.Columns {
		ds.Columns[col] = true
	}

	ds.Rows = make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		ds.Rows = append(ds.Rows, coerceRow(joined, row))
	}

	ds.Missing = missingReport(ds)
	for _, m := range ds.Missing {
		logger.Debug("column has missing values",
			slog.String("column", m.Column),
			slog.Int("count", m.Count),
			slog.Float64("percent", m.Percent))
	}

	impute(ds)
	produced := derive(ds, now)

	logger.Info("cleaned dataset",
		slog.Int("rows", len(ds.Rows)),
		slog.Int("duplicates_removed", removed),
		slog.Any("derived_columns", produced))

	return ds, nil
}

// dedupRows drops rows whose cells are all equal to an earlier row,
// preserving first occurrences in order.
func dedupRows(rows [][]string) ([][]string, int) {
	seen := make(map[string]struct{}, len(rows))
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	return kept, len(rows) - len(kept)
}

// coerceRow builds a typed transaction from one raw row. Cells that fail
// coercion come out as nil, never as an error.
func coerceRow(t *loader.Table, row []string) domain.Transaction {
	tx := domain.Transaction{
		OrderNumber:  loader.Cell(row, t.ColumnIndex(ColSalesOrderNumber)),
		CustomerKey:  loader.Cell(row, t.ColumnIndex(ColCustomerKey)),
		ProductKey:   loader.Cell(row, t.ColumnIndex(ColProductKey)),
		TerritoryKey: loader.Cell(row, t.ColumnIndex(ColSalesTerritoryKey)),
	}

	for _, field := range dateFields {
		if idx := t.ColumnIndex(field.name); idx >= 0 {
			*field.ref(&tx) = parseDate(loader.Cell(row, idx))
		}
	}
	for _, field := range numericFields {
		if idx := t.ColumnIndex(field.name); idx >= 0 {
			*field.ref(&tx) = parseNumber(loader.Cell(row, idx))
		}
	}
	for _, field := range textFields {
		if idx := t.ColumnIndex(field.name); idx >= 0 {
			if cell := loader.Cell(row, idx); cell != "" {
				*field.ref(&tx) = &cell
			}
		}
	}
	return tx
}

func parseDate(cell string) *time.Time {
	if cell == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return &ts
		}
	}
	return nil
}

func parseNumber(cell string) *float64 {
	if cell == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// missingReport counts missing values per coerced column, sorted by count
// descending. Percentages are relative to the deduplicated row count.
func missingReport(ds *Dataset) []MissingColumn {
	total := len(ds.Rows)
	if total == 0 {
		return nil
	}

	var report []MissingColumn
	add := func(name string, count int) {
		if count == 0 {
			return
		}
		report = append(report, MissingColumn{
			Column:  name,
			Count:   count,
			Percent: float64(count) / float64(total) * 100,
		})
	}

	for _, field := range dateFields {
		if !ds.HasColumn(field.name) {
			continue
		}
		count := 0
		for i := range ds.Rows {
			if *field.ref(&ds.Rows[i]) == nil {
				count++
			}
		}
		add(field.name, count)
	}
	for _, field := range numericFields {
		if !ds.HasColumn(field.name) {
			continue
		}
		count := 0
		for i := range ds.Rows {
			if *field.ref(&ds.Rows[i]) == nil {
				count++
			}
		}
		add(field.name, count)
	}
	for _, field := range textFields {
		if !ds.HasColumn(field.name) {
			continue
		}
		count := 0
		for i := range ds.Rows {
			if *field.ref(&ds.Rows[i]) == nil {
				count++
			}
		}
		add(field.name, count)
	}

	sort.SliceStable(report, func(i, j int) bool { return report[i].Count > report[j].Count })
	return report
}

// impute fills missing categorical product fields with fixed placeholders.
// Numeric fields are never imputed; their nils propagate.
func impute(ds *Dataset) {
	fills := []struct {
		column      string
		placeholder string
		ref         func(*domain.Transaction) **string
	}{
		{ColColor, PlaceholderColor, func(t *domain.Transaction) **string { return &t.Color }},
		{ColSubCategory, PlaceholderCategory, func(t *domain.Transaction) **string { return &t.SubCategory }},
		{ColCategory, PlaceholderCategory, func(t *domain.Transaction) **string { return &t.Category }},
	}
	for _, fill := range fills {
		if !ds.HasColumn(fill.column) {
			continue
		}
		for i := range ds.Rows {
			ref := fill.ref(&ds.Rows[i])
			if *ref == nil {
				placeholder := fill.placeholder
				*ref = &placeholder
			}
		}
	}
}
