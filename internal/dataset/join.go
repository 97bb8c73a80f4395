package dataset

import (
	"fmt"
	"log/slog"

	"salescope/internal/loader"
)

// Join denormalizes the four source tables into one record set, one row per
// sales-transaction line. Left-join semantics throughout: every sales row is
// preserved, and an unmatched customer, product or territory key yields
// empty attribute cells rather than dropping the row. No deduplication
// happens here.
func Join(b *loader.Bundle, logger *slog.Logger) (*loader.Table, error) {
	if len(b.Sales.Columns) == 0 {
		return nil, fmt.Errorf("sales table has no columns")
	}

	dims := []dimensionJoin{
		newDimensionJoin(&b.Customer, ColCustomerKey),
		newDimensionJoin(&b.Product, ColProductKey),
		newDimensionJoin(&b.Territories, ColSalesTerritoryKey),
	}

	joined := &loader.Table{Name: "joined"}
	joined.Columns = append(joined.Columns, b.Sales.Columns...)
	for _, dim := range dims {
		for _, idx := range dim.attrCols {
			joined.Columns = append(joined.Columns, dim.table.Columns[idx])
		}
	}

	joined.Rows = make([][]string, 0, len(b.Sales.Rows))
	for _, salesRow := range b.Sales.Rows {
		row := make([]string, 0, len(joined.Columns))
		row = append(row, salesRow...)
		for _, dim := range dims {
			row = append(row, dim.attributesFor(&b.Sales, salesRow)...)
		}
		joined.Rows = append(joined.Rows, row)
	}

	logger.Info("joined source tables",
		slog.Int("rows", len(joined.Rows)),
		slog.Int("columns", len(joined.Columns)))

	return joined, nil
}

// dimensionJoin holds the lookup state for left-joining one dimension table
// onto the sales table.
type dimensionJoin struct {
	table    *loader.Table
	key      string
	attrCols []int               // dimension columns carried over, key excluded
	lookup   map[string][]string // key value -> first matching dimension row
}

func newDimensionJoin(table *loader.Table, key string) dimensionJoin {
	dim := dimensionJoin{table: table, key: key}

	keyIdx := table.ColumnIndex(key)
	for i := range table.Columns {
		if i != keyIdx {
			dim.attrCols = append(dim.attrCols, i)
		}
	}

	if keyIdx < 0 {
		// No key column on the dimension side: every sales row is
		// unmatched and gets null attributes.
		return dim
	}

	dim.lookup = make(map[string][]string, len(table.Rows))
	for _, row := range table.Rows {
		k := loader.Cell(row, keyIdx)
		if k == "" {
			continue
		}
		if _, seen := dim.lookup[k]; !seen {
			dim.lookup[k] = row
		}
	}
	return dim
}

// attributesFor resolves the dimension attributes for one sales row,
// returning empty cells when the foreign key does not resolve.
func (d *dimensionJoin) attributesFor(sales *loader.Table, salesRow []string) []string {
	attrs := make([]string, len(d.attrCols))

	salesKeyIdx := sales.ColumnIndex(d.key)
	if salesKeyIdx < 0 || d.lookup == nil {
		return attrs
	}

	match, ok := d.lookup[loader.Cell(salesRow, salesKeyIdx)]
	if !ok {
		return attrs
	}
	for i, idx := range d.attrCols {
		attrs[i] = loader.Cell(match, idx)
	}
	return attrs
}
