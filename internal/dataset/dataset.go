package dataset

import (
	"salescope/pkg/contracts/domain"
)

// MissingColumn is one entry of the missing-value report.
type MissingColumn struct {
	Column  string
	Count   int
	Percent float64
}

// Dataset is the cleaned, enriched record set produced by the joining and
// cleaning stages, together with its diagnostics. Each stage of the pipeline
// consumes the previous stage's output and produces a new value; a Dataset
// is never mutated after Clean returns it.
type Dataset struct {
	Rows []domain.Transaction

	// Columns records which source and derived columns exist in this run's
	// schema. Derivations that lost their source columns are simply absent.
	Columns map[string]bool

	DuplicatesRemoved int

	// Missing reports per-column missing-value counts after coercion,
	// sorted by count descending. Diagnostic only.
	Missing []MissingColumn
}

// HasColumn reports whether the named source or derived column is part of
// this run's schema.
func (d *Dataset) HasColumn(name string) bool {
	return d.Columns[name]
}

// NumericValues returns the non-missing values of a numeric column, in row
// order, and whether the column exists in the schema.
func (d *Dataset) NumericValues(name string) ([]float64, bool) {
	if !d.HasColumn(name) {
		return nil, false
	}
	for _, field := range numericFields {
		if field.name != name {
			continue
		}
		values := make([]float64, 0, len(d.Rows))
		for i := range d.Rows {
			if v := *field.ref(&d.Rows[i]); v != nil {
				values = append(values, *v)
			}
		}
		return values, true
	}
	return nil, false
}

// TextValues returns the non-missing values of a categorical column, in row
// order, and whether the column exists in the schema.
func (d *Dataset) TextValues(name string) ([]string, bool) {
	if !d.HasColumn(name) {
		return nil, false
	}
	for _, field := range textFields {
		if field.name != name {
			continue
		}
		values := make([]string, 0, len(d.Rows))
		for i := range d.Rows {
			if v := *field.ref(&d.Rows[i]); v != nil {
				values = append(values, *v)
			}
		}
		return values, true
	}
	return nil, false
}

// NumericColumnNames returns the numeric source columns present in the
// schema, in declaration order.
func (d *Dataset) NumericColumnNames() []string {
	names := make([]string, 0, len(numericFields))
	for _, field := range numericFields {
		if d.HasColumn(field.name) {
			names = append(names, field.name)
		}
	}
	return names
}

// TextColumnNames returns the categorical source columns present in the
// schema, in declaration order.
func (d *Dataset) TextColumnNames() []string {
	names := make([]string, 0, len(textFields))
	for _, field := range textFields {
		if d.HasColumn(field.name) {
			names = append(names, field.name)
		}
	}
	return names
}
