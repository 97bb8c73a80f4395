package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"salescope/internal/dataset"
	"salescope/internal/insights"
	"salescope/internal/segmentation"
	"salescope/pkg/contracts/domain"
)

// ReportData collects everything the text report renders.
type ReportData struct {
	GeneratedAt time.Time
	Dataset     *dataset.Dataset
	Summary     *insights.Summary
	Findings    []insights.Finding
	Numeric     []insights.ColumnStats
	Categorical []insights.CategoryStats
	RFM         *segmentation.RFMResult
	Products    *segmentation.ABCXYZResult
}

// WriteReport renders the human-readable analysis report to a text file.
func (w *CSVWriter) WriteReport(name string, data ReportData) error {
	fullPath := w.resolvePath(name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	var b strings.Builder
	section := func(title string) {
		b.WriteString("\n" + title + "\n")
		b.WriteString(strings.Repeat("-", len(title)) + "\n")
	}

	b.WriteString("SALES ANALYSIS REPORT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", data.GeneratedAt.Format("2006-01-02 15:04:05"))

	if data.Dataset != nil {
		section("DATA QUALITY")
		fmt.Fprintf(&b, "Rows analyzed: %d\n", len(data.Dataset.Rows))
		fmt.Fprintf(&b, "Duplicates removed: %d\n", data.Dataset.DuplicatesRemoved)
		if len(data.Dataset.Missing) == 0 {
			b.WriteString("No missing values detected\n")
		} else {
			b.WriteString("Missing values by column:\n")
			for _, m := range data.Dataset.Missing {
				fmt.Fprintf(&b, "  %-20s %6d (%.1f%%)\n", m.Column, m.Count, m.Percent)
			}
		}
	}

	if len(data.Findings) > 0 {
		section("KEY INSIGHTS")
		for i, f := range data.Findings {
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, f.Label, f.Value)
		}
	}

	if len(data.Numeric) > 0 {
		section("DESCRIPTIVE STATISTICS")
		fmt.Fprintf(&b, "%-20s %8s %12s %12s %12s %12s\n", "Column", "Count", "Mean", "Std", "Min", "Max")
		for _, s := range data.Numeric {
			fmt.Fprintf(&b, "%-20s %8d %12.2f %12.2f %12.2f %12.2f\n",
				s.Column, s.Count, s.Mean, s.Std, s.Min, s.Max)
		}
	}

	if len(data.Categorical) > 0 {
		section("CATEGORICAL COLUMNS")
		for _, s := range data.Categorical {
			fmt.Fprintf(&b, "%-20s %d unique values, most frequent: %s (%d)\n",
				s.Column, s.Unique, s.Top, s.TopCount)
		}
	}

	if data.RFM != nil {
		section("CUSTOMER SEGMENTS (RFM)")
		fmt.Fprintf(&b, "Snapshot date: %s\n", data.RFM.SnapshotDate.Format("2006-01-02"))
		if data.RFM.Bins < 5 {
			fmt.Fprintf(&b, "Note: reduced to %d quantile bins (small customer base)\n", data.RFM.Bins)
		}
		writeSegmentDistribution(&b, data.RFM)
	}

	if data.Products != nil {
		section("PRODUCT SEGMENTS (ABC-XYZ)")
		writeABCDistribution(&b, data.Products)
		if data.Products.XYZDegraded {
			b.WriteString("XYZ analysis unavailable: fewer than two calendar months of data\n")
		} else {
			writeXYZDistribution(&b, data.Products)
		}
	}

	writeRecommendations(&b, data)

	if err := os.WriteFile(fullPath, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

func writeSegmentDistribution(b *strings.Builder, res *segmentation.RFMResult) {
	counts := res.SegmentCounts()
	total := len(res.Profiles)
	order := []string{
		domain.SegmentChampions, domain.SegmentLoyal, domain.SegmentNew,
		domain.SegmentPromising, domain.SegmentNeedAttention,
		domain.SegmentHibernating, domain.SegmentRegular,
	}
	for _, segment := range order {
		count := counts[segment]
		if count == 0 {
			continue
		}
		fmt.Fprintf(b, "  %-16s %6d customers (%.1f%%)\n",
			segment, count, float64(count)/float64(total)*100)
	}
}

func writeABCDistribution(b *strings.Builder, res *segmentation.ABCXYZResult) {
	var total float64
	revenue := make(map[string]float64)
	for _, p := range res.Profiles {
		total += p.Revenue
		revenue[p.ABCCategory] += p.Revenue
	}
	counts := res.ABCCounts()
	for _, cat := range []string{domain.ABCCategoryA, domain.ABCCategoryB, domain.ABCCategoryC} {
		count := counts[cat]
		if count == 0 {
			continue
		}
		share := 0.0
		if total > 0 {
			share = revenue[cat] / total * 100
		}
		fmt.Fprintf(b, "  %s: %d products (%.1f%% of catalog), %.1f%% of revenue\n",
			cat, count, float64(count)/float64(len(res.Profiles))*100, share)
	}
}

func writeXYZDistribution(b *strings.Builder, res *segmentation.ABCXYZResult) {
	counts := res.XYZCounts()
	for _, cat := range []string{domain.XYZCategoryX, domain.XYZCategoryY, domain.XYZCategoryZ} {
		count := counts[cat]
		if count == 0 {
			continue
		}
		fmt.Fprintf(b, "  %s: %d products (%.1f%%)\n",
			cat, count, float64(count)/float64(len(res.Profiles))*100)
	}
}

func writeRecommendations(b *strings.Builder, data ReportData) {
	b.WriteString("\nRECOMMENDATIONS\n")
	b.WriteString(strings.Repeat("-", len("RECOMMENDATIONS")) + "\n")

	if data.RFM != nil {
		counts := data.RFM.SegmentCounts()
		if n := counts[domain.SegmentChampions]; n > 0 {
			fmt.Fprintf(b, "- Build a loyalty program for the %d Champions customers\n", n)
		}
		if n := counts[domain.SegmentHibernating]; n > 0 {
			fmt.Fprintf(b, "- Run a reactivation campaign for the %d Hibernating customers\n", n)
		}
		b.WriteString("- Personalize communication by RFM segment\n")
	}

	if data.Products != nil {
		var total, aRevenue float64
		for _, p := range data.Products.Profiles {
			total += p.Revenue
			if p.ABCCategory == domain.ABCCategoryA {
				aRevenue += p.Revenue
			}
		}
		if total > 0 {
			fmt.Fprintf(b, "- Focus promotion on A-category products (%.1f%% of revenue)\n",
				aRevenue/total*100)
		}
		if !data.Products.XYZDegraded {
			b.WriteString("- Optimize stock levels using the XYZ variability classes\n")
		}
	}

	if data.Summary != nil && data.Summary.BestRegion != "" {
		fmt.Fprintf(b, "- Expand presence in the %s region, the current revenue leader\n",
			data.Summary.BestRegion)
	}
	b.WriteString("- Re-run RFM and ABC-XYZ segmentation on a regular schedule\n")
}
