package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"reviewhub/internal/domain/evaluation"
)

// Report carries what the workload PDF prints above its tables.
type Report struct {
	CampaignName string
	Strategy     string
	Threshold    int
	GeneratedAt  time.Time
}

// WriteWorkloadPDF renders the workload table followed by the coverage table.
// Overloaded evaluators and blocked evaluatees are printed in red.
func WriteWorkloadPDF(w io.Writer, meta Report, workload []WorkloadRow, coverage []CoverageRow) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.CampaignName, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Evaluation workload: %s", meta.CampaignName))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Strategy: %s", meta.Strategy))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Threshold: %d evaluations", meta.Threshold))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Overloaded evaluators: %d of %d", OverloadedCount(workload), len(workload)))
	pdf.Ln(6)
	if !meta.GeneratedAt.IsZero() {
		pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", meta.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	header(pdf, []string{"Evaluator", "Boss", "Peer", "Team", "Total", "Load"}, []float64{70, 20, 20, 20, 20, 30})
	for _, r := range workload {
		if r.Load == evaluation.LoadHigh {
			pdf.SetTextColor(180, 0, 0)
		}
		cells(pdf, []float64{70, 20, 20, 20, 20, 30}, r.EvaluatorName, itoa(r.Boss), itoa(r.Peer), itoa(r.Team), itoa(r.Total), r.Load)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(8)
	header(pdf, []string{"Evaluatee", "In", "Out", "Findings"}, []float64{60, 15, 15, 90})
	for _, r := range coverage {
		if r.Blocked {
			pdf.SetTextColor(180, 0, 0)
		}
		cells(pdf, []float64{60, 15, 15, 90}, r.Name, itoa(r.Incoming), itoa(r.Outgoing), joinFindings(r.Findings))
		pdf.SetTextColor(0, 0, 0)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render workload pdf: %w", err)
	}
	return nil
}

func header(pdf *gofpdf.Fpdf, titles []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, title := range titles {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
}

func cells(pdf *gofpdf.Fpdf, widths []float64, values ...string) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, v := range values {
		pdf.CellFormat(widths[i], 6, tr(v), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func itoa(n int) string {
	return fmt.Sprintf("%d", n)
}
