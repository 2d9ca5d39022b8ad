package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"review360/internal/domain/evaluation"
	"review360/internal/domain/scoring"
)

const dateLayout = "2006-01-02"

// RenderTarget writes a one-target result report as A4 PDF.
func RenderTarget(w io.Writer, period evaluation.Period, score scoring.TargetScore) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(fmt.Sprintf("%s - %s", score.Name, period.Name)), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("360 Evaluation Results"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Name: %s", score.Name)))
	pdf.Ln(7)
	if score.Department != "" {
		pdf.Cell(0, 8, tr(fmt.Sprintf("Department: %s", score.Department)))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, tr(fmt.Sprintf("Period: %s (%s to %s)", period.Name, period.StartDate.Format(dateLayout), period.EndDate.Format(dateLayout))))
	pdf.Ln(10)

	pdf.Cell(0, 8, fmt.Sprintf("Overall: %.1f / 5", score.OverallAvg))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Self: %.1f   Others: %.1f (%d evaluators)", score.SelfScore, score.PeerAvg, score.PeerCount))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Confidence: %s (%.1f)", score.ConfidenceLabel, score.ConfidenceCoeff))
	pdf.Ln(12)

	categoryTable(pdf, tr, score.CategoryCompare)
	swotSection(pdf, tr, "Strengths", score.Swot.Peer.Strengths)
	swotSection(pdf, tr, "Weaknesses", score.Swot.Peer.Weaknesses)
	swotSection(pdf, tr, "Opportunities", score.Swot.Peer.Opportunities)

	if recs := score.Swot.Peer.Recommendations; len(recs) > 0 {
		heading(pdf, "Recommendations")
		for _, rec := range recs {
			pdf.MultiCell(0, 6, tr("- "+rec), "", "L", false)
		}
	}

	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 9, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
}

func categoryTable(pdf *gofpdf.Fpdf, tr func(string) string, rows []scoring.CategoryCompare) {
	if len(rows) == 0 {
		return
	}
	heading(pdf, "Categories")
	pdf.SetFont("Helvetica", "B", 11)
	for _, col := range []struct {
		title string
		width float64
	}{{"Category", 80}, {"Self", 30}, {"Others", 30}, {"Difference", 30}} {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(80, 7, tr(row.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, optional(row.Self, row.HasSelf), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, optional(row.Peer, row.HasPeer), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, optional(row.Diff, row.HasSelf && row.HasPeer), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(5)
}

func swotSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, items []scoring.SwotItem) {
	if len(items) == 0 {
		return
	}
	heading(pdf, title)
	for _, item := range items {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %.1f", item.Name, item.Score)))
		pdf.Ln(6)
	}
	pdf.Ln(3)
}

func optional(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}
