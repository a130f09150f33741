/*
statement.go - Final pay statement PDF

PURPOSE:
  Renders a single-page final pay statement for a termination case: the
  employment facts, the itemized breakdown, the statutory due date, and
  the checklist status. This is the paper artifact HR files with the
  termination record.

The statement is derived the same way the JSON calculation is; a case
that cannot be calculated (unknown jurisdiction, missing dates) cannot
produce a statement either.

SEE ALSO:
  - handlers.go: Statement handler registration
  - payroll/breakdown.go: the values printed here
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/saurellius/finalpay-engine/offboarding"
)

// Statement renders the final pay statement PDF for a case.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCase(w, r)
	if !ok {
		return
	}

	rule, err := h.Lookup(r.Context(), c.Jurisdiction)
	if err != nil {
		writeDomainError(w, "Jurisdiction lookup failed", err)
		return
	}
	calc, err := h.calculation(c.PayInputs(), c.TerminationDate, c.Type, rule)
	if err != nil {
		writeDomainError(w, "Calculation failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="final-pay-statement.pdf"`)
	// Headers are committed at this point; a render failure can only
	// truncate the stream.
	_ = writeStatement(w, c, calc)
}

func writeStatement(w http.ResponseWriter, c offboarding.Case, calc *CalculationDTO) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	marginL, marginT, marginR, _ := pdf.GetMargins()
	contentW := pageW - marginL - marginR

	// Header bar
	pdf.SetFillColor(30, 30, 30)
	pdf.Rect(marginL, marginT, contentW, 10, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL+2, marginT+1.5)
	pdf.CellFormat(contentW-4, 7, "FINAL PAY STATEMENT", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	y := marginT + 14

	// Case facts
	y = sectionHeader(pdf, marginL, y, contentW, "TERMINATION DETAILS")
	rows := [][2]string{
		{"Employee", c.EmployeeID},
		{"Case", c.ID},
		{"Jurisdiction", c.Jurisdiction},
		{"Termination type", string(c.Type)},
		{"Termination date", calcOrDash(c.TerminationDate.String(), c.TerminationDate.IsZero())},
		{"Final pay due", calc.DueDate + "  (" + calc.DeadlineRule + ")"},
	}
	y = kvRows(pdf, marginL, y, contentW, rows)
	y += 4

	// Breakdown table
	y = sectionHeader(pdf, marginL, y, contentW, "PAY BREAKDOWN")
	b := calc.Breakdown
	y = amountRows(pdf, marginL, y, contentW, [][2]string{
		{"Regular pay", b.RegularPay.String()},
		{"PTO payout (" + c.PTOHoursRemaining.String() + " h)", b.PTOPayout.String()},
		{"Reimbursements", b.Reimbursements.String()},
		{"Gross pay", b.GrossPay.String()},
		{"Federal tax", "-" + b.FederalTax.String()},
		{"State tax", "-" + b.StateTax.String()},
		{"FICA", "-" + b.FICA.String()},
		{"Garnishments", "-" + b.Garnishments.String()},
	})

	// Net pay emphasized
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW*0.6, 8, "NET PAY", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.4, 8, "$ "+b.NetPay.String(), "T", 1, "R", false, 0, "")
	y += 12

	// Checklist status
	y = sectionHeader(pdf, marginL, y, contentW, "OFFBOARDING CHECKLIST")
	pdf.SetFont("Helvetica", "", 9)
	for _, f := range offboarding.AllFlags {
		mark := "[ ]"
		if c.Checklist.Done(f) {
			mark = "[x]"
		}
		pdf.SetXY(marginL, y)
		pdf.CellFormat(contentW, 5.5, mark+"  "+string(f), "", 1, "L", false, 0, "")
		y += 5.5
	}

	y += 6
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(marginL, y)
	pdf.CellFormat(contentW, 5, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

func sectionHeader(pdf *fpdf.Fpdf, x, y, w float64, title string) float64 {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 5.5, title, "1", 1, "L", true, 0, "")
	return y + 5.5
}

func kvRows(pdf *fpdf.Fpdf, x, y, w float64, rows [][2]string) float64 {
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.SetXY(x, y)
		pdf.CellFormat(w*0.4, 6, row[0], "L", 0, "L", false, 0, "")
		pdf.CellFormat(w*0.6, 6, row[1], "R", 1, "L", false, 0, "")
		y += 6
	}
	return y
}

func amountRows(pdf *fpdf.Fpdf, x, y, w float64, rows [][2]string) float64 {
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.SetXY(x, y)
		pdf.CellFormat(w*0.6, 6, row[0], "L", 0, "L", false, 0, "")
		pdf.CellFormat(w*0.4, 6, "$ "+row[1], "R", 1, "R", false, 0, "")
		y += 6
	}
	return y
}

func calcOrDash(s string, missing bool) string {
	if missing {
		return "-"
	}
	return s
}

