// Package pdf renders printable job cards, packing lists and delivery notes.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	brand      = "Gilnokie Textile Management System"
	footerText = brand + " | This is a computer-generated document"
	fontFamily = "Helvetica"
	labelWidth = 50
	lineHeight = 6
)

// document wraps an A4 fpdf page with the layout shared by every export.
type document struct {
	pdf *fpdf.Fpdf
	// tr converts UTF-8 text to the code page of the core fonts.
	tr func(string) string
	// contentWidth is the page width inside the margins.
	contentWidth float64
}

func newDocument(title string, generated time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(title, true)
	pdf.SetCreator(brand, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, footerText, "T", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	w, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	d := &document{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		contentWidth: w - left - right,
	}

	pdf.SetFont(fontFamily, "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 10, d.tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 5, fmt.Sprintf("%s | Generated: %s", brand, generated.Format(dateLayout)), "B", 1, "L", false, 0, "")
	pdf.Ln(4)
	return d
}

func (d *document) section(title string) {
	d.pdf.Ln(2)
	d.pdf.SetFont(fontFamily, "B", 12)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.SetFillColor(235, 238, 242)
	d.pdf.CellFormat(0, 7, title, "", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

// row prints a label and its value on one line.
func (d *document) row(label, value string) {
	d.pdf.SetFont(fontFamily, "B", 10)
	d.pdf.SetTextColor(60, 60, 60)
	d.pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.MultiCell(0, lineHeight, d.tr(value), "", "L", false)
}

func (d *document) paragraph(s string) {
	d.pdf.SetFont(fontFamily, "", 10)
	d.pdf.SetTextColor(20, 20, 20)
	d.pdf.MultiCell(0, lineHeight, d.tr(s), "", "L", false)
}

func (d *document) note(s string) {
	d.pdf.SetFont(fontFamily, "I", 8)
	d.pdf.SetTextColor(100, 100, 100)
	d.pdf.CellFormat(0, 5, s, "", 1, "L", false, 0, "")
}

// table prints a header row and body rows in equal-width columns.
func (d *document) table(headers []string, rows [][]string) {
	w := d.contentWidth / float64(len(headers))

	d.pdf.SetFont(fontFamily, "B", 9)
	d.pdf.SetFillColor(245, 245, 245)
	d.pdf.SetTextColor(20, 20, 20)
	for _, h := range headers {
		d.pdf.CellFormat(w, 7, h, "1", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont(fontFamily, "", 9)
	for _, r := range rows {
		for _, cell := range r {
			d.pdf.CellFormat(w, 6, d.tr(cell), "1", 0, "L", false, 0, "")
		}
		d.pdf.Ln(-1)
	}
}

// signatures prints one signature block per label side by side.
func (d *document) signatures(labels ...string) {
	d.section("Signatures")
	w := d.contentWidth / float64(len(labels))
	d.pdf.SetFont(fontFamily, "B", 10)
	for _, l := range labels {
		d.pdf.CellFormat(w, lineHeight, l, "", 0, "L", false, 0, "")
	}
	d.pdf.Ln(12)
	d.pdf.SetFont(fontFamily, "", 10)
	for range labels {
		d.pdf.CellFormat(w, lineHeight, "_________________________", "", 0, "L", false, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont(fontFamily, "I", 8)
	for range labels {
		d.pdf.CellFormat(w, 5, "Signature & Date", "", 0, "L", false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
