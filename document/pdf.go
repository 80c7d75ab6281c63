package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Page layout, in millimeters on an A4 portrait page.
const (
	marginLeft   = 20.0
	marginRight  = 190.0
	middle       = 105.0
	pageBreakY   = 270.0
	footerY      = 280.0
	lineHeight   = 5.0
	rowHeight    = 7.0
	tableRow     = 8.0
	imageSize    = 50.0
	defaultWidth = marginRight - marginLeft
)

// pdfWriter draws a document top to bottom, keeping track of the current line.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	y   float64
}

func (w *pdfWriter) font(style string, size float64) { w.pdf.SetFont("Helvetica", style, size) }

func (w *pdfWriter) text(x float64, s string) { w.pdf.Text(x, w.y, w.tr(s)) }

func (w *pdfWriter) textRight(x float64, s string) {
	s = w.tr(s)
	w.pdf.Text(x-w.pdf.GetStringWidth(s), w.y, s)
}

func (w *pdfWriter) textCenter(s string) {
	s = w.tr(s)
	w.pdf.Text(middle-w.pdf.GetStringWidth(s)/2, w.y, s)
}

func (w *pdfWriter) rule(width float64) {
	w.pdf.SetLineWidth(width)
	w.pdf.Line(marginLeft, w.y, marginRight, w.y)
}

// room adds a page when less than h millimeters are left before the footer.
func (w *pdfWriter) room(h float64) {
	if w.y+h > pageBreakY {
		w.pdf.AddPage()
		w.y = 20
	}
}

func (w *pdfWriter) title(s string) {
	w.room(2 * rowHeight)
	w.y += rowHeight
	w.font("B", 12)
	w.text(marginLeft, s)
	w.y += rowHeight
	w.font("", 10)
}

// WritePDF renders the document as PDF to out.
func (d *Document) WritePDF(out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(d.Title, true)
	pdf.SetCreator(Brand, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	w := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), y: 20}

	// header
	w.font("B", 22)
	w.text(marginLeft, Brand)
	w.y += 10
	w.font("", 14)
	w.text(marginLeft, d.Title)
	w.font("", 10)
	for i, m := range d.Meta {
		s := w.tr(m)
		pdf.Text(marginRight-pdf.GetStringWidth(s), 20+float64(i)*lineHeight, s)
	}
	w.y = max(w.y, 20+float64(len(d.Meta))*lineHeight) + lineHeight
	w.rule(0.5)
	w.y += rowHeight

	for i, block := range d.Blocks {
		switch v := block.(type) {
		case Parties:
			w.drawParties(v)
		case Fields:
			w.drawFields(v)
		case Table:
			w.drawTable(v)
		case Total:
			w.drawTotal(v)
		case Image:
			if err := w.drawImage(fmt.Sprintf("image%d", i), v); err != nil {
				return err
			}
		case Text:
			w.drawText(v)
		}
	}

	pdf.SetTextColor(150, 150, 150)
	w.font("", 10)
	w.y = footerY
	for _, line := range d.Footer {
		w.textCenter(line)
		w.y += lineHeight
	}

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("cannot write pdf %q: %w", d.Filename, err)
	}
	return nil
}

func (w *pdfWriter) drawParties(v Parties) {
	n := max(len(v.Left.Lines), len(v.Right.Lines))
	w.room(float64(n+2) * lineHeight)
	w.font("B", 10)
	w.text(marginLeft, v.Left.Label)
	w.text(middle+5, v.Right.Label)
	w.font("", 10)
	for i := range n {
		w.y += lineHeight
		w.text(marginLeft, at(v.Left.Lines, i))
		w.text(middle+5, at(v.Right.Lines, i))
	}
	w.y += 2 * lineHeight
	w.rule(0.5)
	w.y += lineHeight
}

func (w *pdfWriter) drawFields(v Fields) {
	if v.Title != "" {
		w.title(v.Title)
	}
	w.font("", 10)
	columns := max(v.Columns, 1)
	colWidth := defaultWidth / float64(columns)
	for i, f := range v.Rows {
		col := i % columns
		if col == 0 {
			w.room(rowHeight)
		}
		x := marginLeft + float64(col)*colWidth
		w.font("B", 10)
		w.text(x, f.Label)
		w.font("", 10)
		w.text(x+colWidth*0.4, f.Value)
		if col == columns-1 || i == len(v.Rows)-1 {
			w.y += rowHeight
		}
	}
}

func (w *pdfWriter) drawTable(v Table) {
	if v.Title != "" {
		w.title(v.Title)
	}
	widths := v.Widths
	if len(widths) != len(v.Header) {
		widths = make([]float64, len(v.Header))
		for i := range widths {
			widths[i] = defaultWidth / float64(len(v.Header))
		}
	}
	var total float64
	for _, cw := range widths {
		total += cw
	}

	header := func() {
		w.font("B", 10)
		w.pdf.SetFillColor(230, 230, 230)
		w.pdf.Rect(marginLeft, w.y, total, tableRow, "F")
		w.row(widths, v.Header)
	}
	w.room(2 * tableRow)
	header()
	w.font("", 10)
	for _, cells := range v.Rows {
		if w.y+tableRow > pageBreakY {
			w.pdf.AddPage()
			w.y = 20
			header()
			w.font("", 10)
		}
		w.row(widths, cells)
	}
	w.y += lineHeight
}

// row prints cells on the current table row and moves to the next one.
func (w *pdfWriter) row(widths []float64, cells []string) {
	x := marginLeft
	baseline := w.y + tableRow - 3
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		w.pdf.Text(x+2, baseline, w.tr(cell))
		x += widths[i]
	}
	w.y += tableRow
}

func (w *pdfWriter) drawTotal(v Total) {
	w.room(3 * rowHeight)
	w.pdf.SetLineWidth(0.5)
	w.pdf.Line(middle, w.y, marginRight, w.y)
	w.y += rowHeight + 1
	w.font("B", 14)
	w.text(middle+2, v.Label)
	w.font("B", 18)
	w.textRight(marginRight-2, v.Value)
	w.y += 2 * rowHeight
	w.font("", 10)
}

func (w *pdfWriter) drawImage(name string, v Image) error {
	w.room(imageSize + rowHeight)
	w.font("B", 10)
	w.text(middle+5, v.Label)
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	w.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(v.PNG))
	if err := w.pdf.Error(); err != nil {
		return fmt.Errorf("cannot embed %q: %w", v.Label, err)
	}
	w.pdf.ImageOptions(name, middle+5, w.y+2, imageSize, imageSize, false, opt, 0, "")
	w.y += imageSize + rowHeight
	w.font("", 10)
	return nil
}

func (w *pdfWriter) drawText(v Text) {
	if v.Title != "" {
		w.title(v.Title)
	}
	w.font("", 10)
	for _, line := range v.Lines {
		w.room(lineHeight)
		w.text(marginLeft+2, line)
		w.y += lineHeight + 1
	}
	w.y += lineHeight
}

// PDF returns the document as PDF bytes.
func (d *Document) PDF() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WritePDF(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DataURI returns the PDF as a data URI, suitable for an in-browser preview.
func (d *Document) DataURI() (string, error) {
	data, err := d.PDF()
	if err != nil {
		return "", err
	}
	return "data:application/pdf;filename=" + d.Filename + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Save writes the PDF into dir under its suggested file name and returns its path.
func (d *Document) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create output directory %q: %w", dir, err)
	}
	path := filepath.Join(dir, d.Filename)
	data, err := d.PDF()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("cannot write %q: %w", path, err)
	}
	return path, nil
}
