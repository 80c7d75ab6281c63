// Package document builds the printable documents of a ledger: payment
// receipts, loan statements and collection invoices.
//
// A Document is a neutral list of blocks. It is rendered as markdown for the
// terminal, as HTML for a browser preview, or as a PDF file.
package document

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Brand is printed at the top of every document.
const Brand = "Finovate"

// Document is a printable document.
type Document struct {
	Title string
	// Meta lines are printed right aligned under the title: numbers and dates.
	Meta   []string
	Blocks []Block
	Footer []string
	// Filename is the suggested name of the PDF file.
	Filename string
	// Warnings lists what could not be included. They wrap finovate.ErrDegraded.
	Warnings []error
}

// Block is a part of a document.
type Block interface{ isBlock() }

// Party is one side of a document: who issues it, or who receives it.
type Party struct {
	Label string
	Lines []string
}

// Parties prints two parties side by side.
type Parties struct{ Left, Right Party }

// Field is a labelled value.
type Field struct{ Label, Value string }

// Fields is a titled list of labelled values. With two columns, fields are
// laid out left to right.
type Fields struct {
	Title   string
	Columns int
	Rows    []Field
}

// Table is a titled table. Widths are in millimeters, they are optional.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	Widths []float64
}

// Total is the emphasized amount of a document.
type Total struct{ Label, Value string }

// Image is a PNG image, like a payment code.
type Image struct {
	Label string
	PNG   []byte
}

// Text is a titled paragraph, one line per entry.
type Text struct {
	Title string
	Lines []string
}

func (Parties) isBlock() {}
func (Fields) isBlock()  {}
func (Table) isBlock()   {}
func (Total) isBlock()   {}
func (Image) isBlock()   {}
func (Text) isBlock()    {}

// Degraded reports whether some part of the document could not be generated.
func (d *Document) Degraded() bool { return len(d.Warnings) > 0 }

// escape escapes markdown table separators.
func escape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

// Markdown returns the document as markdown. Images are replaced by their label.
func (d *Document) Markdown() string { return d.markdown(false) }

func (d *Document) markdown(images bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "**%s**\n\n", Brand)
	if len(d.Meta) > 0 {
		b.WriteString(strings.Join(d.Meta, "  \n"))
		b.WriteString("\n\n")
	}

	for _, block := range d.Blocks {
		switch v := block.(type) {
		case Parties:
			fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", escape(v.Left.Label), escape(v.Right.Label))
			n := max(len(v.Left.Lines), len(v.Right.Lines))
			for i := range n {
				fmt.Fprintf(&b, "| %s | %s |\n", escape(at(v.Left.Lines, i)), escape(at(v.Right.Lines, i)))
			}
			b.WriteString("\n")
		case Fields:
			if v.Title != "" {
				fmt.Fprintf(&b, "## %s\n\n", v.Title)
			}
			for _, f := range v.Rows {
				fmt.Fprintf(&b, "- **%s** %s\n", f.Label, f.Value)
			}
			b.WriteString("\n")
		case Table:
			if v.Title != "" {
				fmt.Fprintf(&b, "## %s\n\n", v.Title)
			}
			b.WriteString("|")
			for _, h := range v.Header {
				fmt.Fprintf(&b, " %s |", escape(h))
			}
			b.WriteString("\n|")
			for range v.Header {
				b.WriteString("---|")
			}
			b.WriteString("\n")
			for _, row := range v.Rows {
				b.WriteString("|")
				for _, cell := range row {
					fmt.Fprintf(&b, " %s |", escape(cell))
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		case Total:
			fmt.Fprintf(&b, "**%s %s**\n\n", v.Label, v.Value)
		case Image:
			if images {
				fmt.Fprintf(&b, "**%s**\n\n![%s](data:image/png;base64,%s)\n\n", v.Label, v.Label, base64.StdEncoding.EncodeToString(v.PNG))
			} else {
				fmt.Fprintf(&b, "**%s** _(código QR en el PDF)_\n\n", v.Label)
			}
		case Text:
			if v.Title != "" {
				fmt.Fprintf(&b, "## %s\n\n", v.Title)
			}
			b.WriteString(strings.Join(v.Lines, "  \n"))
			b.WriteString("\n\n")
		}
	}

	if len(d.Footer) > 0 {
		b.WriteString("---\n\n")
		for _, line := range d.Footer {
			fmt.Fprintf(&b, "_%s_  \n", line)
		}
	}
	return b.String()
}

func at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML returns the document as a standalone HTML page, images included.
func (d *Document) HTML() (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(d.markdown(true)), &body); err != nil {
		return "", fmt.Errorf("cannot render %q as html: %w", d.Title, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(d.Title))
	b.Write(body.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
