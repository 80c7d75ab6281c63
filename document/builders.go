package document

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
	"github.com/google/uuid"
)

// timestampFormat is the layout of generation times.
const timestampFormat = date.LocalFormat + ", 15:04:05"

func local(d date.Date) string { return d.Format(date.LocalFormat) }

// underscored replaces the first space of a name, as done in historical file
// names, and every path separator.
func underscored(name string) string {
	return separators.Replace(strings.Replace(name, " ", "_", 1))
}

var separators = strings.NewReplacer("/", "_", `\`, "_")

// counterpartyLines returns the printable lines of a counterparty.
func counterpartyLines(c finovate.Counterparty) []string {
	lines := []string{c.Name}
	if c.ID != "" {
		lines = append(lines, "ID: "+c.ID)
	}
	if c.Phone != "" {
		lines = append(lines, "Tel: "+c.Phone)
	}
	return lines
}

// Receipt returns the receipt of a payment received on an item.
func Receipt(u finovate.User, it finovate.Item, p finovate.Payment, now time.Time) *Document {
	h := it.Head()
	receiptID := p.ID
	if len(receiptID) > 18 {
		receiptID = receiptID[:18]
	}
	to := []string{h.Counterparty.Name}
	if h.Counterparty.ID != "" {
		to = append(to, "ID: "+h.Counterparty.ID)
	}

	details := Fields{Title: "Detalles del Pago", Rows: []Field{
		{"ID del Recibo:", receiptID},
		{"Fecha de Pago:", local(p.Date)},
		{"Método de Pago:", p.Method},
		{"Tipo de Ítem:", it.Kind().Label()},
		{"Descripción:", h.Description},
	}}
	if it.Kind() == finovate.KindLoan && p.Allocation != finovate.Unallocated {
		details.Rows = append(details.Rows, Field{"Concepto:", p.Allocation.Label()})
	}

	return &Document{
		Title: "Recibo de Pago",
		Blocks: []Block{
			Parties{
				Left:  Party{Label: "De:", Lines: []string{u.Name, u.Email, u.Phone}},
				Right: Party{Label: "Para:", Lines: to},
			},
			details,
			Total{Label: "Monto Pagado:", Value: p.Amount.String()},
		},
		Footer:   []string{fmt.Sprintf("Gracias por su pago. Este recibo fue generado el %s.", now.Format(date.LocalFormat))},
		Filename: "Finovate-Recibo-" + separators.Replace(p.ID) + ".pdf",
	}
}

// Statement returns the account statement of a loan: its summary, then the
// running capital balance after each payment, in date order.
func Statement(u finovate.User, loan finovate.Loan, now time.Time) *Document {
	b, _ := finovate.BalanceOf(loan)

	var rows [][]string
	for _, line := range finovate.LoanStatement(loan) {
		rows = append(rows, []string{local(line.Date), line.Description, line.Amount.String(), line.Balance.String()})
	}

	return &Document{
		Title: "Estado de Cuenta",
		Meta:  []string{"Generado: " + now.Format(timestampFormat)},
		Blocks: []Block{
			Parties{
				Left:  Party{Label: "Acreedor (Prestador)", Lines: []string{u.Name, u.Email}},
				Right: Party{Label: "Deudor", Lines: counterpartyLines(loan.Counterparty)},
			},
			Fields{Title: "Resumen del Crédito", Columns: 2, Rows: []Field{
				{"Monto Principal:", loan.Principal.String()},
				{"Total Pagado:", b.TotalPaid.String()},
				{"Tasa de Interés:", loan.InterestRate.String()},
				{"Saldo de Capital:", b.Remaining.String()},
				{"Plazo:", loan.Term},
				{"Capital Pagado:", b.CapitalPaid.String()},
				{"Fecha de Inicio:", local(loan.StartDate)},
				{"Intereses Pagados:", b.InterestPaid.String()},
			}},
			Table{
				Title:  "Historial de Transacciones",
				Header: []string{"Fecha", "Descripción", "Monto", "Saldo Capital"},
				Rows:   rows,
				Widths: []float64{35, 70, 35, 35},
			},
		},
		Footer:   []string{Brand + " - Tu asistente financiero personal."},
		Filename: "EstadoDeCuenta-" + underscored(loan.Counterparty.Name) + "-" + separators.Replace(loan.ID) + ".pdf",
	}
}

// newInvoiceNumber returns a short random invoice number.
var newInvoiceNumber = func() string { return strings.ToUpper(uuid.NewString()[:8]) }

// PaymentCode returns the text encoded in the payment code of an invoice.
func PaymentCode(u finovate.User, details finovate.InvoiceDetails, accounts []finovate.BankAccount) string {
	info := make([]string, 0, len(accounts))
	for _, a := range accounts {
		info = append(info, fmt.Sprintf("Banco: %s, Cuenta: %s", a.BankName, a.AccountName))
	}
	return fmt.Sprintf("Pagar a: %s\nConcepto: %s\nMonto: $%s\n%s", u.Name, details.Concept, details.Amount.Fixed(), strings.Join(info, "; "))
}

// Invoice returns a collection invoice for an item.
//
// The payment code is generated with gen. When it fails, or when gen is nil,
// the invoice is still returned, without code, and the failure is recorded
// in Warnings.
func Invoice(u finovate.User, it finovate.Item, details finovate.InvoiceDetails, accounts []finovate.BankAccount, gen CodeGenerator, now time.Time) *Document {
	h := it.Head()
	number := newInvoiceNumber()

	from := []string{u.Name, u.Address, u.Email}
	if u.IDDocument != "" {
		from = append(from, "ID: "+u.IDDocument)
	}
	var payment []string
	for _, a := range accounts {
		payment = append(payment, fmt.Sprintf("- Banco: %s, Cuenta: %s", a.BankName, a.AccountName))
	}
	if len(payment) == 0 {
		payment = []string{"No hay cuentas bancarias configuradas."}
	}

	doc := &Document{
		Title: "FACTURA DE COBRO",
		Meta: []string{
			"Factura #" + number,
			"Fecha de Emisión: " + now.Format(date.LocalFormat),
			"Fecha de Vencimiento: " + local(details.DueDate),
		},
		Blocks: []Block{
			Parties{
				Left:  Party{Label: "De (Acreedor):", Lines: from},
				Right: Party{Label: "Para (Deudor):", Lines: counterpartyLines(h.Counterparty)},
			},
			Table{Header: []string{"Concepto", "Monto"}, Rows: [][]string{{details.Concept, details.Amount.String()}}, Widths: []float64{130, 40}},
			Total{Label: "TOTAL A PAGAR:", Value: details.Amount.String()},
			Text{Title: "Información de Pago", Lines: payment},
		},
		Footer: []string{
			"Gracias por su negocio.",
			fmt.Sprintf("%s | %s | %s", Brand, u.Name, u.Email),
		},
		Filename: "Factura-" + underscored(h.Counterparty.Name) + "-" + number + ".pdf",
	}

	if gen == nil {
		doc.Warnings = append(doc.Warnings, fmt.Errorf("%w: no payment code generator", finovate.ErrDegraded))
		return doc
	}
	code, err := gen.Generate(PaymentCode(u, details, accounts))
	if err == nil {
		// the PDF only embeds PNG images.
		_, err = png.DecodeConfig(bytes.NewReader(code))
	}
	if err != nil {
		doc.Warnings = append(doc.Warnings, fmt.Errorf("%w: payment code: %w", finovate.ErrDegraded, err))
		return doc
	}
	doc.Blocks = append(doc.Blocks, Image{Label: "Escanear para Pagar:", PNG: code})
	return doc
}
