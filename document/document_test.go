package document

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
)

var now = time.Date(2025, time.March, 20, 14, 5, 0, 0, time.UTC)

func user() finovate.User {
	return finovate.User{
		ID: "u", Name: "María López", Age: 34, Address: "Calle 10 #20-30", Phone: "555-0100",
		Email: "maria@example.com", Occupation: "Contadora", Password: "1234", IDDocument: "CC 123",
	}
}

func loan() finovate.Loan {
	return finovate.Loan{
		Header: finovate.Header{
			ID:           "loan-1",
			Counterparty: finovate.Counterparty{Name: "Ana Pérez Ruiz", ID: "1020", Phone: "555-0101"},
			Description:  "Moto",
			StartDate:    date.MustParse("2025-01-10"),
			Payments: []finovate.Payment{
				{ID: "p2", Amount: finovate.M(30), Date: date.MustParse("2025-03-10"), Method: "Efectivo", Allocation: finovate.Interest},
				{ID: "p1", Amount: finovate.M(100), Date: date.MustParse("2025-02-10"), Method: "Transferencia", Allocation: finovate.Capital},
			},
		},
		Principal:    finovate.M(1000),
		InterestRate: 2.5,
		Term:         "12 meses",
	}
}

// failing is a CodeGenerator that always fails.
type failing struct{}

func (failing) Generate(string) ([]byte, error) { return nil, errors.New("no encoder") }

// corrupt is a CodeGenerator that returns bytes that are not an image.
type corrupt struct{}

func (corrupt) Generate(string) ([]byte, error) { return []byte("not a png"), nil }

func assertContains(t *testing.T, what, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s does not contain %q:\n%s", what, want, got)
		}
	}
}

func assertPDF(t *testing.T, d *Document) {
	t.Helper()
	var buf bytes.Buffer
	if err := d.WritePDF(&buf); err != nil {
		t.Fatalf("WritePDF() unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("WritePDF() output is not a PDF: %q", buf.Bytes()[:min(20, buf.Len())])
	}
}

func TestReceipt(t *testing.T) {
	l := loan()
	p := l.Payments[1]
	d := Receipt(user(), l, p, now)

	if d.Filename != "Finovate-Recibo-p1.pdf" {
		t.Errorf("Filename = %q", d.Filename)
	}
	assertContains(t, "Markdown()", d.Markdown(),
		"# Recibo de Pago",
		"| De: | Para: |",
		"| María López | Ana Pérez Ruiz |",
		"**Fecha de Pago:** 10/2/2025",
		"**Método de Pago:** Transferencia",
		"**Tipo de Ítem:** Préstamo",
		"**Concepto:** Abono a Capital",
		"**Monto Pagado: $100.00**",
		"generado el 20/3/2025.",
	)
	if d.Degraded() {
		t.Errorf("Receipt() is degraded: %v", d.Warnings)
	}
	assertPDF(t, d)
}

func TestReceipt_NoAllocationOutsideLoans(t *testing.T) {
	rent := finovate.Rental{Header: finovate.Header{ID: "r", Counterparty: finovate.Counterparty{Name: "Luis"}, Description: "Apto"}, MonthlyAmount: finovate.M(500), PaymentDay: 5}
	p := finovate.Payment{ID: "p", Amount: finovate.M(500), Date: date.MustParse("2025-03-05"), Method: "Efectivo"}
	md := Receipt(user(), rent, p, now).Markdown()
	if strings.Contains(md, "Concepto:") {
		t.Errorf("rental receipt should not have a concept:\n%s", md)
	}
	assertContains(t, "Markdown()", md, "**Tipo de Ítem:** Arriendo")
}

func TestStatement(t *testing.T) {
	d := Statement(user(), loan(), now)

	if d.Filename != "EstadoDeCuenta-Ana_Pérez Ruiz-loan-1.pdf" {
		t.Errorf("Filename = %q", d.Filename)
	}
	md := d.Markdown()
	assertContains(t, "Markdown()", md,
		"Generado: 20/3/2025, 14:05:00",
		"**Saldo de Capital:** $900.00",
		"**Intereses Pagados:** $30.00",
		"**Tasa de Interés:** 2.5%",
		"| 10/1/2025 | Monto inicial del préstamo | $1,000.00 | $1,000.00 |",
		"| 10/2/2025 | Abono a Capital | $100.00 | $900.00 |",
		"| 10/3/2025 | Pago de Intereses | $30.00 | $900.00 |",
	)
	// lines are in date order whatever the storage order.
	if strings.Index(md, "10/2/2025") > strings.Index(md, "10/3/2025") {
		t.Errorf("statement lines are not in date order:\n%s", md)
	}
	assertPDF(t, d)
}

func TestStatement_ManyPayments(t *testing.T) {
	l := loan()
	day := date.MustParse("2020-01-01")
	for i := range 60 {
		l.Payments = append(l.Payments, finovate.Payment{ID: "x", Amount: finovate.M(1), Date: day.AddMonth(i), Method: "Efectivo", Allocation: finovate.Capital})
	}
	// the table spans several pages.
	assertPDF(t, Statement(user(), l, now))
}

func TestInvoice(t *testing.T) {
	defer func(f func() string) { newInvoiceNumber = f }(newInvoiceNumber)
	newInvoiceNumber = func() string { return "AB12CD34" }

	details := finovate.InvoiceDetails{Amount: finovate.M(250), Concept: "Cuota de préstamo - Moto", DueDate: date.MustParse("2025-04-01")}
	accounts := []finovate.BankAccount{{BankName: "Banco Azul", AccountName: "Ahorros 123"}}

	d := Invoice(user(), loan(), details, accounts, QRCode{Size: 128}, now)

	if d.Filename != "Factura-Ana_Pérez Ruiz-AB12CD34.pdf" {
		t.Errorf("Filename = %q", d.Filename)
	}
	if d.Degraded() {
		t.Fatalf("Invoice() is degraded: %v", d.Warnings)
	}
	assertContains(t, "Markdown()", d.Markdown(),
		"# FACTURA DE COBRO",
		"Factura #AB12CD34",
		"Fecha de Vencimiento: 1/4/2025",
		"| Cuota de préstamo - Moto | $250.00 |",
		"**TOTAL A PAGAR: $250.00**",
		"- Banco: Banco Azul, Cuenta: Ahorros 123",
		"ID: CC 123",
		"**Escanear para Pagar:**",
	)

	html, err := d.HTML()
	if err != nil {
		t.Fatalf("HTML() unexpected error: %v", err)
	}
	assertContains(t, "HTML()", html, "<title>FACTURA DE COBRO</title>", `<img src="data:image/png;base64,`, "<table>")

	assertPDF(t, d)
	uri, err := d.DataURI()
	if err != nil {
		t.Fatalf("DataURI() unexpected error: %v", err)
	}
	if !strings.HasPrefix(uri, "data:application/pdf;filename=Factura-") {
		t.Errorf("DataURI() = %.60s...", uri)
	}
}

func TestInvoice_Degraded(t *testing.T) {
	details := finovate.InvoiceDetails{Amount: finovate.M(250), Concept: "Cuota", DueDate: date.MustParse("2025-04-01")}

	for name, gen := range map[string]CodeGenerator{"failing": failing{}, "corrupt": corrupt{}, "nil": nil} {
		t.Run(name, func(t *testing.T) {
			d := Invoice(user(), loan(), details, nil, gen, now)
			if len(d.Warnings) != 1 || !errors.Is(d.Warnings[0], finovate.ErrDegraded) {
				t.Fatalf("Warnings = %v, want one ErrDegraded", d.Warnings)
			}
			md := d.Markdown()
			if strings.Contains(md, "Escanear para Pagar") {
				t.Errorf("degraded invoice has a payment code")
			}
			assertContains(t, "Markdown()", md, "No hay cuentas bancarias configuradas.", "**TOTAL A PAGAR: $250.00**")
			assertPDF(t, d)
		})
	}
}

func TestPaymentCode(t *testing.T) {
	details := finovate.InvoiceDetails{Amount: finovate.M(1500), Concept: "Arriendo marzo"}
	accounts := []finovate.BankAccount{
		{BankName: "Banco Azul", AccountName: "Ahorros"},
		{BankName: "Banco Rojo", AccountName: "Corriente"},
	}
	got := PaymentCode(user(), details, accounts)
	want := "Pagar a: María López\nConcepto: Arriendo marzo\nMonto: $1500.00\nBanco: Banco Azul, Cuenta: Ahorros; Banco Rojo, Cuenta: Corriente"
	if got != want {
		t.Errorf("PaymentCode() =\n%s\nwant\n%s", got, want)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	d := Statement(user(), loan(), now)
	path, err := d.Save(dir)
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, d.Filename) {
		t.Errorf("Save() = %q, want a path ending with %q", path, d.Filename)
	}
}

func TestSave_SeparatorsInName(t *testing.T) {
	dir := t.TempDir()
	l := loan()
	l.Counterparty.Name = `Ana/Pérez\Ruiz`
	l.ID = "loan/1"
	d := Statement(user(), l, now)
	if d.Filename != "EstadoDeCuenta-Ana_Pérez_Ruiz-loan_1.pdf" {
		t.Errorf("Filename = %q", d.Filename)
	}
	path, err := d.Save(dir)
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Save() = %q, want a file directly in %q", path, dir)
	}
}
