package finovate

import (
	"fmt"
	"io"

	"github.com/etnz/finovate/date"
	"github.com/xuri/excelize/v2"
)

// Spreadsheet sheet names.
const (
	ItemsSheet    = "Registros"
	PaymentsSheet = "Pagos"
)

// SpreadsheetFilename returns the file name of a spreadsheet export made on day.
func SpreadsheetFilename(day date.Date) string {
	return "finovate-" + day.String() + ".xlsx"
}

// ExportSpreadsheet writes every item and every payment of the ledger to w as an XLSX workbook.
//
// The workbook is a one way export for spreadsheet users, it cannot be imported back.
func ExportSpreadsheet(w io.Writer, l Ledger) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ItemsSheet); err != nil {
		return fmt.Errorf("cannot create sheet %q: %w", ItemsSheet, err)
	}
	if _, err := f.NewSheet(PaymentsSheet); err != nil {
		return fmt.Errorf("cannot create sheet %q: %w", PaymentsSheet, err)
	}

	items := [][]any{{"ID", "Tipo", "Persona", "Documento", "Teléfono", "Descripción", "Fecha de inicio", "Monto", "Pagado", "Saldo"}}
	payments := [][]any{{"ID", "Registro", "Persona", "Fecha", "Monto", "Método", "Tipo de abono", "Recibo"}}
	for _, it := range l.items {
		h := it.Head()
		row := []any{h.ID, it.Kind().Label(), h.Counterparty.Name, h.Counterparty.ID, h.Counterparty.Phone,
			h.Description, h.StartDate.String(), Amount(it).InexactFloat64(), TotalPaid(it).InexactFloat64()}
		if b, ok := BalanceOf(it); ok {
			row = append(row, b.Remaining.InexactFloat64())
		}
		items = append(items, row)

		for _, p := range h.Payments {
			payments = append(payments, []any{p.ID, h.ID, h.Counterparty.Name, p.Date.String(),
				p.Amount.InexactFloat64(), p.Method, p.Allocation.Label(), p.ReceiptGenerated})
		}
	}

	if err := writeRows(f, ItemsSheet, items); err != nil {
		return err
	}
	if err := writeRows(f, PaymentsSheet, payments); err != nil {
		return err
	}
	for _, c := range []struct {
		sheet, from, to string
		width           float64
	}{
		{ItemsSheet, "A", "A", 38},
		{ItemsSheet, "C", "F", 20},
		{PaymentsSheet, "A", "B", 38},
	} {
		if err := f.SetColWidth(c.sheet, c.from, c.to, c.width); err != nil {
			return fmt.Errorf("cannot size columns %s:%s of %s: %w", c.from, c.to, c.sheet, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("cannot write spreadsheet: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("cannot write row %d of %q: %w", i+1, sheet, err)
		}
	}
	return nil
}
