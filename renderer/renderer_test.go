package renderer

import (
	"bytes"
	"embed"
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/etnz/finovate"
	"github.com/etnz/finovate/date"
)

//go:embed testdata/*.json
var testcasesFS embed.FS

//go:embed testdata/*.md
var testcasesGoldenFS embed.FS

var fixPartials = flag.Bool("fix-partials", false, "if true, update failing test case .md files with the received output")

func TestFixPartialsIsOff(t *testing.T) {
	if *fixPartials {
		t.Fatal("-fix-partials is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

// partialCases render each partial template alone.
var partialCases = []struct {
	name       string // partial template, without extension
	structFile string
	goldenFile string
	dataType   func() any
}{
	{"dashboard_stats", "testdata/dashboard.json", "testdata/dashboard_stats.md", func() any { return &Dashboard{} }},
	{"dashboard_items", "testdata/dashboard.json", "testdata/dashboard_items.md", func() any { return &Dashboard{} }},
	{"dashboard_reminders", "testdata/dashboard.json", "testdata/dashboard_reminders.md", func() any { return &Dashboard{} }},
	{"upcoming_events", "testdata/upcoming.json", "testdata/upcoming_events.md", func() any { return &Upcoming{} }},
	{"upcoming_events", "testdata/upcoming_empty.json", "testdata/upcoming_events_empty.md", func() any { return &Upcoming{} }},
	{"summary_accounts", "testdata/summary.json", "testdata/summary_accounts.md", func() any { return &Summary{} }},
	{"item_payments", "testdata/item.json", "testdata/item_payments.md", func() any { return &Item{} }},
}

// reportCases render each assembly template with its partials.
var reportCases = []struct {
	name       string // assembly template, without extension
	structFile string
	goldenFile string
	dataType   func() any
	renderFunc func(data any) string
}{
	{"dashboard", "testdata/dashboard.json", "testdata/dashboard_assembly.md", func() any { return &Dashboard{} }, func(data any) string { return RenderDashboard(data.(*Dashboard)) }},
	{"summary", "testdata/summary.json", "testdata/summary_assembly.md", func() any { return &Summary{} }, func(data any) string { return RenderSummary(data.(*Summary)) }},
	{"upcoming", "testdata/upcoming.json", "testdata/upcoming_assembly.md", func() any { return &Upcoming{} }, func(data any) string { return RenderUpcoming(data.(*Upcoming)) }},
	{"item", "testdata/item.json", "testdata/item_assembly.md", func() any { return &Item{} }, func(data any) string { return RenderItem(data.(*Item)) }},
}

func TestTemplatePartials(t *testing.T) {
	for _, tc := range partialCases {
		t.Run(filepath.Base(tc.goldenFile), func(t *testing.T) {
			data := tc.dataType()
			load(t, tc.structFile, data)

			templateFile := tc.name + ".md"
			templateContent, err := fs.ReadFile(templates, templateFile)
			if err != nil {
				t.Fatalf("failed to read template file %q: %v", templateFile, err)
			}
			tmpl, err := template.New(tc.name).Funcs(funcs).Parse(string(templateContent))
			if err != nil {
				t.Fatalf("failed to parse template %q: %v", templateFile, err)
			}
			var out bytes.Buffer
			if err := tmpl.Execute(&out, data); err != nil {
				t.Fatalf("failed to execute template %q: %v", templateFile, err)
			}

			compareGolden(t, tc.goldenFile, out.String())
		})
	}
}

func TestReportRendering(t *testing.T) {
	for _, tc := range reportCases {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.dataType()
			load(t, tc.structFile, data)
			compareGolden(t, tc.goldenFile, tc.renderFunc(data))
		})
	}
}

func TestTemplateCoverage(t *testing.T) {
	tested := make(map[string]bool)
	for _, tc := range partialCases {
		tested[tc.name+".md"] = true
	}
	for _, tc := range reportCases {
		tested[tc.name+".md"] = true
	}
	entries, err := fs.ReadDir(templates, ".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		if !tested[e.Name()] {
			t.Errorf("untested template found: %s. Please add a test case.", e.Name())
		}
	}
}

// load unmarshals a json test case into v.
func load(t *testing.T, file string, v any) {
	t.Helper()
	data, err := testcasesFS.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read struct file %q: %v", file, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("failed to unmarshal struct data from %q: %v", file, err)
	}
}

// compareGolden compares got to the golden file, or rewrites it with -fix-partials.
func compareGolden(t *testing.T, goldenFile, got string) {
	t.Helper()
	goldenData, err := fs.ReadFile(testcasesGoldenFS, goldenFile)
	if err != nil {
		if os.IsNotExist(err) && *fixPartials {
			// an empty golden fails the comparison below, so that it gets written.
			goldenData = []byte{}
		} else {
			t.Fatalf("failed to read golden file %q: %v", goldenFile, err)
		}
	}
	want := string(goldenData)
	if got == want {
		return
	}
	if !*fixPartials {
		t.Errorf("output mismatch for %s:\n--- want\n+++ got\n%s", goldenFile, createDiff(want, got))
		return
	}
	if err := os.MkdirAll(filepath.Dir(goldenFile), 0755); err != nil {
		t.Fatalf("failed to create testdata directory: %v", err)
	}
	if err := os.WriteFile(goldenFile, []byte(got), 0644); err != nil {
		t.Fatalf("failed to write updated golden file %q: %v", goldenFile, err)
	}
	t.Logf("updated golden file %s", goldenFile)
}

func createDiff(want, got string) string {
	// A simple diff-like representation for clearer test failures.
	return fmt.Sprintf("-%s\n+%s", strings.ReplaceAll(want, "\n", "\n-"), strings.ReplaceAll(got, "\n", "\n+"))
}

// sampleLedger returns a ledger with a loan, a rental and a debt.
func sampleLedger(t *testing.T) finovate.Ledger {
	t.Helper()
	var l finovate.Ledger
	u := finovate.User{Name: "María López", Age: 34, Address: "Calle 10", Phone: "555", Email: "m@example.com", Occupation: "Contadora", Password: "1234"}
	l, _, err := l.Register(u, "1234")
	if err != nil {
		t.Fatal(err)
	}
	ana := finovate.Counterparty{Name: "Ana Pérez", ID: "1020"}
	items := []finovate.Item{
		finovate.NewLoan(ana, "Moto", date.MustParse("2025-01-10"), finovate.M(1000), 2.5, "12 meses"),
		finovate.NewRental(finovate.Counterparty{Name: "Luis Gómez"}, "Apartamento", date.MustParse("2024-06-01"), finovate.M(500), 25),
		finovate.NewDebt(finovate.Counterparty{Name: "Banco"}, "Crédito", date.MustParse("2025-01-01"), finovate.M(300), date.MustParse("2025-04-15")),
	}
	for _, it := range items {
		if l, _, err = l.AddItem(it); err != nil {
			t.Fatal(err)
		}
	}
	loan := l.Items()[0]
	if l, _, err = l.AddPayment(loan.Head().ID, finovate.NewPayment(date.MustParse("2025-03-10"), finovate.M(30), "Efectivo", finovate.Interest)); err != nil {
		t.Fatal(err)
	}
	if l, _, err = l.AddPayment(loan.Head().ID, finovate.NewPayment(date.MustParse("2025-02-10"), finovate.M(100), "Transferencia", finovate.Capital)); err != nil {
		t.Fatal(err)
	}
	if l, _, err = l.AddReminder(finovate.Reminder{Text: "Llamar a Ana", Date: date.MustParse("2025-03-22")}); err != nil {
		t.Fatal(err)
	}
	return l
}

func TestNewDashboard(t *testing.T) {
	today := date.MustParse("2025-03-20")
	d := NewDashboard(sampleLedger(t), today)

	if d.User != "María López" || len(d.Items) != 3 || len(d.Reminders) != 1 {
		t.Fatalf("NewDashboard() = %+v", d)
	}
	if d.Items[0].Remaining != "$900.00" || d.Items[1].Remaining != "" {
		t.Errorf("Remaining = %q, %q", d.Items[0].Remaining, d.Items[1].Remaining)
	}
	// the rental on the 25th, the loan on April 10th, then the debt on April 15th
	if len(d.Upcoming.Events) != 3 || d.Upcoming.Events[0].DaysLeft != 5 || d.Upcoming.Events[2].Kind != finovate.Settlement {
		t.Errorf("Upcoming = %+v", d.Upcoming)
	}

	md := RenderDashboard(d)
	for _, want := range []string{"# Panel de María López", "| Total prestado | $1,000.00 |", "| Arriendo | Luis Gómez |", "- 22/3/2025: Llamar a Ana"} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderDashboard() does not contain %q:\n%s", want, md)
		}
	}
}

func TestNewItem(t *testing.T) {
	loan := sampleLedger(t).Items()[0]
	it := NewItem(loan)

	labels := make(map[string]string)
	for _, f := range it.Fields {
		labels[f.Label] = f.Value
	}
	want := map[string]string{
		"Persona":           "Ana Pérez",
		"Documento":         "1020",
		"Tasa de interés":   "2.5%",
		"Total pagado":      "$130.00",
		"Intereses pagados": "$30.00",
		"Saldo":             "$900.00",
	}
	for k, v := range want {
		if labels[k] != v {
			t.Errorf("field %q = %q, want %q", k, labels[k], v)
		}
	}
	if _, ok := labels["Teléfono"]; ok {
		t.Errorf("empty phone should not be listed")
	}
	if len(it.Payments) != 2 || it.Payments[0].Allocation != finovate.Capital {
		t.Errorf("payments are not in date order: %+v", it.Payments)
	}
}

func TestRenderEmpty(t *testing.T) {
	today := date.MustParse("2025-03-20")
	var l finovate.Ledger
	md := RenderDashboard(NewDashboard(l, today))
	for _, want := range []string{"# Panel\n", "No hay registros.", "Nada vence en los próximos 30 días.", "No hay recordatorios pendientes."} {
		if !strings.Contains(md, want) {
			t.Errorf("RenderDashboard(empty) does not contain %q:\n%s", want, md)
		}
	}
	if md := RenderSummary(NewSummary(l, today)); !strings.Contains(md, "No hay cuentas bancarias.") {
		t.Errorf("RenderSummary(empty) = %s", md)
	}
}

func TestShortID(t *testing.T) {
	for in, want := range map[string]string{"": "", "abc": "abc", "0f8fad5b-d9cb": "0f8fad5b"} {
		if got := ShortID(in); got != want {
			t.Errorf("ShortID(%q) = %q, want %q", in, got, want)
		}
	}
}
