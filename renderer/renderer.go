// Package renderer renders finovate reports as markdown.
//
// Each report is an assembly template (e.g. "dashboard.md") that includes
// partial templates named after it ("dashboard_items.md"). All templates are
// embedded in the binary.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/finovate/date"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates holds the markdown templates at its root.
var templates = func() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}()

// funcs are available to every template.
var funcs = template.FuncMap{
	"local": func(d date.Date) string { return d.Format(date.LocalFormat) },
	"short": ShortID,
}

// ShortID returns the first 8 characters of an identifier, enough to find it back.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderDashboard renders the dashboard report.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"dashboard_stats":     "dashboard_stats.md",
		"dashboard_items":     "dashboard_items.md",
		"dashboard_upcoming":  "upcoming_events.md",
		"dashboard_reminders": "dashboard_reminders.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderSummary renders the financial summary report.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_accounts": "summary_accounts.md",
	}
	return renderTemplate("summary", "summary.md", partials, s)
}

// RenderUpcoming renders the upcoming events report.
func RenderUpcoming(u *Upcoming) string {
	partials := map[string]string{
		"upcoming_events": "upcoming_events.md",
	}
	return renderTemplate("upcoming", "upcoming.md", partials, u)
}

// RenderItem renders the detail of an item.
func RenderItem(it *Item) string {
	partials := map[string]string{
		"item_payments": "item_payments.md",
	}
	return renderTemplate("item", "item.md", partials, it)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
