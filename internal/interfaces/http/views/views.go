// Package views holds the HTML templates of the employee pages.
package views

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template names
const (
	LoginPage   = "login.tmpl"
	BillsPage   = "bills.tmpl"
	NewBillPage = "new_bill.tmpl"
)

var funcs = template.FuncMap{
	"join": strings.Join,
	"accept": func(exts []string) string {
		dotted := make([]string, len(exts))
		for i, ext := range exts {
			dotted[i] = "." + ext
		}
		return strings.Join(dotted, ",")
	},
}

// Templates parses the embedded page templates
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}
