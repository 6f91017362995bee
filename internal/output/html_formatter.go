package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/regimesim/internal/compare"
)

// HTMLFormatter produces a standalone HTML report
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":   FormatCurrency,
	"pct":    FormatPercentage,
	"optpct": FormatOptionalPercentage,
	"rate":   FormatRate,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *compare.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*compare.ComparisonResult
		Assumptions []string
	}{result, DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
