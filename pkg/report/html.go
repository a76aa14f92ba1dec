// Package report renders scan results as HTML, Graphviz diagrams and
// a small local web server.
package report

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/matzehuels/pkgsizer/pkg/scan"
)

// FormatBytes renders a byte count in human-readable units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGT"[exp])
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"bytes": FormatBytes,
	"pct": func(part, total int64) float64 {
		if total == 0 {
			return 0
		}
		return float64(part) / float64(total) * 100
	},
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>pkgsizer report</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 960px; color: #1f2933; }
  h1 { font-size: 1.4rem; }
  .summary { display: flex; gap: 2rem; margin: 1rem 0; }
  .summary div { background: #f5f7fa; border-radius: 8px; padding: 0.8rem 1.2rem; }
  .summary b { display: block; font-size: 1.2rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #e4e7eb; }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }
  .bar { background: #d0e2ff; height: 0.6rem; border-radius: 3px; }
  .editable { color: #9b6400; }
  .transitive { color: #627d98; }
</style>
</head>
<body>
<h1>Package size report</h1>
<p>{{.Root}}</p>
<div class="summary">
  <div><b>{{len .Packages}}</b> packages</div>
  <div><b>{{bytes .TotalBytes}}</b> total size</div>
  <div><b>{{.TotalFiles}}</b> files</div>
</div>
<table>
<tr><th>Package</th><th>Version</th><th>Size</th><th>Files</th><th>Depth</th><th></th></tr>
{{- $total := .TotalBytes }}
{{- range .Packages }}
<tr>
  <td>{{.Dist.Name}}{{if .Dist.Editable}} <span class="editable">(editable)</span>{{end}}</td>
  <td>{{.Dist.Version}}</td>
  <td class="num">{{bytes .Size.Bytes}}</td>
  <td class="num">{{.Size.Files}}</td>
  <td class="num">{{.Node.Depth}}{{if not .Node.Direct}} <span class="transitive">transitive</span>{{end}}</td>
  <td style="width: 30%"><div class="bar" style="width: {{printf "%.1f" (pct .Size.Bytes $total)}}%"></div></td>
</tr>
{{- end }}
</table>
</body>
</html>
`))

// WriteHTML renders the results as a standalone HTML page, packages
// sorted by size descending.
func WriteHTML(w io.Writer, results *scan.Results) error {
	sorted := *results
	sorted.Packages = append([]*scan.PackageResult(nil), results.Packages...)
	sort.Slice(sorted.Packages, func(i, j int) bool {
		return sorted.Packages[i].Size.Bytes > sorted.Packages[j].Size.Bytes
	})
	return htmlTemplate.Execute(w, &sorted)
}
