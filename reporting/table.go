// Package reporting renders the per-iteration convergence history of an SDC
// solve as an HTML table.
package reporting

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"math"
	"os"

	"github.com/DiMoser/PyPinT/solutions"
)

// Row holds the convergence measures of one iteration.
type Row struct {
	Iteration int
	Residual  string
	Reduction string
	ErrorRed  string
	Seconds   string
}

// Report is the renderable convergence history of one solve.
type Report struct {
	Title      string
	Converged  bool
	Iterations int
	Rows       []Row
}

// NewReport builds the convergence table from a finalized solve.
func NewReport(title string, sol *solutions.Iterative) (*Report, error) {
	if !sol.Finalized() {
		return nil, errors.New("reporting: solution is not finalized")
	}
	r := &Report{
		Title:      title,
		Converged:  sol.Converged(),
		Iterations: sol.UsedIterations(),
	}
	for i := 0; i < sol.Iterations(); i++ {
		tr, err := sol.Solution(i)
		if err != nil {
			return nil, err
		}
		last, err := tr.Last()
		if err != nil {
			return nil, err
		}
		red, err := sol.ReductionAt(i)
		if err != nil {
			return nil, err
		}
		dur, err := sol.DurationAt(i)
		if err != nil {
			return nil, err
		}
		r.Rows = append(r.Rows, Row{
			Iteration: i + 1,
			Residual:  formatMeasure(last.Residual),
			Reduction: formatMeasure(red.Solution),
			ErrorRed:  formatMeasure(red.Error),
			Seconds:   fmt.Sprintf("%.6f", dur.Seconds()),
		})
	}
	return r, nil
}

func formatMeasure(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4e", v)
}

// WriteReportFile renders the report into an HTML file.
func WriteReportFile(report *Report, filePath string) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return
	}
	defer file.Close()

	return writeReportHTML(report, file)
}

func writeReportHTML(report *Report, output io.Writer) error {
	const document = `
<!DOCTYPE html>
<html>
<head>
    <style type="text/css">
        .results
        {
            font-family:"Trebuchet MS", Arial, Helvetica, sans-serif;
            width:100%;
            border-collapse:collapse;
        }
        .results td, .results th
        {
            font-size:1em;
            border:1px solid #98bf21;
            padding:3px 7px 2px 7px;
        }
        .results th
        {
            font-size:1.1em;
            text-align:left;
            padding-top:5px;
            padding-bottom:4px;
            background-color:#A7C942;
            color:#ffffff;
        }
        .results tr.alt td
        {
            color:#000000;
            background-color:#EAF2D3;
        }
        caption {
            text-align: left;
        }
    </style>
</head>
<body>
	<h2>{{.Title}}</h2>
	<p>{{if .Converged}}converged{{else}}not converged{{end}} after {{.Iterations}} iterations</p>
	<table class="results">
	  <caption>{{.Title}} - convergence history</caption>
	  <tr>
		<th>iteration</th>
		<th>residual</th>
		<th>solution reduction</th>
		<th>error reduction</th>
		<th>time [s]</th>
	  </tr>
	  {{range $index, $row := .Rows}}
	  <tr {{if eq (mod $index 2) 1}}class="alt"{{end}}>
		<td>{{$row.Iteration}}</td>
		<td>{{$row.Residual}}</td>
		<td>{{$row.Reduction}}</td>
		<td>{{$row.ErrorRed}}</td>
		<td>{{$row.Seconds}}</td>
	  </tr>
	  {{end}}
	</table>
</body>
</html>
`
	funcMap := template.FuncMap{
		"mod": func(a, b int) int { return a % b },
	}
	tmpl, err := template.New("report").Funcs(funcMap).Parse(document)
	if err != nil {
		return err
	}
	return tmpl.Execute(output, report)
}
