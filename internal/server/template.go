package server

import (
	"html/template"
	"io"
)

type dashboardData struct {
	Events  []Event
	SMS     bool
	Updated string
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="30">
<title>Fall Detection Monitor</title>
<style>
body { font-family: monospace; max-width: 800px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.real { color: red; font-weight: bold; }
.false { color: orange; }
.sent { color: green; }
.failed { color: red; }
</style>
</head>
<body>
<h1>Fall Detection Monitor</h1>
<p>SMS alerts: {{if .SMS}}configured{{else}}disabled{{end}} · updated {{.Updated}}</p>

<h2>Recent Events</h2>
<table>
<tr><th>Timestamp</th><th>Detection</th><th>Type</th><th>Device</th><th>SMS</th></tr>
{{range .Events}}
<tr>
<td>{{.Timestamp}}</td>
<td>{{if .Detection}}yes{{else}}no{{end}}</td>
<td class="{{if eq .AlertType "real alert"}}real{{else}}false{{end}}">{{.AlertType}}</td>
<td>{{.DeviceID}}</td>
<td class="{{if eq .SMSSent "Yes"}}sent{{else if eq .SMSSent "Failed"}}failed{{end}}">{{.SMSSent}}</td>
</tr>
{{else}}
<tr><td colspan="5">no events yet</td></tr>
{{end}}
</table>

<p><a href="/events">JSON</a> · <a href="/status">status</a></p>
</body>
</html>
`

func renderDashboard(w io.Writer, data dashboardData) {
	dashboardTmpl.Execute(w, data)
}
