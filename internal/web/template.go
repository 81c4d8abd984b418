package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/CodeWithAlvin/fallDetection/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Fall Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.idle { color: green; font-weight: bold; }
.monitoring { color: orange; font-weight: bold; }
.confirmed { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Fall Sensor — {{.Config.DeviceID}}</h1>

<h2>Detection</h2>
<table>
<tr><th>State</th><td class="{{if eq (printf "%s" .State) "CONFIRMED"}}confirmed{{else if eq (printf "%s" .State) "MONITORING"}}monitoring{{else}}idle{{end}}">{{.State}}</td></tr>
<tr><th>Calibrated</th><td>{{if .Calibrated}}yes{{else}}no{{end}}</td></tr>
<tr><th>Baseline</th><td>({{printf "%.3f" .Baseline.X}}, {{printf "%.3f" .Baseline.Y}}, {{printf "%.3f" .Baseline.Z}}) g</td></tr>
</table>

<h2>Alerts</h2>
<table>
<tr><th>Confirmed falls</th><td>{{.Counts.Confirmed}}</td></tr>
<tr><th>False alerts</th><td>{{.Counts.FalseAlerts}}</td></tr>
<tr><th>Suppressed</th><td>{{.Counts.Suppressed}}</td></tr>
<tr><th>Freefalls seen</th><td>{{.Counts.Freefalls}}</td></tr>
<tr><th>Timed out</th><td>{{.Counts.Timeouts}}</td></tr>
<tr><th>Queue depth</th><td>{{.QueueDepth}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>Sink</th><td class="{{if .SinkConnected}}connected{{else}}disconnected{{end}}">{{if .SinkConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Server</th><td>{{.Config.ServerURL}}</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Serial</th><td>{{.Config.SerialPort}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
