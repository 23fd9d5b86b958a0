package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/timesince/internal/display"
	"github.com/sweeney/timesince/internal/status"
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
	"elapsed": func(now time.Time, t status.TimerStatus) string {
		return display.FormatElapsed(t.Elapsed(now))
	},
	"rfc3339": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>timesince</title>
<style>
body { font-family: monospace; max-width: 640px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
.selected { background: #eef; font-weight: bold; }
.elapsed { font-size: 1.1em; }
.connected { color: green; }
.disconnected { color: red; }
.kind { color: #888; }
</style>
</head>
<body>
<h1>timesince</h1>
<table>
<tr><th>Timer</th><th>Kind</th><th>Elapsed</th><th>Last trigger</th></tr>
{{$now := .Now}}
{{$selected := .Selected}}
{{range $i, $t := .Timers}}
<tr{{if eq $i $selected}} class="selected"{{end}}>
<td>{{$t.Name}}</td>
<td class="kind">{{$t.Kind}}</td>
<td class="elapsed">{{elapsed $now $t}}</td>
<td>{{rfc3339 $t.LastTrigger}}</td>
</tr>
{{end}}
</table>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}<span class="connected">connected</span>{{else}}<span class="disconnected">disconnected</span>{{end}} ({{.Config.Broker}})</td></tr>
<tr><th>Resets</th><td>{{.Counts.Triggered}} manual, {{.Counts.Refreshed}} polled</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms (debounce {{.Config.DebounceMs}}ms)</td></tr>
<tr><th>Config</th><td>{{.Config.ConfigPath}}</td></tr>
</table>
<p><a href="/index.json">index.json</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render template: %v", err)
	}
}
