package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/focus-sensor/internal/status"
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
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return "never"
		}
		return t.Format("2006-01-02 15:04:05")
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Focus Assistant</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1em; }
h1 { font-size: 1.6em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 45%; }
.FOCUS { color: green; font-weight: bold; }
.WARNING { color: #1565c0; font-weight: bold; }
.DISTRACTED { color: red; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: #888; }
</style>
</head>
<body>
<h1>Focus Assistant</h1>
<p><a href="/stats">JSON stats</a> | <a href="/download">Download CSV</a>{{if .Status}} | <a href="/status">Status</a>{{end}}</p>

<h2>Totals</h2>
<table id="stats">
<tr><th>Focused minutes</th><td id="focus_min">…</td></tr>
<tr><th>Short break minutes</th><td id="short_break_min">…</td></tr>
<tr><th>Warning minutes</th><td id="warning_min">…</td></tr>
<tr><th>Total away minutes</th><td id="away_min">…</td></tr>
<tr><th>Distracted events</th><td id="distracted_events">…</td></tr>
<tr><th>Rows logged</th><td id="rows">…</td></tr>
</table>
{{with .Status}}
<h2>Sensor</h2>
<table>
<tr><th>Current state</th><td class="{{stateOrUnknown (printf "%s" .State)}}">{{stateOrUnknown (printf "%s" .State)}}</td></tr>
<tr><th>Last record</th><td>{{clock .LastRecord}}</td></tr>
<tr><th>Records this run</th><td>{{.Records}}</td></tr>
<tr><th>Alerts this run</th><td>{{.Alerts}} (last: {{clock .LastAlert}})</td></tr>
{{if .LastError}}<tr><th>Last error</th><td>{{.LastError}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Serial</th><td>{{.Config.SerialPort}} @ {{.Config.Baud}}</td></tr>
<tr><th>Log</th><td>{{.Config.LogPath}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .Config.Broker}}{{.Config.Broker}} ({{if .MQTTConnected}}connected{{else}}disconnected{{end}}){{else}}disabled{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Run</th><td>{{.RunID}}</td></tr>
</table>
{{end}}
<script>
(function() {
  var fields = ["focus_min", "short_break_min", "warning_min", "away_min", "distracted_events", "rows"];
  async function refresh() {
    try {
      var r = await fetch("/stats", { cache: "no-store" });
      var j = await r.json();
      fields.forEach(function(f) {
        document.getElementById(f).textContent = j[f];
      });
    } catch (e) {}
  }
  setInterval(refresh, 2000);
  refresh();
})();
</script>
</body>
</html>
`

// pageData wraps the optional status snapshot for the template.
type pageData struct {
	Status *statusView
}

type statusView struct {
	status.Snapshot
	Uptime time.Duration
}

func renderHTML(w io.Writer, snap *status.Snapshot) {
	data := pageData{}
	if snap != nil {
		// Snapshot has Uptime() method but template needs a Duration field.
		data.Status = &statusView{Snapshot: *snap, Uptime: snap.Uptime()}
	}
	indexTmpl.Execute(w, data)
}
