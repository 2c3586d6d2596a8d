package display

import (
	"bytes"
	"text/template"
)

var pageTpl = template.Must(template.New("viewer").Parse(pageTemplate))

func renderPage(title string) string {
	var buf bytes.Buffer
	if err := pageTpl.Execute(&buf, struct{ Title string }{Title: title}); err != nil {
		log.WithError(err).Error("can not render the viewer page")
		return ""
	}
	return buf.String()
}

// the viewer page: two stacked pane images fed by the frame websocket.
const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>{{ .Title }}</title>
<style>
body { margin: 0; background: #f5f5f5; font-family: sans-serif; text-align: center; }
img { display: block; margin: 0 auto; }
#networth { margin-top: 8px; }
</style>
</head>
<body>
<img id="networth" alt=""/>
<img id="price" alt=""/>
<script>
var ws = new WebSocket("ws://" + location.host + "/ws");
ws.onmessage = function (ev) {
	var frame = JSON.parse(ev.data);
	document.title = frame.title;
	document.getElementById("networth").src = "data:image/png;base64," + frame.netWorth;
	document.getElementById("price").src = "data:image/png;base64," + frame.price;
};
</script>
</body>
</html>
`
