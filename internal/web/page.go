package web

// menuHTML renders a menu.View. When the overlay is collapsed only the
// hamburger link is drawn.
const menuHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>SushiSwap</title>
<style>
  body { margin:0; font-family: -apple-system, Segoe UI, Roboto, sans-serif; }
  a { text-decoration:none; }
  .bar { display:flex; justify-content:flex-end; padding:12px 16px; }
  .backdrop { position:fixed; inset:0; }
  .panel { position:fixed; top:0; bottom:0; right:0; width:100%; display:flex; flex-direction:column; align-items:flex-end; padding:24px 32px; box-sizing:border-box; }
  .controls { display:flex; gap:16px; font-size:20px; }
  .status { margin-top:24px; font-size:14px; font-weight:600; }
  .items { margin-top:24px; display:flex; flex-direction:column; align-items:flex-end; gap:16px; }
  .item { font-size:28px; font-weight:700; }
</style>
</head>
{{- $p := .View.Palette }}
<body style="background: {{ if .Dark }}#111111{{ else }}#f7f7f7{{ end }}; color: {{ $p.TextDark }};">
  <div class="bar"><a href="/?path={{ .Path }}&expanded=1&dark={{ .Dark }}" style="color: {{ $p.TextDark }};">&#9776;</a></div>
  {{- if .View.Visible }}
  <a class="backdrop" href="/?path={{ .Path }}&expanded=0&dark={{ .Dark }}" style="background: {{ $p.Overlay }};" aria-label="Close menu"></a>
  <nav class="panel" data-edge="{{ .View.Edge }}">
    <div class="controls">
      <a href="/?path={{ .Path }}&expanded=1&dark={{ not .Dark }}" style="color: {{ $p.TextDark }};" aria-label="Toggle theme">{{ if .Dark }}&#9788;{{ else }}&#9790;{{ end }}</a>
      <a href="/?path={{ .Path }}&expanded=0&dark={{ .Dark }}" style="color: {{ $p.TextDark }};" aria-label="Close">&#10005;</a>
    </div>
    <div class="status" style="color: {{ .View.Status.Color }};">{{ .View.Status.Text }}</div>
    <div class="items">
      {{- range .View.Items }}
      <a class="item{{ if .Active }} active{{ end }}" href="/?path={{ .Path }}&expanded=0&dark={{ $.Dark }}" style="color: {{ .Color }};">{{ .Title }}</a>
      {{- end }}
    </div>
  </nav>
  {{- end }}
</body>
</html>`
