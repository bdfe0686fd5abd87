package view

import (
	"bytes"
	"fmt"
	"html/template"
)

// 颜色只来自固定调色板，可以安全地作为 CSS 输出；用户文本一律由模板转义。
var panelFuncs = template.FuncMap{
	"colorStyle": func(prop, color string) template.CSS {
		return template.CSS(fmt.Sprintf("%s: %s", prop, color))
	},
	"barStyle": func(width float64, color string) template.CSS {
		return template.CSS(fmt.Sprintf("width: %.1f%%; background: %s", width, color))
	},
}

var panelTmpl = template.Must(template.New("panel").Funcs(panelFuncs).Parse(`
{{- define "actions" -}}
<div class="result-actions">
{{- range . }}<button type="button" class="action-btn" data-action="{{ .Name }}">{{ .Label }}</button>{{ end -}}
</div>
{{- end -}}

{{- if eq .Kind "results" }}{{ with .Results -}}
<div class="results-panel">
  <div class="top-emotion" style="{{ colorStyle "border-color" .Top.Color }}">
    <span class="top-glyph">{{ .Top.Glyph }}</span>
    <div class="top-info">
      <h3 style="{{ colorStyle "color" .Top.Color }}">{{ .Top.Name }}</h3>
      <p class="confidence">{{ .Top.Confidence }} Confidence</p>
      {{- if .Top.HistoryBadge }}<span class="history-badge">Saved {{ .Top.HistoryBadge }}</span>{{ end }}
    </div>
  </div>
  <div class="emotion-scores">
    {{- range .Rows }}
    <div class="emotion-row{{ if .Top }} is-top{{ end }}" data-label="{{ .Label }}">
      <span class="emotion-name">{{ .Glyph }} {{ .Name }}{{ if .Top }} <span class="top-marker">Top</span>{{ end }}</span>
      <div class="emotion-bar"><div class="emotion-bar-fill" style="{{ barStyle .Bar .Color }}"></div></div>
      <span class="emotion-percent">{{ .Percent }}</span>
    </div>
    {{- end }}
  </div>
  <div class="analyzed-text">
    <h4>Analyzed Text</h4>
    <p>{{ .Text }}</p>
  </div>
  <div class="result-meta">
    <span>📝 {{ .CharCount }} characters</span>
    <span>😀 {{ .EmojiCount }} emojis</span>
    <span>🕒 {{ .RenderedAt }}</span>
  </div>
  {{ template "actions" .Actions }}
</div>
{{- end }}{{ else if eq .Kind "error" }}{{ with .Failure -}}
<div class="error-panel">
  <div class="error-glyph">{{ .Glyph }}</div>
  <h3>{{ .Title }}</h3>
  <p>{{ .Message }}</p>
  {{ template "actions" .Actions }}
</div>
{{- end }}{{ else }}{{ with .Empty -}}
<div class="empty-state">
  <div class="empty-glyph">{{ .Glyph }}</div>
  <h3>{{ .Title }}</h3>
  <p>{{ .Hint }}</p>
</div>
{{- end }}{{ end }}`))

// PanelHTML materialises the results container markup. A nil panel yields "".
func PanelHTML(p *Panel) (string, error) {
	if p == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := panelTmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render panel: %w", err)
	}
	return buf.String(), nil
}
