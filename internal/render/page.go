package render

import (
	"bytes"
	"html/template"

	"github.com/punchamoorthee/gashawk/internal/domain"
)

const Title = "GasHawk Savings Calculator"

type button struct {
	Index  int
	Label  string
	Action string
	Target string
}

type pageData struct {
	Title       string
	Image       template.URL
	PostURL     string
	Placeholder string
	Buttons     []button
}

var pageTemplate = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta property="og:title" content="{{.Title}}">
<meta property="og:image" content="{{.Image}}">
<meta property="fc:frame" content="vNext">
<meta property="fc:frame:image" content="{{.Image}}">
<meta property="fc:frame:image:aspect_ratio" content="1.91:1">
<meta property="fc:frame:post_url" content="{{.PostURL}}">
{{- if .Placeholder}}
<meta property="fc:frame:input:text" content="{{.Placeholder}}">
{{- end}}
{{- range .Buttons}}
<meta property="fc:frame:button:{{.Index}}" content="{{.Label}}">
<meta property="fc:frame:button:{{.Index}}:action" content="{{.Action}}">
{{- if .Target}}
<meta property="fc:frame:button:{{.Index}}:target" content="{{.Target}}">
{{- end}}
{{- end}}
</head>
<body><img src="{{.Image}}" alt="{{.Title}}" width="600"></body>
</html>
`))

// Page renders screen as a frame HTML document whose buttons post to postURL.
// Reset buttons post like any other button; the server recognises their token.
func Page(screen domain.Screen, postURL string) ([]byte, error) {
	data := pageData{
		Title:   Title,
		Image:   template.URL(DataURI(screen)),
		PostURL: postURL,
	}
	if screen.Input != nil {
		data.Placeholder = screen.Input.Placeholder
	}
	for i, a := range screen.Actions {
		b := button{Index: i + 1, Label: a.Label, Action: "post"}
		if a.Kind == domain.ActionLink {
			b.Action = "link"
			b.Target = a.Target
		}
		data.Buttons = append(data.Buttons, b)
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
