package printing

import (
	"bytes"
	"html/template"
)

// The body is inserted unescaped: stored markup only ever comes from the
// authoring surface.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div>{{.Body}}</div>
</body>
</html>
`))

type pageData struct {
	Title string
	Body  template.HTML
}

// RenderPage builds the minimal print document for a title and raw content.
func RenderPage(title, content string) (string, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pageData{Title: title, Body: template.HTML(content)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
