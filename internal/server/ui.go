package server

import (
	"html/template"
	"net/http"
)

type staticPage struct {
	Title string
	Body  template.HTML
}

var staticPages = map[string]staticPage{
	"privacy":       {Title: "Privacy", Body: privacyBody},
	"feedback":      {Title: "Feedback", Body: feedbackBody},
	"report":        {Title: "Report a page", Body: reportBody},
	"input-example": {Title: "Input examples", Body: inputExampleBody},
}

const privacyBody = `<p>Search queries are kept in a local history so that the operator can
diagnose search problems. Uploaded images are sent to the formula
recognition service and are not stored; only the file name, its size and
the recognized LaTeX are logged.</p>`

const feedbackBody = `<p>Tell us about formulas that could not be found or were recognized wrongly. Include the search URL so the query can be reproduced.</p>`

const reportBody = `<p>If a search result points to content that should not be listed, send its address together with the reason.</p>`

const inputExampleBody = `<p>Type formulas in LaTeX. Separate several formulas with two spaces; each one is searched as its own query.</p>
<ul>
  <li><code>\int_0^\infty e^{-x^2} dx</code></li>
  <li><code>a^2+b^2=c^2</code>&nbsp;&nbsp;<code>\sin^2 x+\cos^2 x=1</code></li>
  <li><code>\sum_{n=1}^\infty \frac{1}{n^2}</code></li>
</ul>`

var staticPageTemplate = template.Must(template.New("static").Parse(`<!doctype html>
<html lang="ja">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}} - twels</title>
  <style>
` + uiPageChromeCSS + `
  </style>
</head>
<body>
  <main>
    <div class="card">
      <h1>{{.Title}}</h1>
      {{.Body}}
      <p><a class="nav-btn" href="/">Back to search</a></p>
    </div>
  </main>
</body>
</html>
`))

func (s *stateStore) staticPageHandler(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pg, ok := staticPages[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = staticPageTemplate.Execute(w, pg)
	}
}

func robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("User-agent: *\nDisallow: /api/\nAllow: /\n"))
}
