package server

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/twels/front/internal/keyboard"
	"github.com/twels/front/internal/page"
	"github.com/twels/front/internal/search"
	"github.com/twels/front/internal/version"
)

type keyboardTabView struct {
	Label      string
	TabID      string
	TabClass   string
	PanelID    string
	PanelClass string
	Href       string
	Keys       []keyboard.Key
}

type indexView struct {
	Page       *page.Page
	CanvasHTML template.HTML
	Tabs       []keyboardTabView
	Results    []search.Result
	Searched   bool
	NextURL    string
	Notice     string
	OCR        string
	Version    string
	Codec      string
	WASM       bool
}

func (s *stateStore) newIndexView(p *page.Page) indexView {
	// Markup escapes every query, so the canvas content is safe HTML.
	view := indexView{
		Page:       p,
		CanvasHTML: template.HTML(p.Canvas.HTML),
		Version:    version.Current(),
		Codec:      s.variant.String(),
		WASM:       strings.TrimSpace(s.cfg.Server.StaticDir) != "",
	}
	nav := p.NavigationURL("/")
	for i, panel := range p.Keyboard.Panels {
		if i >= len(p.Tabs) {
			break
		}
		view.Tabs = append(view.Tabs, keyboardTabView{
			Label:      panel.Name,
			TabID:      p.Tabs[i].ID,
			TabClass:   p.Tabs[i].ClassName(),
			PanelID:    p.Panels[i].ID,
			PanelClass: p.Panels[i].ClassName(),
			Href:       nav + "&" + tabParam + "=" + strconv.Itoa(i),
			Keys:       panel.Keys,
		})
	}
	return view
}

func (s *stateStore) renderIndex(w http.ResponseWriter, status int, view indexView) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, view); err != nil {
		slog.Error("render index page", "error", err)
		http.Error(w, "render page failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const indexHTML = `<!doctype html>
<html lang="ja">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{if .Page.Input}}{{.Page.Input}} - {{end}}twels</title>
  <style>
` + uiPageChromeCSS + `
    h1 { margin: 0 0 12px; font-size: 28px; }
    textarea {
      width: 100%;
      min-height: 64px;
      border: 1px solid var(--line);
      border-radius: 8px;
      padding: 9px 12px;
      font-size: 16px;
      font-family: "Menlo", "Consolas", monospace;
    }
    .row { display: flex; gap: 8px; flex-wrap: wrap; align-items: center; margin-top: 8px; }
    #canvas { min-height: 32px; padding: 8px 0; }
    #canvas span { margin-right: 24px; }
    .tabs { display: flex; gap: 4px; margin-top: 12px; }
    .tab { padding: 6px 10px; border: 1px solid var(--line); border-radius: 8px 8px 0 0; }
    .tab.is-active { background: var(--bg2); font-weight: 600; }
    .panel { display: none; border: 1px solid var(--line); padding: 8px; }
    .panel.is-show { display: flex; gap: 6px; flex-wrap: wrap; }
    .notice { color: var(--bad); margin: 8px 0; }
    .result { padding: 10px 0; border-top: 1px solid var(--line); }
    .result .uri { color: var(--muted); font-size: 12px; }
    #imageForm { display: inline; }
    #uploadImage { display: none; }
  </style>
  <script>
    window.MathJax = { tex: { inlineMath: [['\\(', '\\)']] }, svg: { fontCache: 'global' } };
  </script>
  <script async src="https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-svg.js"></script>
</head>
<body>
  <main>
    <div class="card">
      <h1><a href="/">twels</a></h1>
      {{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
      <form id="searchForm" method="post" action="/search" data-codec="{{.Codec}}">
        <textarea id="input" name="q" autocomplete="off" spellcheck="false">{{.Page.Input}}</textarea>
        <div id="canvas">{{.CanvasHTML}}</div>
        <div class="row">
          {{range .Page.Languages}}<label><input type="checkbox" name="{{.Name}}" value="{{.Val}}"{{if .Checked}} checked{{end}} /> {{.Label}}</label>
          {{end}}
          <input type="hidden" name="ocr" value="{{.OCR}}" />
          <button type="submit">Search</button>
          <button type="button" id="camera" class="secondary">Image</button>
        </div>
      </form>
      <form id="imageForm" method="post" action="/" enctype="multipart/form-data">
        <input type="file" id="uploadImage" name="uploadImage" accept="image/*" />
        <noscript><button type="submit" class="secondary">Upload</button></noscript>
      </form>
      <div class="tabs">
        {{range .Tabs}}<a id="{{.TabID}}" class="{{.TabClass}}" href="{{.Href}}">{{.Label}}</a>
        {{end}}
      </div>
      {{range .Tabs}}<div id="{{.PanelID}}" class="{{.PanelClass}}">
        {{range .Keys}}<button type="button" class="key" data-expr="{{.Expr}}">{{.Label}}</button>{{end}}
      </div>
      {{end}}
    </div>
    {{if .Searched}}<div class="card">
      {{range .Results}}<div class="result">
        <a href="{{.URI}}">{{.Title}}</a>
        <div class="uri">{{.URI}}</div>
        <p>{{.Snippet}}</p>
      </div>
      {{else}}<p class="muted">No results.</p>
      {{end}}
      {{if .NextURL}}<a class="nav-btn" href="{{.NextURL}}">Next</a>{{end}}
    </div>{{end}}
    <p class="muted">
      <a href="/input-example">Input examples</a> &middot;
      <a href="/feedback">Feedback</a> &middot;
      <a href="/privacy">Privacy</a> &middot; {{.Version}}
    </p>
  </main>
  {{if .WASM}}<script src="/static/wasm_exec.js"></script>
  <script>
    const go = new Go();
    WebAssembly.instantiateStreaming(fetch('/static/twels.wasm'), go.importObject)
      .then((res) => go.run(res.instance))
      .catch((err) => console.error('load twels.wasm', err));
  </script>{{end}}
</body>
</html>
`
