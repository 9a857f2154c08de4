package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twels/front/internal/formstate"
	"github.com/twels/front/internal/mathrender"
	"github.com/twels/front/internal/page"
	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/search"
	"github.com/twels/front/internal/store"
	"github.com/twels/front/internal/urlparam"
)

const tabParam = "tab"

func (s *stateStore) pageConfig() page.Config {
	langs := make([]formstate.Option, 0, len(s.cfg.Languages))
	for _, l := range s.cfg.Languages {
		label := l.Label
		if label == "" {
			label = l.Value
		}
		langs = append(langs, formstate.Option{Name: formstate.LanguageParam, Label: label, Val: l.Value, Checked: l.Checked})
	}
	return page.Config{
		Variant:    s.variant,
		Languages:  langs,
		Keyboard:   s.cfg.Keyboard,
		Typesetter: &mathrender.Deferred{},
	}
}

// buildPage parses the raw query string into a page. Malformed parameters
// fall back to an empty page and a notice; the error is returned for logging.
func (s *stateStore) buildPage(ctx context.Context, rawQuery string) (*page.Page, string, error) {
	params, perr := urlparam.ParseWithOptions(rawQuery, s.paramOpts)
	if perr != nil {
		params = urlparam.Params{}
	}
	p, err := page.New(ctx, params, s.pageConfig())
	if err != nil {
		perr = errors.Join(perr, err)
		p, err = page.New(ctx, urlparam.Params{}, s.pageConfig())
		if err != nil {
			return nil, "", err
		}
	}
	if v := params.Get(tabParam); v != "" {
		if i, convErr := strconv.Atoi(v); convErr == nil {
			if err := p.SelectTab(i); err != nil {
				slog.Warn("select keyboard tab", "tab", v, "error", err)
			}
		}
	}
	notice := ""
	if perr != nil {
		notice = "The search URL could not be read. Please enter the query again."
	}
	return p, notice, perr
}

func (s *stateStore) indexHandler(w http.ResponseWriter, r *http.Request) {
	p, notice, err := s.buildPage(r.Context(), r.URL.RawQuery)
	if err != nil {
		if p == nil {
			http.Error(w, "render page failed", http.StatusInternalServerError)
			return
		}
		slog.Warn("parse search url", "query", r.URL.RawQuery, "error", err)
	}

	view := s.newIndexView(p)
	view.Notice = notice

	if err == nil && strings.TrimSpace(p.Input) != "" {
		s.runSearch(r, p, &view)
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadRequest
	}
	s.renderIndex(w, status, view)
}

func (s *stateStore) runSearch(r *http.Request, p *page.Page, view *indexView) {
	ctx := r.Context()
	req := search.Request{Query: p.Input, Start: p.Start, Languages: p.CheckedLanguages()}

	started := time.Now()
	resp, err := s.search.Search(ctx, req)
	elapsed := time.Since(started)
	if err != nil {
		slog.Error("search backend", "query", p.Input, "error", err)
		view.Notice = "Search is temporarily unavailable."
	} else {
		view.Results = resp.Results
		view.Searched = s.search.Enabled()
		if resp.HasNext {
			view.NextURL = p.NextURL("/", s.cfg.Search.PageSize)
		}
		slog.Info("search", "queries", len(p.Queries()), "start", p.Start, "results", len(resp.Results), "elapsed", elapsed)
	}

	if s.db == nil {
		return
	}
	if _, err := s.db.RecordSearch(ctx, store.SearchRecord{
		Query:       p.Input,
		Encoded:     querycodec.URLValue(s.variant, p.Input),
		Variant:     s.variant.String(),
		Languages:   req.Languages,
		Start:       p.Start,
		ResultCount: len(view.Results),
		RemoteAddr:  r.RemoteAddr,
	}); err != nil {
		slog.Error("record search", "error", err)
	}
}

// searchSubmitHandler turns the posted search form into the GET navigation
// URL, so the query string is written by the codec and not by the
// browser's form encoder.
func (s *stateStore) searchSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	params := urlparam.Params{}
	params[urlparam.QueryParam] = r.PostForm.Get(urlparam.QueryParam)
	langs := r.PostForm[formstate.LanguageParam]
	switch len(langs) {
	case 0:
		// An empty selection is still explicit: reflect it as no language.
		params[formstate.LanguageParam] = []string{}
	case 1:
		params[formstate.LanguageParam] = langs[0]
	default:
		params[formstate.LanguageParam] = langs
	}

	p, err := page.New(r.Context(), params, s.pageConfig())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, p.NavigationURL("/"), http.StatusSeeOther)
}
