package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/twels/front/internal/querycodec"
	"github.com/twels/front/internal/server/httpx"
	"github.com/twels/front/internal/urlparam"
	"github.com/twels/front/internal/version"
)

type serverInfoResponse struct {
	Name       string `json:"name"`
	APIVersion int    `json:"api_version"`
	Version    string `json:"version"`
	Semver     string `json:"semver,omitempty"`
	Hostname   string `json:"hostname,omitempty"`
	Codec      string `json:"codec"`
}

type codecResponse struct {
	Variant string   `json:"variant"`
	Text    string   `json:"text"`
	Value   string   `json:"value"`
	Queries []string `json:"queries"`
}

func healthzHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *stateStore) serverInfoHandler(w http.ResponseWriter, r *http.Request) {
	host, _ := os.Hostname()
	httpx.WriteJSON(w, http.StatusOK, serverInfoResponse{
		Name:       "twels",
		APIVersion: 1,
		Version:    version.Current(),
		Semver:     version.Canonical(),
		Hostname:   strings.TrimSpace(host),
		Codec:      s.variant.String(),
	})
}

func (s *stateStore) variantParam(r *http.Request) (querycodec.Variant, error) {
	raw := r.URL.Query().Get("variant")
	if raw == "" {
		return s.variant, nil
	}
	return querycodec.ParseVariant(raw)
}

func (s *stateStore) encodeHandler(w http.ResponseWriter, r *http.Request) {
	v, err := s.variantParam(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	text := r.URL.Query().Get("text")
	httpx.WriteJSON(w, http.StatusOK, codecResponse{
		Variant: v.String(),
		Text:    text,
		Value:   v.Encode(text),
		Queries: querycodec.SplitQueries(text),
	})
}

func (s *stateStore) decodeHandler(w http.ResponseWriter, r *http.Request) {
	v, err := s.variantParam(r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	// The value is read raw so that '+' reaches the codec untouched.
	value := rawQueryValue(r.URL.RawQuery, "value")
	text, err := v.Decode(value)
	if err != nil {
		var de *querycodec.DecodeError
		if errors.As(err, &de) {
			httpx.WriteError(w, http.StatusBadRequest, de.Error())
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, codecResponse{
		Variant: v.String(),
		Text:    text,
		Value:   value,
		Queries: querycodec.SplitQueries(text),
	})
}

// rawQueryValue returns the still-encoded value of the first name=value pair.
func rawQueryValue(rawQuery, name string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k == name {
			return v
		}
	}
	return ""
}

// paramsHandler parses the caller's query string the way the search page does.
func (s *stateStore) paramsHandler(w http.ResponseWriter, r *http.Request) {
	params, err := urlparam.ParseWithOptions(r.URL.RawQuery, s.paramOpts)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, params)
}

func (s *stateStore) historyHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "history is not available")
		return
	}
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))
	searches, err := s.db.ListSearches(r.Context(), max)
	if err != nil {
		slog.Error("list searches", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "list searches failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"searches": searches})
}

func (s *stateStore) flushHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "history is not available")
		return
	}
	n, err := s.db.FlushSearches(r.Context())
	if err != nil {
		slog.Error("flush searches", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "flush searches failed")
		return
	}
	slog.Info("search history flushed", "deleted", n)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"deleted": n})
}

func (s *stateStore) uploadsHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httpx.WriteError(w, http.StatusServiceUnavailable, "upload log is not available")
		return
	}
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))
	uploads, err := s.db.ListUploads(r.Context(), max)
	if err != nil {
		slog.Error("list uploads", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "list uploads failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"uploads": uploads})
}
