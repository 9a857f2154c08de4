// Package search forwards queries to the twels search backend.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/twels/front/internal/formstate"
	"github.com/twels/front/internal/querycodec"
)

type Result struct {
	URI     string `json:"uri"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type Response struct {
	Results []Result `json:"results"`
	HasNext bool     `json:"has_next"`
}

type Request struct {
	// Query is the decoded search text; separators are kept.
	Query     string
	Start     int
	Languages []string
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a backend URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

// RawQuery builds the backend query string. q is written with the V2 codec
// so the backend sees the same separators as the page URL.
func (r Request) RawQuery() string {
	return "q=" + querycodec.EncodeV2(r.Query) +
		"&start=" + strconv.Itoa(r.Start) +
		formstate.AppendQuery(formstate.LanguageParam, r.Languages)
}

func (c *Client) Search(ctx context.Context, r Request) (Response, error) {
	if !c.Enabled() {
		return Response{}, nil
	}
	url := c.BaseURL + "/search?" + r.RawQuery()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "twels-front")

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request search backend: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, fmt.Errorf("search backend failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return Response{}, fmt.Errorf("decode search response: %w", err)
	}
	return out, nil
}
