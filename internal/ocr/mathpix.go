// Package ocr recognizes math formulas in uploaded images through the
// Mathpix LaTeX API.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultEndpoint = "https://api.mathpix.com/v3/latex"

var ErrNotConfigured = errors.New("ocr credentials are not configured")

type Client struct {
	Endpoint   string
	AppID      string
	AppKey     string
	HTTPClient *http.Client
}

func NewClient(endpoint, appID, appKey string, timeout time.Duration) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		Endpoint:   endpoint,
		AppID:      strings.TrimSpace(appID),
		AppKey:     strings.TrimSpace(appKey),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type latexRequest struct {
	Src           string                  `json:"src"`
	OCR           []string                `json:"ocr"`
	SkipRecrop    bool                    `json:"skip_recrop"`
	Formats       []string                `json:"formats"`
	FormatOptions map[string]formatOption `json:"format_options"`
}

type formatOption struct {
	Transforms []string `json:"transforms"`
}

type latexResponse struct {
	LatexStyled *string `json:"latex_styled"`
	Error       string  `json:"error"`
}

// Recognize sends image to the service. ok is false when the service found
// no formula; err is reserved for transport and protocol failures.
func (c *Client) Recognize(ctx context.Context, image []byte, contentType string) (latex string, ok bool, err error) {
	if c.AppID == "" || c.AppKey == "" {
		return "", false, ErrNotConfigured
	}
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/jpg"
	}
	payload, err := json.Marshal(latexRequest{
		Src:        "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(image),
		OCR:        []string{"math"},
		SkipRecrop: true,
		Formats:    []string{"latex_styled"},
		FormatOptions: map[string]formatOption{
			"latex_styled": {Transforms: []string{"rm_spaces"}},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("encode ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("app_id", c.AppID)
	req.Header.Set("app_key", c.AppKey)

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("request ocr: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("ocr failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out latexResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", false, fmt.Errorf("decode ocr response: %w", err)
	}
	if out.LatexStyled == nil {
		return "", false, nil
	}
	return *out.LatexStyled, true, nil
}
