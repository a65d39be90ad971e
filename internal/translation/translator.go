// Package translation rewrites product text into the shopper's
// language through a free external translation endpoint, with a
// persistent versioned cache in front of it.
package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/frostmart/storefront-service/internal/httpx"
	"github.com/frostmart/storefront-service/internal/httpx/ratelimit"
)

// maxTextLength caps the text sent per translation call. The free
// endpoint rejects longer queries.
const maxTextLength = 500

// Translator is the external translation contract.
type Translator interface {
	Translate(ctx context.Context, text, fromLang, toLang string) (string, error)
}

// MyMemory translates text through the MyMemory public API.
type MyMemory struct {
	baseURL string
	http    *httpx.Client
}

// NewMyMemory creates a MyMemory API client.
func NewMyMemory(baseURL string, rateCfg ratelimit.Config, timeout time.Duration) *MyMemory {
	return &MyMemory{
		baseURL: baseURL,
		http:    httpx.NewClient(rateCfg, timeout),
	}
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus json.Number `json:"responseStatus"`
}

// Translate sends one text through the endpoint. Empty input returns
// empty output without a network call.
func (m *MyMemory) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	cleaned := cleanText(text)
	if cleaned == "" {
		return "", nil
	}

	reqURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		m.baseURL,
		url.QueryEscape(cleaned),
		url.QueryEscape(fromLang+"|"+toLang))

	data, err := m.http.GetBytes(ctx, reqURL)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}

	var resp myMemoryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode translation response: %w", err)
	}

	if status, _ := resp.ResponseStatus.Int64(); status != 200 {
		return "", fmt.Errorf("translation rejected with status %s", resp.ResponseStatus)
	}

	translated := strings.TrimSpace(resp.ResponseData.TranslatedText)
	if translated == "" {
		return "", fmt.Errorf("translation returned empty text")
	}
	return translated, nil
}

// cleanText collapses whitespace and truncates to the endpoint's
// query limit.
func cleanText(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	if len(cleaned) > maxTextLength {
		cleaned = cleaned[:maxTextLength]
	}
	return cleaned
}
