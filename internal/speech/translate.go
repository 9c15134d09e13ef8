// Package speech turns the comparative report into translated text and a
// spoken MP3. Both clients talk to the unofficial Google translate endpoints
// and are external collaborators: failures surface to the caller, which
// owns any retry policy.
package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// httpClient is shared by the translate and TTS clients.
var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

const translateEndpoint = "https://translate.googleapis.com/translate_a/single"

// Translator converts report text into the target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// GoogleTranslator implements Translator against the free gtx endpoint.
type GoogleTranslator struct{}

// NewGoogleTranslator returns the default translator.
func NewGoogleTranslator() *GoogleTranslator {
	return &GoogleTranslator{}
}

// Translate returns text translated into targetLang. Empty text translates
// to itself without a network call.
func (t *GoogleTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, translateEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create translate request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}

	return decodeTranslation(body)
}

// decodeTranslation extracts segment translations from the gtx response,
// which is a nested JSON array: [[["translated","original",...],...],...].
func decodeTranslation(body []byte) (string, error) {
	var raw []any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	segments, ok := raw[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("translate response carried no text")
	}
	return b.String(), nil
}
