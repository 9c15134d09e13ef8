package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const ttsEndpoint = "https://translate.google.com/translate_tts"

// ttsChunkLimit is the maximum text length the endpoint accepts per request.
const ttsChunkLimit = 200

// Synthesizer converts text into spoken audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, outPath string) error
}

// GoogleTTS implements Synthesizer against the translate_tts MP3 endpoint.
type GoogleTTS struct{}

// NewGoogleTTS returns the default synthesizer.
func NewGoogleTTS() *GoogleTTS {
	return &GoogleTTS{}
}

// Synthesize writes spoken MP3 audio for text to outPath. Long text is
// split on sentence-ish boundaries and the MP3 frames are concatenated,
// which players accept.
func (g *GoogleTTS) Synthesize(ctx context.Context, text, lang, outPath string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("tts: empty text")
	}

	if dir := filepath.Dir(outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("tts: create output dir: %w", err)
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("tts: create %s: %w", outPath, err)
	}
	defer out.Close()

	for _, chunk := range splitChunks(text, ttsChunkLimit) {
		if err := g.fetchChunk(ctx, chunk, lang, out); err != nil {
			os.Remove(outPath)
			return err
		}
	}
	return nil
}

// fetchChunk streams one synthesized chunk into w.
func (g *GoogleTTS) fetchChunk(ctx context.Context, chunk, lang string, w io.Writer) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ttsEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tts: create request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tts: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tts: HTTP %d", resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("tts: write audio: %w", err)
	}
	return nil
}

// splitChunks breaks text into pieces no longer than limit, preferring
// sentence and then word boundaries.
func splitChunks(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, word := range strings.Fields(text) {
		// A single word over the limit goes out as its own chunk.
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
