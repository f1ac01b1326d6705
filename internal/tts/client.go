// Package tts synthesizes speech through a Piper-compatible HTTP server.
// Synthesis is best effort: every failure is logged and surfaces as an
// empty file path, never as an error.
package tts

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL   string
	outputDir string
	client    *http.Client
}

func NewClient(baseURL, outputDir string) *Client {
	return &Client{
		baseURL:   baseURL,
		outputDir: outputDir,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Enabled reports whether a synthesis endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Synthesize sends the text to the TTS server and writes the returned WAV
// under the output dir. Returns the written file path, or "" on any failure.
func (c *Client) Synthesize(ctx context.Context, text string) string {
	if !c.Enabled() {
		return ""
	}
	if strings.TrimSpace(text) == "" {
		log.Println("tts: empty text, skipping synthesis")
		return ""
	}

	endpoint := c.baseURL + "?text=" + url.QueryEscape(text)
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		log.Printf("tts: build request: %v", err)
		return ""
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("tts: request failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("tts: server returned status %d", resp.StatusCode)
		return ""
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		log.Printf("tts: create output dir: %v", err)
		return ""
	}

	outPath := filepath.Join(c.outputDir, uuid.NewString()+".wav")
	f, err := os.Create(outPath)
	if err != nil {
		log.Printf("tts: create output file: %v", err)
		return ""
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		log.Printf("tts: write wav: %v", err)
		_ = os.Remove(outPath)
		return ""
	}

	log.Printf("tts: synthesized %q", outPath)
	return outPath
}
