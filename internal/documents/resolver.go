// Package documents turns opaque resume references into plain text for the
// scoring oracle. A reference is either an HTTP(S) URL (cloud storage) or a
// local file path.
package documents

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

// MinTextLength below which extraction is considered to have failed.
const MinTextLength = 50

// Resolver fetches and extracts resume text.
type Resolver struct {
	HTTPClient *http.Client
}

func NewResolver() *Resolver {
	return &Resolver{HTTPClient: &http.Client{Timeout: 30 * time.Second}}
}

// FetchText resolves ref to raw bytes and extracts plain text.
func (r *Resolver) FetchText(ref string) (string, error) {
	data, err := r.fetch(ref)
	if err != nil {
		return "", err
	}
	return extractText(data)
}

func (r *Resolver) fetch(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := r.HTTPClient.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", ref, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
	return os.ReadFile(ref)
}

// extractText handles PDFs via pdftotext (poppler-utils); anything else is
// treated as plain text.
func extractText(data []byte) (string, error) {
	if !isPDF(data) {
		return string(data), nil
	}

	tmp, err := os.CreateTemp("", "resume-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	out, err := exec.Command("pdftotext", "-layout", tmp.Name(), "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdf extraction requires 'pdftotext' (poppler-utils): %w", err)
	}
	return string(out), nil
}

func isPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
