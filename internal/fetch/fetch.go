// Package fetch resolves remote PDF inputs to local files. It is only
// invoked when the input is a URL.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Download retrieves rawURL into a local temporary file and returns its
// path. The caller owns the file.
func Download(rawURL string) (string, error) {
	resp, err := http.Get(rawURL) //nolint:gosec // G107: fetching a user-provided URL is the point
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}

	f, err := os.CreateTemp("", "tablex-download-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("saving %s: %w", rawURL, err)
	}
	return f.Name(), nil
}
