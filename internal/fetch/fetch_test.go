package fetch

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/MeKo-Tech/tablex/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("http://example.com/doc.pdf"))
	assert.True(t, IsURL("https://example.com/doc.pdf"))
	assert.False(t, IsURL("/tmp/doc.pdf"))
	assert.False(t, IsURL("doc.pdf"))
	assert.False(t, IsURL("ftp://example.com/doc.pdf"))
	assert.False(t, IsURL("https://"))
}

func TestDownload(t *testing.T) {
	content := testutil.PDFBytes("remote")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(content)
	}))
	defer srv.Close()

	path, err := Download(srv.URL + "/doc.pdf")
	require.NoError(t, err)
	defer func() { _ = os.Remove(path) }()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestDownloadNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Download(srv.URL + "/missing.pdf")
	require.Error(t, err)
}
