package testutil

import (
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFBytesProducesValidDocuments(t *testing.T) {
	dir := t.TempDir()

	path := WritePDF(t, dir, "three.pdf", "first", "second", "third")
	count, err := api.PageCountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPDFBytesDefaultsToOnePage(t *testing.T) {
	dir := t.TempDir()

	path := WritePDF(t, dir, "one.pdf")
	count, err := api.PageCountFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWriteEncryptedPDF(t *testing.T) {
	dir := t.TempDir()

	path := WriteEncryptedPDF(t, dir, "locked.pdf", "secret", "classified")

	// Without the password the page count must not be readable.
	_, err := api.PageCountFile(path)
	assert.Error(t, err)
}

func TestEscapePDFString(t *testing.T) {
	assert.Equal(t, `a\(b\)c\\d`, escapePDFString(`a(b)c\d`))
}
