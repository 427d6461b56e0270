// Package document wraps the PDF decode/encode operations the pipeline
// needs: opening (with transparent decryption), page counting, splitting
// out single pages and applying physical page rotations.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// UnsupportedFormatError reports an input that is not a PDF document.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Path)
}

// AuthenticationError reports an encrypted document whose password failed
// to decrypt it.
type AuthenticationError struct {
	Path string
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("cannot decrypt %s: wrong or missing password", e.Path)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// PageIndexError reports a requested page beyond the document's page count.
type PageIndexError struct {
	Page  int
	Count int
}

func (e *PageIndexError) Error() string {
	return fmt.Sprintf("page %d out of range: document has %d page(s)", e.Page, e.Count)
}

// ValidatePath checks that the input looks like a PDF document.
func ValidatePath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return &UnsupportedFormatError{Path: path}
	}
	return nil
}

// Document is an opened source PDF. If the source was encrypted it points
// at a decrypted working copy inside the caller's scoped directory.
type Document struct {
	source    string
	path      string
	pageCount int
}

// Open opens the document at path, decrypting it into workDir when it
// reports itself encrypted. An empty password is tried as-is; failure to
// decrypt is an AuthenticationError.
func Open(path, password, workDir string) (*Document, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}

	working := path
	count, err := api.PageCountFile(path)
	if err != nil {
		if !isEncryptionError(err) {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		working = filepath.Join(workDir, "decrypted-"+filepath.Base(path))
		if err := decrypt(path, working, password); err != nil {
			_ = os.Remove(working)
			return nil, &AuthenticationError{Path: path, Err: err}
		}
		count, err = api.PageCountFile(working)
		if err != nil {
			return nil, fmt.Errorf("reading decrypted %s: %w", path, err)
		}
	}

	return &Document{source: path, path: working, pageCount: count}, nil
}

// CountPages reports the page count of the document at path, decrypting
// into a throwaway directory if needed. It backs the lazy page-count
// provider of the selection parser.
func CountPages(path, password string) (int, error) {
	tmp, err := os.MkdirTemp("", "tablex-count-*")
	if err != nil {
		return 0, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	doc, err := Open(path, password, tmp)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Source returns the path the document was opened from.
func (d *Document) Source() string { return d.source }

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int { return d.pageCount }

// ExtractPage writes page (1-based) as a standalone single-page document
// at outPath.
func (d *Document) ExtractPage(page int, outPath string) error {
	if page < 1 || page > d.pageCount {
		return &PageIndexError{Page: page, Count: d.pageCount}
	}
	sel := []string{strconv.Itoa(page)}
	if err := api.TrimFile(d.path, outPath, sel, nil); err != nil {
		return fmt.Errorf("extracting page %d of %s: %w", page, d.source, err)
	}
	return nil
}

// Rotate applies a physical rotation to every page of the document at
// inPath and writes the result to outPath. Positive degrees rotate
// clockwise; only multiples of 90 are meaningful.
func Rotate(inPath, outPath string, degrees int) error {
	if err := api.RotateFile(inPath, outPath, degrees, nil, nil); err != nil {
		return fmt.Errorf("rotating %s by %d: %w", inPath, degrees, err)
	}
	return nil
}

// decrypt writes a decrypted copy of inPath to outPath.
func decrypt(inPath, outPath, password string) error {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	return api.DecryptFile(inPath, outPath, conf)
}

// isEncryptionError sniffs pdfcpu errors for missing-password symptoms.
func isEncryptionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, kw := range []string{"encrypted", "password", "decrypt"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
