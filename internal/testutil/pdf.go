// Package testutil provides fixtures for tests: small generated PDF
// documents with known content, plus encrypted variants.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFBytes builds a minimal but well-formed PDF with one page per entry
// in pageTexts, each page carrying its text as a single Helvetica line.
func PDFBytes(pageTexts ...string) []byte {
	if len(pageTexts) == 0 {
		pageTexts = []string{""}
	}

	// Object numbering: 1 catalog, 2 page tree, 3 font, then for page i
	// (0-based): 4+2i page, 5+2i content stream.
	numObjs := 3 + 2*len(pageTexts)

	var kids bytes.Buffer
	for i := range pageTexts {
		if i > 0 {
			kids.WriteString(" ")
		}
		fmt.Fprintf(&kids, "%d 0 R", 4+2*i)
	}

	objects := make([]string, 0, numObjs)
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(pageTexts)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	)
	for i, text := range pageTexts {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escapePDFString(text))
		objects = append(objects, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, numObjs)
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", numObjs+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		numObjs+1, xrefOffset)
	return buf.Bytes()
}

func escapePDFString(s string) string {
	var out bytes.Buffer
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			out.WriteByte('\\')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// WritePDF writes a generated PDF into dir and returns its path.
func WritePDF(t *testing.T, dir, name string, pageTexts ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDFBytes(pageTexts...), 0o600); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// WriteEncryptedPDF writes a generated PDF protected with the given user
// password and returns its path.
func WriteEncryptedPDF(t *testing.T, dir, name, password string, pageTexts ...string) string {
	t.Helper()
	plain := WritePDF(t, dir, "plain-"+name, pageTexts...)
	out := filepath.Join(dir, name)

	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	if err := api.EncryptFile(plain, out, conf); err != nil {
		t.Fatalf("encrypting fixture %s: %v", out, err)
	}
	if err := os.Remove(plain); err != nil {
		t.Fatalf("removing plain fixture: %v", err)
	}
	return out
}
