// Package extract turns uploaded resume files into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrEmptyText is returned when a document yields no text.
	ErrEmptyText = errors.New("document contains no extractable text")
	// ErrUnsupportedFormat is returned for binary formats other than PDF.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

const (
	FormatPDF  = "pdf"
	FormatText = "text"
)

var pdfMagic = []byte("%PDF-")

// FromFile reads path and extracts its text.
func FromFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return FromBytes(ctx, data, filepath.Base(path))
}

// FromBytes extracts text from an in-memory document. The name is only used
// to detect the format when the content is ambiguous.
func FromBytes(ctx context.Context, data []byte, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)

	switch format := Detect(data, name); format {
	case FormatPDF:
		text, err = extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf %s: %w", name, err)
		}
	case FormatText:
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	return text, nil
}

// Detect returns FormatPDF, FormatText or an empty string for unknown content.
func Detect(data []byte, name string) string {
	if bytes.HasPrefix(data, pdfMagic) {
		return FormatPDF
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".txt", ".md", ".text":
		return FormatText
	}

	if utf8.Valid(data) && !bytes.ContainsRune(data, 0) {
		return FormatText
	}

	return ""
}

func extractPDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
