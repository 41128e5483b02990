package service

import (
	"bytes"
	"path/filepath"
	"strings"
)

// NoTextFound is the sentinel returned when a document yields no readable
// text. Extraction is best-effort and never fails past its boundary.
const NoTextFound = "[No readable text found]"

// TextExtractor is the document text-extraction collaborator: given raw
// bytes and a filename it returns best-effort extracted text or the
// NoTextFound sentinel.
type TextExtractor interface {
	Extract(filename string, data []byte) string
}

// PlainTextExtractor extracts text from plain-text documents. Binary
// formats (PDF, DOCX, images) are handled by richer collaborators deployed
// separately; anything this extractor cannot read comes back as the
// sentinel.
type PlainTextExtractor struct{}

// Extract returns the document text or the NoTextFound sentinel.
func (PlainTextExtractor) Extract(filename string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".csv":
		text := string(bytes.ToValidUTF8(data, nil))
		if strings.TrimSpace(text) == "" {
			return NoTextFound
		}
		return text
	default:
		return NoTextFound
	}
}
