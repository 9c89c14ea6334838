package refdocs

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxReferenceChars caps the assembled blob. Prompt-side token budgets trim
// further; this bound just keeps a huge document set from being read and
// concatenated wholesale.
const MaxReferenceChars = 10000

var supportedExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".pdf": true,
}

func supported(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// extractText converts one document to plain text.
func extractText(name string, data []byte) (string, error) {
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return string(data), nil
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", name, err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf %s: %w", name, err)
	}
	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("read pdf %s: %w", name, err)
	}
	return b.String(), nil
}

// assemble concatenates named document texts with separators and applies the
// character cap. Inputs must already be sorted by name.
func assemble(docs []document) string {
	var b strings.Builder
	for _, doc := range docs {
		text := strings.TrimSpace(doc.text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "=== %s ===\n%s\n\n", doc.name, text)
	}
	out := strings.TrimSpace(b.String())
	runes := []rune(out)
	if len(runes) > MaxReferenceChars {
		out = string(runes[:MaxReferenceChars])
	}
	return out
}

type document struct {
	name string
	text string
}
