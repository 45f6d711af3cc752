// Package story normalizes model output into paragraphs.
package story

import (
	"errors"
	"strings"
)

// ErrNoParagraphs is returned when the model output contains no usable text.
var ErrNoParagraphs = errors.New("story contains no paragraphs")

// Split normalizes raw model output and splits it into paragraphs.
// Paragraph boundaries are blank lines; models sometimes emit "\n \n" or
// triple newlines, which are collapsed first.
func Split(raw string) ([]string, error) {
	text := strings.ReplaceAll(raw, "\n \n", "\n\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}

	var paragraphs []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return nil, ErrNoParagraphs
	}
	return paragraphs, nil
}

// First returns the first paragraph of raw model output. This is the text
// handed to the image model as its prompt.
func First(raw string) (string, error) {
	paragraphs, err := Split(raw)
	if err != nil {
		return "", err
	}
	return paragraphs[0], nil
}
