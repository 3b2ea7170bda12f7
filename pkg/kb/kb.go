package kb

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

// Separator delimits retrievable sections of the knowledge base: a line
// holding only the marker, i.e. "---" surrounded by newlines.
const Separator = "\n---\n"

var (
	trailingWS = regexp.MustCompile(`[ \t]+\n`)
	multiNL    = regexp.MustCompile(`\n{3,}`)
	multiSP    = regexp.MustCompile(` {2,}`)
)

// Clean normalizes run-away whitespace: trailing spaces before newlines
// are dropped, 3+ newlines collapse to a paragraph break, runs of
// spaces collapse to one, and the result is trimmed. Cleaning
// already-clean text is a no-op.
func Clean(raw string) string {
	s := strings.ReplaceAll(raw, "\r", "")
	s = trailingWS.ReplaceAllString(s, "\n")
	s = multiNL.ReplaceAllString(s, "\n\n")
	s = multiSP.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ReadFile loads and cleans the knowledge-base document. A missing file
// yields a sentinel message, a read error degrades to empty text.
func ReadFile(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Sprintf("Knowledge base file missing: %s", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[kb] read %s: %v", path, err)
		return ""
	}
	return Clean(string(b))
}

// SplitChunks cuts text on the section separator. Pieces are trimmed,
// empty pieces dropped, order preserved.
func SplitChunks(text string) []string {
	parts := strings.Split(text, Separator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
