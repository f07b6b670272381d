package analyzer

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"
)

//go:embed stopwords.txt
var defaultStopWords string

// StopWords is a set of lowercase words excluded from word usage.
type StopWords map[string]struct{}

// DefaultStopWords returns the built-in stop-word list.
func DefaultStopWords() StopWords {
	sw, err := LoadStopWords(strings.NewReader(defaultStopWords))
	if err != nil {
		// The embedded list is read from memory and cannot fail.
		panic(err)
	}
	return sw
}

// LoadStopWords reads one word per line. Blank lines and lines starting
// with # are ignored.
func LoadStopWords(r io.Reader) (StopWords, error) {
	sw := make(StopWords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		sw[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stop words: %w", err)
	}
	return sw, nil
}

// Contains reports whether word is a stop word.
func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Merge returns a new set holding the words of s plus extra.
func (s StopWords) Merge(extra ...string) StopWords {
	out := make(StopWords, len(s)+len(extra))
	for w := range s {
		out[w] = struct{}{}
	}
	for _, w := range extra {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out[w] = struct{}{}
		}
	}
	return out
}
