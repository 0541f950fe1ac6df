// Package token normalizes identifiers and prose into search tokens. The
// same pipeline feeds the TF-IDF index and query parsing, so tokenization
// must stay deterministic.
package token

import (
	"strings"
	"unicode"
)

// stopWords are never indexed: English filler plus programming noise.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"be": true, "been": true, "and": true, "or": true, "not": true, "no": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "by": true, "as": true, "it": true, "its": true, "this": true,
	"that": true, "these": true, "those": true, "i": true, "we": true,
	"you": true, "they": true, "my": true, "our": true, "your": true,
	"do": true, "does": true, "did": true, "have": true, "has": true,
	"had": true, "will": true, "would": true, "can": true, "could": true,
	"should": true, "may": true, "might": true,

	"get": true, "set": true, "let": true, "var": true, "const": true,
	"return": true, "void": true, "null": true, "true": true, "false": true,
	"undefined": true, "import": true, "export": true, "from": true,
	"require": true, "function": true, "class": true, "interface": true,
	"type": true, "enum": true, "struct": true,
}

// taskStopWords are action verbs common in natural-language task queries.
// They join stopWords when tokenizing a context-build query.
var taskStopWords = map[string]bool{
	"fix": true, "add": true, "create": true, "make": true, "build": true,
	"implement": true, "change": true, "update": true, "modify": true,
	"write": true, "code": true, "file": true, "files": true, "method": true,
}

const (
	minTokenLen = 2
	maxTokenLen = 39
)

// Tokenize splits text into normalized tokens: camelCase boundaries become
// spaces, separators (_ - . / \ :) become spaces, everything is lowercased,
// then length and stop-word filters apply.
func Tokenize(text string) []string {
	return tokenize(text, false)
}

// TokenizeQuery tokenizes a natural-language task query. It additionally
// drops task verbs (fix, add, implement, ...) that carry no signal.
func TokenizeQuery(text string) []string {
	return tokenize(text, true)
}

func tokenize(text string, query bool) []string {
	var sb strings.Builder
	sb.Grow(len(text) + len(text)/4)

	runes := []rune(text)
	for i, r := range runes {
		switch r {
		case '_', '-', '.', '/', '\\', ':':
			sb.WriteByte(' ')
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			sb.WriteByte(' ')
		}
		sb.WriteRune(unicode.ToLower(r))
	}

	fields := strings.Fields(sb.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLen || len(f) > maxTokenLen {
			continue
		}
		if stopWords[f] {
			continue
		}
		if query && taskStopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
