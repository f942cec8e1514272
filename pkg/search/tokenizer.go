package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Token string

// letters that do not decompose into a base letter plus combining marks
var commonIssues = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'ø': "o",
	'œ': "oe",
	'ł': "l",
	'đ': "d",
	'ð': "d",
	'þ': "th",
	'ı': "i",
}

// chained transformers keep state, every call gets its own
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Normalize folds accented characters to their base latin letters and lower
// cases the text. Whitespace is kept so word boundaries survive.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	folded, _, err := transform.String(stripMarks(), lower)
	if err != nil {
		folded = lower
	}
	if !strings.ContainsFunc(folded, hasCommonIssue) {
		return folded
	}
	var sb strings.Builder
	sb.Grow(len(folded))
	for _, r := range folded {
		if replacement, ok := commonIssues[r]; ok {
			sb.WriteString(replacement)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func hasCommonIssue(r rune) bool {
	_, ok := commonIssues[r]
	return ok
}

// Tokenize normalizes the text and splits it on whitespace, skipping empty
// tokens.
func Tokenize(text string) []Token {
	fields := strings.Fields(Normalize(text))
	ret := make([]Token, 0, len(fields))
	for _, field := range fields {
		ret = append(ret, Token(field))
	}
	return ret
}
