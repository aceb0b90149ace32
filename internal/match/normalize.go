package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent folds an identifier for comparison:
// CamelCase is tokenized, tokens are lowercased and separators dropped.
//
//	"PhaseTapChangerSymmetrical" -> "phasetapchangersymmetrical"
//	"phase_tap-changer Tabular"  -> "phasetapchangertabular"
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits an identifier into lowercase tokens.
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// LocalName strips any namespace or enum prefix: everything up to the last
// '#' or '.' is dropped.
func LocalName(s string) string {
	if i := strings.LastIndexAny(s, "#."); i >= 0 {
		return s[i+1:]
	}

	return s
}

// HasSuffixIdent reports whether the normalized form of s ends with the
// normalized form of suffix. An empty suffix never matches.
func HasSuffixIdent(s, suffix string) bool {
	want := NormalizeIdent(suffix)
	if want == "" {
		return false
	}

	return strings.HasSuffix(NormalizeIdent(LocalName(s)), want)
}

// tokenizeCamelCase splits a CamelCase string into tokens.
//
//	"XMLParser" -> ["XML", "Parser"]
//	"ratioTapChanger" -> ["ratio", "Tap", "Changer"]
func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()

			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsToken reports a lower-to-upper transition, or the last capital of
// an acronym followed by a lowercase rune.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
