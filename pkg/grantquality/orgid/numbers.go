package orgid

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A trailing newline is tolerated before the end anchor.
var companyNumberRe = regexp.MustCompile(`^[\p{L}\p{N}_]{8}\n?$`)

// CheckCharityNumber reports whether s looks like a UK charity number: 6
// or 7 characters that read as an integer.
func CheckCharityNumber(s string) bool {
	n := utf8.RuneCountInString(s)
	if n != 6 && n != 7 {
		return false
	}
	return looksLikeInt(s)
}

// CheckCompanyNumber reports whether s is 8 word characters long.
func CheckCompanyNumber(s string) bool {
	return companyNumberRe.MatchString(s)
}

// StripCharityPrefix removes a two-letter register prefix such as "SC"
// from a charity number.
func StripCharityPrefix(s string) string {
	r := []rune(s)
	if len(r) < 2 || !unicode.IsLetter(r[0]) || !unicode.IsLetter(r[1]) {
		return s
	}
	return string(r[2:])
}

// looksLikeInt accepts optional surrounding whitespace, an optional sign
// and decimal digits with single underscores between them.
func looksLikeInt(s string) bool {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	prevDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			prevDigit = true
		case r == '_' && prevDigit:
			prevDigit = false
		default:
			return false
		}
	}
	return prevDigit
}
