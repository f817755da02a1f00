package textmatch

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowercaser = cases.Lower(language.Und)

// Tokenize splits a transcript into lowercase whitespace-delimited words.
func Tokenize(text string) []string {
	fields := strings.Fields(lowercaser.String(text))
	if len(fields) == 0 {
		return nil
	}
	return fields
}
