package service

import (
	"regexp"
	"strings"
	"unicode"
)

// всё, что не буква и не цифра (юникод)
var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// isSpace: юникодные пробелы плюс BOM (U+FEFF), который тащат выгрузки из Excel/CSV.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// FoldWhitespace: trim + нижний регистр + удалить ВСЕ пробельные символы.
// "Model  X 10" → "modelx10"
func FoldWhitespace(s string) string {
	s = strings.ToLower(trimSpace(s))
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FoldToAlnum: как FoldWhitespace, но выбрасывает и пунктуацию/символы.
// "Model-X/10" → "modelx10"
func FoldToAlnum(s string) string {
	s = strings.ToLower(trimSpace(s))
	return nonAlnum.ReplaceAllString(s, "")
}
