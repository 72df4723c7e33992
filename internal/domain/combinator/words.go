package combinator

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// Word matches a non-empty run of letters and digits.
func Word(input string) (string, string, error) {
	end := strings.IndexFunc(input, func(r rune) bool { return !isAlnum(r) })
	if end < 0 {
		end = len(input)
	}
	if end == 0 {
		return Fail[string](input, "word")
	}
	return input[end:], input[:end], nil
}

// TryFromWord consumes one word and maps it through lookup.
func TryFromWord[T any](label string, lookup func(string) (T, bool)) Parser[T] {
	return TryFromWordsMN(1, 1, label, lookup)
}

// TryFromWordsMN consumes between m and n space-separated words and maps them
// through lookup, longest candidate first. Words are never split.
func TryFromWordsMN[T any](m, n int, label string, lookup func(string) (T, bool)) Parser[T] {
	return func(input string) (string, T, error) {
		// ends[k] is the byte offset just past the k+1th word
		var ends []int
		pos := 0
		for len(ends) < n {
			start := pos
			if len(ends) > 0 {
				if !strings.HasPrefix(input[pos:], " ") {
					break
				}
				start++
			}
			rest, _, err := Word(input[start:])
			if err != nil {
				break
			}
			pos = len(input) - len(rest)
			ends = append(ends, pos)
		}
		for k := len(ends); k >= m && k >= 1; k-- {
			if v, ok := lookup(input[:ends[k-1]]); ok {
				return input[ends[k-1]:], v, nil
			}
		}
		return Fail[T](input, label)
	}
}

func digits(input string) (string, string, error) {
	end := strings.IndexFunc(input, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(input)
	}
	if end == 0 {
		return Fail[string](input, "digits")
	}
	return input[end:], input[:end], nil
}

func unsigned[T uint8 | uint16 | uint32](bits int) Parser[T] {
	return func(input string) (string, T, error) {
		rest, d, err := digits(input)
		if err != nil {
			return input, 0, err
		}
		v, err := strconv.ParseUint(d, 10, bits)
		if err != nil {
			return Fail[T](input, "uint"+strconv.Itoa(bits))
		}
		return rest, T(v), nil
	}
}

// Unsigned integer parsers.
var (
	Uint8  = unsigned[uint8](8)
	Uint16 = unsigned[uint16](16)
	Uint32 = unsigned[uint32](32)
)

// Int16 matches an optionally signed decimal integer.
func Int16(input string) (string, int16, error) {
	body := input
	sign := ""
	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		sign, body = body[:1], body[1:]
	}
	rest, d, err := digits(body)
	if err != nil {
		return input, 0, err
	}
	v, err := strconv.ParseInt(sign+d, 10, 16)
	if err != nil {
		return Fail[int16](input, "int16")
	}
	return rest, int16(v), nil
}

var positionTokens = map[string]struct{}{
	"P": {}, "C": {}, "1B": {}, "2B": {}, "3B": {}, "SS": {}, "LF": {}, "CF": {},
	"RF": {}, "SP": {}, "RP": {}, "CL": {}, "DH": {},
}

// keyword phrases that only ever appear between names, never inside one
var nameKeywords = []string{" out at ", " scores", " to first", " to second", " to third", " steals "}

const maxAbbreviation = 4

// IsName applies the heuristics that separate a free-text personal name from
// the grammar around it.
func IsName(s string) bool {
	if s == "" || s != strings.TrimSpace(s) || strings.Contains(s, "  ") || !strings.Contains(s, " ") {
		return false
	}
	if strings.ContainsAny(s, "!?<>,:();") {
		return false
	}
	for _, kw := range nameKeywords {
		if strings.Contains(s, kw) {
			return false
		}
	}
	tokens := strings.Split(s, " ")
	for i, tok := range tokens {
		if strings.HasSuffix(tok, ".") && utf8.RuneCountInString(tok) > maxAbbreviation {
			return false
		}
		if tok == "to" && i+1 < len(tokens) {
			if _, ok := positionTokens[tokens[i+1]]; ok {
				return false
			}
		}
	}
	return true
}

// NameEOF consumes the rest of the input as a name.
func NameEOF(input string) (string, string, error) {
	if !IsName(input) {
		return Fail[string](input, "name")
	}
	return "", input, nil
}

// NameUntil consumes a name terminated by delim, skipping occurrences that
// would leave an implausible name.
func NameUntil(delim string) Parser[string] {
	return Context("name", ParseTerminatedAnd(delim, IsName))
}
