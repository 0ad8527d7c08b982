package utils

import "strings"

func StringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// GetLeadingStringInBetweenSquareBrackets splits off a bracketed prefix
// like the "[200 OK] " status marker the search client prepends to
// response bodies.
func GetLeadingStringInBetweenSquareBrackets(str string) (bracketString string, theRestString string) {
	var (
		start = "["
		end   = "]"
	)
	s := strings.Index(str, start)
	if s == -1 {
		return
	}

	// an open bracket past index 0 belongs to the payload (a JSON array,
	// most likely), not to a prepended status marker
	if s != 0 {
		return
	}

	e := strings.Index(str[s:], end)
	if e == -1 {
		return
	}

	return strings.Trim(str[s:e+1], " "), strings.Trim(str[e+1:], " ")
}
