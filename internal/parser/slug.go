package parser

import "regexp"

// datePrefixRe matches a filename stem that starts with a date-like prefix
// such as "2024-10-10_". Digits are any Unicode decimal digits.
var datePrefixRe = regexp.MustCompile(`^\p{Nd}+-\p{Nd}+-\p{Nd}+_(.*)$`)

// Slug derives an entry slug from a filename stem (no directory, no
// extension). A leading "<digits>-<digits>-<digits>_" prefix is stripped;
// any other stem is returned unchanged.
func Slug(stem string) string {
	if m := datePrefixRe.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return stem
}
