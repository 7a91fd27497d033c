package gateway

import "strings"

var canonicalSubjects = map[string]string{
	"maths":       "Maths",
	"math":        "Maths",
	"mathematics": "Maths",
	"science":     "Science",
	"python":      "Python",
}

// CanonicalSubject maps a known subject in any casing to the display name
// the backend stores. Unknown subjects pass through trimmed.
func CanonicalSubject(subject string) string {
	s := strings.TrimSpace(subject)
	if c, ok := canonicalSubjects[strings.ToLower(s)]; ok {
		return c
	}
	return s
}

// RouteSegment returns the lower-case form used in URLs and screen routes.
func RouteSegment(subject string) string {
	return strings.ToLower(CanonicalSubject(subject))
}

// DefaultSubjects are the subjects offered when the backend cannot list
// its own.
func DefaultSubjects() []string {
	return []string{"Maths", "Science", "Python"}
}
