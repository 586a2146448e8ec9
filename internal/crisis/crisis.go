// Package crisis scans a message for high-risk language. It runs on every
// user message independently of intent classification and of the response
// path, and its result is surfaced to the caller for alerting.
package crisis

import "regexp"

// Type names the crisis family that matched.
type Type string

const (
	TypeNone             Type = ""
	TypeSuicidal         Type = "suicidal"
	TypeSevereAbuse      Type = "severe_abuse"
	TypeSevereEating     Type = "severe_eating"
	TypeSevereSelfInjury Type = "severe_self_injury"
)

// Signal reports whether a message matched any crisis family.
type Signal struct {
	IsCrisis bool `json:"isCrisis"`
	Type     Type `json:"type"`
}

type family struct {
	typ     Type
	pattern *regexp.Regexp
}

// families are checked in order; the first match wins.
var families = []family{
	{TypeSuicidal, regexp.MustCompile(`(?i)suicide|kill myself|end it all|no point living|don't want to be alive|harm myself|self-harm`)},
	{TypeSevereAbuse, regexp.MustCompile(`(?i)abuse|assault|rape|violence|hit me|forced|unwanted|violated`)},
	{TypeSevereEating, regexp.MustCompile(`(?i)starving|binge|purge|anorexia|can't eat|throwing up food`)},
	{TypeSevereSelfInjury, regexp.MustCompile(`(?i)cutting|slice|burn myself|bleeding|injure myself|self-destruct`)},
}

// Detect tests the raw text against each family in priority order.
func Detect(text string) Signal {
	for _, f := range families {
		if f.pattern.MatchString(text) {
			return Signal{IsCrisis: true, Type: f.typ}
		}
	}
	return Signal{IsCrisis: false, Type: TypeNone}
}

// Types returns the crisis families in priority order.
func Types() []Type {
	out := make([]Type, len(families))
	for i, f := range families {
		out[i] = f.typ
	}
	return out
}
