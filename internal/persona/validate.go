package persona

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/BTreeMap/MoyoCare/internal/language"
)

// ViolationType names a way a reply can break the persona contract.
type ViolationType string

const (
	ViolationEmpty      ViolationType = "empty"
	ViolationGenericAI  ViolationType = "generic_ai"
	ViolationListPhrase ViolationType = "list_phrase"
	ViolationListMarkup ViolationType = "list_markup"
	ViolationTooLong    ViolationType = "too_long"
)

// Violation is one detected problem with a reply.
type Violation struct {
	Type   ViolationType `json:"type"`
	Detail string        `json:"detail"`
}

// Lower-cased substrings that give away a generic assistant voice.
var genericAIPhrases = []string{
	"as an ai",
	"as a language model",
	"as an artificial intelligence",
	"i'm an ai language model",
	"i am an ai language model",
	"i'm just an ai",
	"i am just an ai",
	"large language model",
	"i don't have personal feelings",
	"i do not have personal feelings",
	"i'm not able to provide medical",
	"i cannot provide medical",
	"i'm a chatbot",
	"i am a chatbot",
	"openai",
	"chatgpt",
}

var listPhrases = []string{
	"here are some ideas",
	"here are some tips",
	"here are some suggestions",
	"here are some ways",
	"here are a few",
	"here's a list",
	"here is a list",
}

var (
	numberedLine = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+\S`)
	bulletLine   = regexp.MustCompile(`(?m)^\s*[-*•]\s+\S`)
)

var fallbacks = map[language.Code]string{
	language.English: "I hear you, sis. Tell me more about what's on your mind.",
	language.Yoruba:  "Mo gbọ́ ẹ, arábìnrin mi. Sọ fún mi síi nípa ohun tó ń ṣe ọ́.",
	language.Igbo:    "Anụrụ m gị, nwanne m nwanyị. Gwakwuo m ihe na-eme gị.",
	language.Hausa:   "Na ji ki, 'yar'uwata. Ki ƙara gaya mini abin da ke damun ki.",
}

// Fallback returns the safe localized reply for a language code, English
// when the code is not supported.
func Fallback(code language.Code) string {
	if f, ok := fallbacks[code]; ok {
		return f
	}
	return fallbacks[language.English]
}

// Inspect lists every contract violation in response. A nil result means
// the reply can be sent as is.
func Inspect(response string) []Violation {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return []Violation{{Type: ViolationEmpty, Detail: "reply is empty"}}
	}

	var out []Violation
	lower := strings.ToLower(trimmed)
	for _, p := range genericAIPhrases {
		if strings.Contains(lower, p) {
			out = append(out, Violation{Type: ViolationGenericAI, Detail: p})
			break
		}
	}
	for _, p := range listPhrases {
		if strings.Contains(lower, p) {
			out = append(out, Violation{Type: ViolationListPhrase, Detail: p})
			break
		}
	}
	if numberedLine.MatchString(trimmed) {
		out = append(out, Violation{Type: ViolationListMarkup, Detail: "numbered list"})
	} else if bulletLine.MatchString(trimmed) {
		out = append(out, Violation{Type: ViolationListMarkup, Detail: "bulleted list"})
	}
	if n := len(strings.Fields(trimmed)); n > MaxWords {
		out = append(out, Violation{Type: ViolationTooLong, Detail: fmt.Sprintf("%d words > %d", n, MaxWords)})
	}
	return out
}

// Verdict is the outcome of checking one reply.
type Verdict struct {
	Text       string
	Replaced   bool
	Violations []Violation
}

// Check inspects response and swaps it for the localized fallback when it
// breaks the contract. Compliant replies are returned trimmed.
func Check(response string, code language.Code) Verdict {
	violations := Inspect(response)
	if len(violations) == 0 {
		return Verdict{Text: strings.TrimSpace(response)}
	}
	types := make([]string, len(violations))
	for i, v := range violations {
		types[i] = string(v.Type)
	}
	slog.Warn("persona.Check: reply replaced with fallback", "language", code, "violations", types, "length", len(response))
	return Verdict{Text: Fallback(code), Replaced: true, Violations: violations}
}

// Validate returns the reply that may be shown to the user.
func Validate(response string, code language.Code) string {
	return Check(response, code).Text
}
