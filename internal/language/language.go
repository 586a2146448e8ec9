// Package language guesses which of the supported languages a message is
// written in and normalises declared language tags.
//
// Detection is a low-precision heuristic built on diacritics and a handful of
// function words. The three Nigerian languages share most of their diacritics,
// so callers that know the user's declared language should use Resolve and
// let the declaration win.
package language

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

// Code is a supported language code.
type Code string

const (
	English Code = "en"
	Yoruba  Code = "yo"
	Igbo    Code = "ig"
	Hausa   Code = "ha"
)

// Supported lists the codes in detection priority order, English last.
var Supported = []Code{Yoruba, Igbo, Hausa, English}

var promptKeys = map[Code]string{
	English: "english",
	Yoruba:  "yoruba",
	Igbo:    "igbo",
	Hausa:   "hausa",
}

// PromptKey returns the persona prompt key for the code, "english" when the
// code is not supported.
func (c Code) PromptKey() string {
	if k, ok := promptKeys[c]; ok {
		return k
	}
	return promptKeys[English]
}

// IsSupported reports whether c is one of the four supported codes.
func (c Code) IsSupported() bool {
	_, ok := promptKeys[c]
	return ok
}

type candidate struct {
	code     Code
	patterns []*regexp.Regexp
}

// candidates are listed in tie-break order.
var candidates = []candidate{
	{Yoruba, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(ṣ|ọ|ẹ|gini|kí|wà|jẹ|mo|o|e|a|wa)\b`),
		regexp.MustCompile(`(?i)[àáâèéêìíîòóôùúûãõ]`),
	}},
	{Igbo, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(ị|ụ|ọ|kedu|chọ)\b`),
		regexp.MustCompile(`(?i)[àáèéìíòóùú]`),
	}},
	{Hausa, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(ɓ|ɗ|ƴ|sannu|na|shi|kida)\b`),
		regexp.MustCompile(`(?i)[àáèéìíòóùúƴ]`),
	}},
}

// Scores returns the raw match count per candidate language.
func Scores(text string) map[Code]int {
	lower := strings.ToLower(text)
	scores := make(map[Code]int, len(candidates))
	for _, c := range candidates {
		n := 0
		for _, p := range c.patterns {
			n += len(p.FindAllStringIndex(lower, -1))
		}
		scores[c.code] = n
	}
	return scores
}

// Detect returns the highest-scoring language with a score above zero.
// Equal scores resolve Yoruba, then Igbo, then Hausa. Text with no signal is
// English.
func Detect(text string) Code {
	scores := Scores(text)
	best := English
	bestScore := 0
	for _, c := range candidates {
		if s := scores[c.code]; s > bestScore {
			best = c.code
			bestScore = s
		}
	}
	return best
}

// Normalize maps a declared language (a BCP 47 tag such as "yo-NG", or a
// prompt key such as "hausa") to a supported code.
func Normalize(declared string) (Code, bool) {
	declared = strings.TrimSpace(strings.ToLower(declared))
	if declared == "" {
		return "", false
	}
	for code, key := range promptKeys {
		if declared == key {
			return code, true
		}
	}
	tag, err := language.Parse(declared)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	code := Code(base.String())
	if !code.IsSupported() {
		return "", false
	}
	return code, true
}

// Resolve picks the language for a message. A declared language always skips
// detection: supported declarations are used as-is and anything else falls
// back to English. Only messages with no declaration are detected.
func Resolve(declared, text string) Code {
	if strings.TrimSpace(declared) == "" {
		return Detect(text)
	}
	if code, ok := Normalize(declared); ok {
		return code
	}
	return English
}
