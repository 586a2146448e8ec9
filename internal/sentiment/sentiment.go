// Package sentiment scores free text against a fixed weighted lexicon and
// maps the total onto a coarse distress/positivity level.
package sentiment

import "strings"

// Level is the coarse sentiment bucket derived from a score.
type Level string

const (
	LevelHighDistress Level = "high-distress"
	LevelEmpathy      Level = "empathy"
	LevelNeutral      Level = "neutral"
	LevelPositive     Level = "positive"
)

// Threshold constants for LevelFor.
const (
	highDistressMax = -3
)

// Result is the outcome of scoring a single text.
type Result struct {
	Score        int      `json:"score"`
	Level        Level    `json:"level"`
	MatchedWords []string `json:"matched_words"`
}

type entry struct {
	word   string
	weight int
}

// lexicon is iterated in declaration order so MatchedWords is stable.
var lexicon = []entry{
	// High distress (-5 to -3)
	{"devastated", -5},
	{"hopeless", -5},
	{"worthless", -5},
	{"suicidal", -5},
	{"die", -5},
	{"kill", -5},
	{"end it", -5},
	{"give up", -4},
	{"terrible", -4},
	{"awful", -4},
	{"miserable", -4},
	{"depressed", -4},
	{"anxious", -3},
	{"overwhelmed", -3},
	{"panic", -3},

	// Empathy (-2 to -1)
	{"sad", -2},
	{"tired", -2},
	{"stressed", -2},
	{"worried", -2},
	{"upset", -2},
	{"frustrated", -2},
	{"disappointed", -2},
	{"lonely", -2},
	{"hurt", -2},
	{"pain", -2},
	{"cramps", -2},
	{"uncomfortable", -1},
	{"annoyed", -1},
	{"bothered", -1},

	// Neutral (0)
	{"okay", 0},
	{"fine", 0},
	{"alright", 0},

	// Positive (1 to 5)
	{"good", 2},
	{"better", 2},
	{"happy", 3},
	{"great", 3},
	{"excited", 3},
	{"wonderful", 4},
	{"amazing", 4},
	{"fantastic", 5},
	{"excellent", 5},
}

// Analyze lower-cases text and adds the weight of every lexicon entry that
// occurs anywhere in it. Matching is plain substring containment, so "sad"
// also matches inside "sadly". Each entry counts at most once.
func Analyze(text string) Result {
	lower := strings.ToLower(text)
	total := 0
	matched := []string{}

	for _, e := range lexicon {
		if strings.Contains(lower, e.word) {
			total += e.weight
			matched = append(matched, e.word)
		}
	}

	return Result{
		Score:        total,
		Level:        LevelFor(total),
		MatchedWords: matched,
	}
}

// LevelFor maps a score onto its Level.
func LevelFor(score int) Level {
	switch {
	case score <= highDistressMax:
		return LevelHighDistress
	case score < 0:
		return LevelEmpathy
	case score == 0:
		return LevelNeutral
	default:
		return LevelPositive
	}
}
