// Package intent classifies a user message into one of a fixed set of
// categories by keyword presence.
package intent

import (
	"math"
	"strings"
)

// Category is an intent label.
type Category string

const (
	Crisis    Category = "CRISIS"
	Academic  Category = "ACADEMIC"
	Physical  Category = "PHYSICAL"
	Emotional Category = "EMOTIONAL"
	General   Category = "GENERAL"
)

// Result is the classification of a single text.
type Result struct {
	Primary    Category `json:"primary"`
	Confidence int      `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

type category struct {
	name     Category
	keywords []string
}

// categories is ordered. Ties between equal scores keep the earlier entry,
// which is declaration order and not a severity ranking.
var categories = []category{
	{Crisis, []string{
		"die", "kill", "hurt myself", "end it", "suicide", "suicidal",
		"can't go on", "want to die", "end my life", "harm myself",
		"no point", "better off dead", "give up", "hopeless",
	}},
	{Academic, []string{
		"exam", "test", "study", "studying", "fail", "failing", "failed",
		"school", "university", "college", "lecturer", "professor", "teacher",
		"assignment", "homework", "grade", "grades", "class", "course",
		"presentation", "project", "deadline",
	}},
	{Physical, []string{
		"cramps", "pain", "painful", "body", "head", "headache", "tired",
		"fatigue", "nausea", "bloating", "sore", "ache", "aching",
		"stomach", "back", "bleeding", "heavy flow", "period pain",
		"exhausted", "weak", "dizzy",
	}},
	{Emotional, []string{
		"sad", "crying", "emotional", "mood", "moody", "angry", "frustrated",
		"anxious", "anxiety", "stressed", "stress", "overwhelmed", "worried",
		"upset", "depressed", "lonely", "irritable", "sensitive",
	}},
	{General, nil},
}

// Categories returns the category labels in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.name
	}
	return out
}

// Classify lower-cases text and counts, per category, how many of its
// keywords occur as substrings. A keyword contributes at most 1 no matter how
// often it repeats. The category with the strictly highest count wins;
// GENERAL is returned when nothing matches.
//
// Confidence is the winner's share of all matches across categories, so hits
// in unrelated categories dilute it.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	scores := make([]int, len(categories))
	matched := make([][]string, len(categories))
	total := 0

	for i, c := range categories {
		matched[i] = []string{}
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				scores[i]++
				matched[i] = append(matched[i], kw)
				total++
			}
		}
	}

	best := len(categories) - 1 // GENERAL
	maxScore := 0
	for i, s := range scores {
		if s > maxScore {
			maxScore = s
			best = i
		}
	}

	confidence := 0
	if total > 0 {
		confidence = int(math.Round(float64(maxScore) / float64(total) * 100))
	}

	return Result{
		Primary:    categories[best].name,
		Confidence: confidence,
		Keywords:   matched[best],
	}
}
