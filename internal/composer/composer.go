// Package composer builds Moyo's canned, context-aware replies for the
// rule-based response path.
//
// Generate is a pure function of its input: the same Context always yields
// byte-identical output, including the thinking trace shown in the UI.
package composer

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MoyoCare/internal/intent"
	"github.com/BTreeMap/MoyoCare/internal/models"
	"github.com/BTreeMap/MoyoCare/internal/sentiment"
)

// Context is everything the composer needs for one user turn.
type Context struct {
	Sentiment sentiment.Result
	Intent    intent.Category
	Cycle     models.CycleContext
}

// Reply is a composed response plus its reasoning trace.
type Reply struct {
	Response  string   `json:"response"`
	Thinking  []string `json:"thinking"`
	Resources []string `json:"resources,omitempty"`
}

// Branch markers appended to the thinking trace.
const (
	traceCrisis    = "⚠️ CRISIS PROTOCOL ACTIVATED"
	tracePhysical  = "Generating context-aware physical wellness advice..."
	traceAcademic  = "Providing academic support with cycle awareness..."
	traceEmotional = "Activating empathy mode..."
	traceGeneral   = "Generating supportive response..."
	tracePreparing = "Moyo is preparing response..."
)

var phaseDescriptions = map[models.CyclePhase]string{
	models.PhaseMenstrual:  "Menstrual Phase (Days 1-5)",
	models.PhaseFollicular: "Follicular Phase (Days 6-13)",
	models.PhaseOvulation:  "Ovulation Phase (Days 14-16)",
	models.PhaseLuteal:     "Luteal Phase (Days 17-28)",
}

// PhaseDescription returns the human-readable label for a cycle phase.
func PhaseDescription(p models.CyclePhase) string {
	if d, ok := phaseDescriptions[p]; ok {
		return d
	}
	return "Unknown Phase"
}

// CrisisResources are returned with every crisis reply.
var CrisisResources = []string{
	"Nigeria Emergency: 112",
	"Mental Health Helpline: 0800 9000 0009",
	"Crisis Text Line: 741741",
}

const crisisResponse = "Sis, abeg listen to me. Your life matters pass anything. I dey beg you, please reach out for help now:\n\n" +
	"🆘 **Emergency Help:**\n" +
	"• Nigeria Emergency: 112\n" +
	"• Mental Health Helpline: 0800 9000 0009\n" +
	"• Crisis Text Line: Text HOME to 741741\n\n" +
	"You no dey alone. People wey care about you dey. Please call somebody now. 💜"

const periodComfortTemplate = "Sis, I hear you - period pain no be joke at all. Since na %s you dey, make I give you some tips:\n\n" +
	"🌡️ **For Cramps & Pain:**\n" +
	"• Use hot water bottle for your belle\n" +
	"• Try small small stretching or yoga\n" +
	"• Drink warm ginger tea - e dey help well well\n\n" +
	"💊 **Wetin You Fit Do:**\n" +
	"• Take Ibuprofen (if e fit you)\n" +
	"• Try magnesium supplements\n" +
	"• Rest well, no stress yourself\n\n" +
	"%s"

const (
	menstrualClosing = "This na the hardest time, sis. Be gentle with yourself, you hear? 💛"
	otherPhaseClose  = "Your body dey work hard. Make you rest and take am easy. ✨"
)

const bodyWellnessResponse = "Sis, I dey feel you. Body pain fit be from wahala or stress. Make I help you:\n\n" +
	"💧 **Small Small Self-Care:**\n" +
	"• Drink plenty water (e dey important)\n" +
	"• Sleep well - at least 7-8 hours\n" +
	"• Take breaks, no overdo am\n\n" +
	"🌿 **Natural Ways to Feel Better:**\n" +
	"• Do small breathing exercise\n" +
	"• Stretch your body small\n" +
	"• Go outside, breathe fresh air\n\n" +
	"If e still dey pain you after some days, abeg go see doctor. Take care of yourself! 🌸"

const academicTemplate = "School wahala is real, sis. %s.\n\n" +
	"📚 **How to Manage the Stress:**\n" +
	"• Break your work into small small parts\n" +
	"• Study for 25 minutes, rest 5 minutes (Pomodoro)\n" +
	"• No pressure yourself too much\n\n" +
	"%s\n\n" +
	"🧠 **Study Tips:**\n" +
	"• Read small small, no cram marathon\n" +
	"• Face the important topics first\n" +
	"• Remember: One exam no go define who you be\n\n" +
	"You go do am, sis! I believe in you! 💪"

const (
	academicPeriodLine  = "E dey even harder when you dey on your period"
	academicDefaultLine = "But no worry, you fit do am"
	academicLutealNote  = "⚠️ Note: You dey Luteal Phase - your brain fit dey tire well well. E normal, just take am easy!"
)

const emotionalTemplate = "Sis, I dey here for you. %s\n\n" +
	"💜 **Wetin Fit Help:**\n" +
	"• Talk to person wey you trust\n" +
	"• Write how you dey feel for diary\n" +
	"• Do wetin dey make you happy\n" +
	"• Remember: This feeling go pass\n\n" +
	"%s\n\n" +
	"Take am easy with yourself today, you hear? 🌸"

const (
	emotionalPeriodLine  = "Your feelings dey valid - hormones fit cause plenty emotions during your period."
	emotionalDefaultLine = "Wetin you dey feel na real thing."
	emotionalLutealNote  = "🌙 You dey Luteal Phase - hormones fit make your emotions strong well well. E no be weakness, na biology."
)

const generalTemplate = "%s\n\n" +
	"Wetin you need help with today? I fit help with:\n" +
	"• Period wahala and how to manage am\n" +
	"• School stress and exam prep\n" +
	"• Emotional wellness tips\n" +
	"• Self-care advice based on your cycle\n\n" +
	"Talk to me, I dey listen. 💛"

const (
	generalPositiveOpening = "Ah sis! I dey happy say you dey do well! 😊"
	generalDefaultOpening  = "Sis, I dey here for you."
)

// Generate picks the first matching branch, in priority order:
// crisis, physical, academic, emotional, general. The crisis branch is
// terminal and overrides every other signal.
func Generate(c Context) Reply {
	thinking := trace(c)

	if c.Intent == intent.Crisis || c.Sentiment.Level == sentiment.LevelHighDistress {
		resources := make([]string, len(CrisisResources))
		copy(resources, CrisisResources)
		return Reply{
			Response:  crisisResponse,
			Thinking:  append(thinking, traceCrisis),
			Resources: resources,
		}
	}

	switch {
	case c.Intent == intent.Physical:
		return Reply{Response: physical(c.Cycle), Thinking: append(thinking, tracePhysical)}
	case c.Intent == intent.Academic:
		return Reply{Response: academic(c.Cycle), Thinking: append(thinking, traceAcademic)}
	case c.Intent == intent.Emotional || c.Sentiment.Level == sentiment.LevelEmpathy:
		return Reply{Response: emotional(c.Cycle), Thinking: append(thinking, traceEmotional)}
	default:
		return Reply{Response: general(c.Sentiment.Level), Thinking: append(thinking, traceGeneral)}
	}
}

// Compose runs the sentiment scorer and intent classifier on text and then
// Generate.
func Compose(text string, cycle models.CycleContext) Reply {
	return Generate(Context{
		Sentiment: sentiment.Analyze(text),
		Intent:    intent.Classify(text).Primary,
		Cycle:     cycle,
	})
}

func trace(c Context) []string {
	mode := "Inactive"
	if c.Cycle.IsPeriodMode {
		mode = "Active"
	}
	return []string{
		"Analyzing sentiment: " + strings.ToUpper(string(c.Sentiment.Level)),
		"Intent classified as: " + string(c.Intent),
		"Context: " + PhaseDescription(c.Cycle.CyclePhase),
		"Period Mode: " + mode,
		tracePreparing,
	}
}

func physical(cycle models.CycleContext) string {
	if !cycle.IsPeriodMode {
		return bodyWellnessResponse
	}
	closing := otherPhaseClose
	if cycle.CyclePhase == models.PhaseMenstrual {
		closing = menstrualClosing
	}
	return fmt.Sprintf(periodComfortTemplate, PhaseDescription(cycle.CyclePhase), closing)
}

func academic(cycle models.CycleContext) string {
	opening := academicDefaultLine
	if cycle.IsPeriodMode {
		opening = academicPeriodLine
	}
	note := ""
	if cycle.CyclePhase == models.PhaseLuteal {
		note = academicLutealNote
	}
	return fmt.Sprintf(academicTemplate, opening, note)
}

func emotional(cycle models.CycleContext) string {
	opening := emotionalDefaultLine
	if cycle.IsPeriodMode {
		opening = emotionalPeriodLine
	}
	note := ""
	if cycle.CyclePhase == models.PhaseLuteal {
		note = emotionalLutealNote
	}
	return fmt.Sprintf(emotionalTemplate, opening, note)
}

func general(level sentiment.Level) string {
	opening := generalDefaultOpening
	if level == sentiment.LevelPositive {
		opening = generalPositiveOpening
	}
	return fmt.Sprintf(generalTemplate, opening)
}
