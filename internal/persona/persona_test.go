package persona

import (
	"strings"
	"testing"

	"github.com/BTreeMap/MoyoCare/internal/language"
)

func TestSystemPromptUnknownKeyFallsBackToEnglish(t *testing.T) {
	if got := SystemPrompt("klingon"); got != SystemPrompt(KeyEnglish) {
		t.Error("unknown key should return the English prompt")
	}
	if got := SystemPrompt(""); got != SystemPrompt(KeyEnglish) {
		t.Error("empty key should return the English prompt")
	}
}

func TestSystemPromptFor(t *testing.T) {
	tests := []struct {
		code language.Code
		want string
	}{
		{language.English, KeyEnglish},
		{language.Yoruba, KeyYoruba},
		{language.Igbo, KeyIgbo},
		{language.Hausa, KeyHausa},
		{"fr", KeyEnglish},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if SystemPromptFor(tt.code) != SystemPrompt(tt.want) {
				t.Errorf("SystemPromptFor(%q) did not return the %s prompt", tt.code, tt.want)
			}
		})
	}
}

func TestPromptsCarryContract(t *testing.T) {
	for _, key := range Keys() {
		p := SystemPrompt(key)
		for _, want := range []string{"MOYO", "CRISIS PROTOCOL", "112", "Never use lists", "Reply ONLY in"} {
			if !strings.Contains(p, want) {
				t.Errorf("%s prompt missing %q", key, want)
			}
		}
	}
	if !strings.Contains(SystemPrompt(KeyEnglish), SelfDescription) {
		t.Error("English prompt must carry the self-description answer")
	}
	if !strings.Contains(SystemPrompt(KeyHausa), "Reply ONLY in Hausa") {
		t.Error("Hausa prompt must require Hausa replies")
	}
}

func TestPromptsAreDistinct(t *testing.T) {
	seen := map[string]string{}
	for _, key := range Keys() {
		p := SystemPrompt(key)
		if other, ok := seen[p]; ok {
			t.Errorf("%s and %s share the same prompt", key, other)
		}
		seen[p] = key
	}
}
