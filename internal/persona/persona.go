// Package persona holds Moyo's system prompts and the post-generation check
// that keeps model output inside the persona contract.
package persona

import "github.com/BTreeMap/MoyoCare/internal/language"

// Keys returns the prompt keys that have a dedicated variant.
func Keys() []string {
	return []string{KeyEnglish, KeyYoruba, KeyIgbo, KeyHausa}
}

// SystemPrompt returns the system prompt for a prompt key. Unknown keys fall
// back to the English variant.
func SystemPrompt(key string) string {
	if p, ok := prompts[key]; ok {
		return p
	}
	return prompts[KeyEnglish]
}

// SystemPromptFor returns the system prompt for a language code.
func SystemPromptFor(code language.Code) string {
	return SystemPrompt(code.PromptKey())
}
