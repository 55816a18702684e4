package client

import "fmt"

// Prompt names accepted by SystemPrompt.
const (
	PromptGenerate = "generate"
	PromptEdit     = "edit"
	PromptConverse = "converse"
)

// SystemPrompt loads one of the built-in system instructions. Generate mode
// demands one complete document; edit mode demands a full replacement that
// preserves the prior design system; converse mode forbids producing one.
func SystemPrompt(name string) (string, error) {
	data, err := embeddedPrompts.ReadFile(fmt.Sprintf("prompts/%s.txt", name))
	if err != nil {
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	return string(data), nil
}
